// Package paths provides centralized path handling for trename.
//
// # Environment Variables
//
//   - TRENAME_DATA_DIR: Override the data directory (default: $XDG_DATA_HOME/trename)
//   - TRENAME_CONFIG_DIR: Override the config directory (default: $XDG_CONFIG_HOME/trename)
//   - TRENAME_STATE_DIR: Override the state directory (default: $XDG_STATE_HOME/trename)
//
// # Layout
//
//   - Data: undo.db, the undo ledger
//   - Config: config.toml, user configuration
//   - State: trename.log
package paths
