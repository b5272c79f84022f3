// Package config loads trename's configuration with koanf.
// Layers, lowest priority first: embedded defaults, the user config file,
// TRENAME_ environment variables and command-line overrides.
package config
