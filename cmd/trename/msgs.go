package trename

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort         = "Batch-rename files and directories from a rename plan"
	MsgRenameShort       = "Apply a rename plan"
	MsgCheckShort        = "Validate a rename plan without renaming"
	MsgUndoShort         = "Revert a recorded batch"
	MsgUndoExample       = "  trename undo\n  trename undo 3fa2c1d0"
	MsgHistoryShort      = "List recorded batches"
	MsgHistoryLong       = "History lists recorded batches, most recent first, with the number of renames in each and whether it was undone."
	MsgClearHistoryShort = "Delete old batches from the ledger"
	MsgClearHistoryLong  = "Clear-history deletes every batch except the --keep most recent ones. Deleted batches can no longer be undone."
	MsgConfigShort       = "Print the effective configuration"
	MsgConfigLong        = "Config prints the configuration after merging the built-in defaults, the config file, TRENAME_ environment variables and command line flags."
	MsgVersionShort      = "Print version information"
	MsgCompletionShort   = "Generate shell completion script"
	MsgTopicsShort       = "List help topics"
	MsgTopicsLong        = "Topics lists the help topics that go beyond command help, such as the plan format. Read one with 'trename help <topic>'."

	// Status messages
	MsgVersionFormat = "trename version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrNoCommand       = "no command specified"
	MsgErrNoTopics        = "help topics are not available"
	MsgErrRenameFailures  = "%d of %d renames failed"
	MsgErrUndoFailures    = "%d entries could not be restored"
	MsgErrNegativeKeep    = "--keep must not be negative"
	MsgErrNegativeLimit   = "--limit must not be negative"
	MsgErrWriteConfigDump = "failed to write configuration"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig    = "Config file (default $XDG_CONFIG_HOME/trename/config.toml)"
	MsgFlagLedger    = "Undo ledger file (default $XDG_DATA_HOME/trename/undo.db)"
	MsgFlagFormat    = "Output format: auto, term, text, plain or json"
	MsgFlagInput     = "Plan file, - for standard input (default standard input)"
	MsgFlagClipboard = "Read the plan from the clipboard"
	MsgFlagBase      = "Directory the plan's root entries live in"
	MsgFlagDryRun    = "Show what would be renamed without touching anything"
	MsgFlagNoDedup   = "Skip every source of a duplicated target instead of keeping one"
	MsgFlagFix       = "Replace illegal characters in targets before validating"
	MsgFlagLimit     = "Number of batches to list, 0 for all (default from ledger.history_limit)"
	MsgFlagKeep      = "Number of recent batches to keep"
	MsgFlagDefaults  = "Print the built-in defaults instead of the effective configuration"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/rename-long.txt
	msgRenameLongRaw string
	MsgRenameLong    = strings.TrimSpace(msgRenameLongRaw)

	//go:embed msgs/rename-example.txt
	msgRenameExampleRaw string
	MsgRenameExample    = strings.TrimRight(msgRenameExampleRaw, "\n")

	//go:embed msgs/check-long.txt
	msgCheckLongRaw string
	MsgCheckLong    = strings.TrimSpace(msgCheckLongRaw)

	//go:embed msgs/undo-long.txt
	msgUndoLongRaw string
	MsgUndoLong    = strings.TrimSpace(msgUndoLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
