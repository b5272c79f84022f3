package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/trename/pkg/errors"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for trename
	EnvDataDir = "TRENAME_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for trename
	EnvConfigDir = "TRENAME_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for trename
	EnvStateDir = "TRENAME_STATE_DIR"
)

// Fixed names inside the trename directories.
const (
	// AppDirName is the directory name used under each XDG base
	AppDirName = "trename"

	// LedgerFileName is the undo ledger database
	LedgerFileName = "undo.db"

	// ConfigFileName is the user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "trename.log"
)

// Paths provides the locations trename reads and writes.
type Paths interface {
	DataDir() string
	ConfigDir() string
	StateDir() string
	LedgerPath() string
	ConfigFilePath() string
	LogFilePath() string
}

type paths struct {
	xdgData   string
	xdgConfig string
	xdgState  string
}

// New resolves the trename directories from the environment.
func New() (Paths, error) {
	p := &paths{
		xdgData:   dirFromEnv(EnvDataDir, xdg.DataHome),
		xdgConfig: dirFromEnv(EnvConfigDir, xdg.ConfigHome),
		xdgState:  dirFromEnv(EnvStateDir, xdg.StateHome),
	}

	for _, dir := range []*string{&p.xdgData, &p.xdgConfig, &p.xdgState} {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", *dir)
		}
		*dir = abs
	}
	return p, nil
}

// dirFromEnv returns the expanded override in env, or AppDirName under xdgBase.
func dirFromEnv(env, xdgBase string) string {
	if dir := os.Getenv(env); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdgBase, AppDirName)
}

func (p *paths) DataDir() string   { return p.xdgData }
func (p *paths) ConfigDir() string { return p.xdgConfig }
func (p *paths) StateDir() string  { return p.xdgState }

// LedgerPath is the default undo ledger location.
func (p *paths) LedgerPath() string {
	return filepath.Join(p.xdgData, LedgerFileName)
}

// ConfigFilePath is the default user config file location.
func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
