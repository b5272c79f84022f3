package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/arthur-debert/trename/pkg/errors"
	"github.com/arthur-debert/trename/pkg/logging"
	"github.com/arthur-debert/trename/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

// EnvPrefix marks environment variables read as configuration. Sections and
// keys are separated by a double underscore: TRENAME_RENAME__SMART_DEDUP.
const EnvPrefix = "TRENAME_"

const envNesting = "__"

// Display formats accepted in display.format.
var validFormats = map[string]bool{
	"auto": true, "term": true, "terminal": true, "text": true, "plain": true, "json": true,
}

// Config is the effective trename configuration.
type Config struct {
	Ledger  Ledger  `koanf:"ledger"`
	Rename  Rename  `koanf:"rename"`
	Display Display `koanf:"display"`

	k *koanf.Koanf
}

// Ledger configures the undo ledger.
type Ledger struct {
	Path         string        `koanf:"path"`
	HistoryLimit int           `koanf:"history_limit"`
	OpenTimeout  time.Duration `koanf:"open_timeout"`
}

// Rename configures batch renames.
type Rename struct {
	SmartDedup bool `koanf:"smart_dedup"`
}

// Display configures output.
type Display struct {
	MaxConflicts int    `koanf:"max_conflicts"`
	Format       string `koanf:"format"`
}

// LoadOptions selects the optional layers of Load.
type LoadOptions struct {
	// File is an explicit config file. It must exist. When empty the
	// default config file is used if present.
	File string
	// Overrides are applied last, keyed by dotted path ("ledger.path").
	Overrides map[string]interface{}
}

// Load builds the configuration from, in increasing priority: embedded
// defaults, the user config file, TRENAME_ environment variables and
// explicit overrides.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	p, err := paths.New()
	if err != nil {
		return nil, err
	}

	// 2. User config file
	configFile := opts.File
	if configFile == "" {
		if _, err := os.Stat(p.ConfigFilePath()); err == nil {
			configFile = p.ConfigFilePath()
		}
	}
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", configFile)
		}
		logger.Debug().Str("path", configFile).Msg("Loaded config file")
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	// 5. Unmarshal
	cfg := &Config{k: k}
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}
	if err := k.UnmarshalWithConf("", cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	// 6. Post-process
	if cfg.Ledger.Path == "" {
		cfg.Ledger.Path = p.LedgerPath()
	} else {
		cfg.Ledger.Path = paths.ExpandHome(cfg.Ledger.Path)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// envKey maps TRENAME_LEDGER__HISTORY_LIMIT to ledger.history_limit.
// Variables without a section separator (TRENAME_DATA_DIR and friends)
// are not configuration keys and are skipped.
func envKey(s string) string {
	key := strings.TrimPrefix(s, EnvPrefix)
	if !strings.Contains(key, envNesting) {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(key), envNesting, ".")
}

func (c *Config) validate() error {
	switch {
	case c.Ledger.HistoryLimit < 0:
		return errors.Newf(errors.ErrConfigParse, "ledger.history_limit must not be negative, got %d", c.Ledger.HistoryLimit)
	case c.Ledger.OpenTimeout < 0:
		return errors.Newf(errors.ErrConfigParse, "ledger.open_timeout must not be negative, got %s", c.Ledger.OpenTimeout)
	case c.Display.MaxConflicts < 0:
		return errors.Newf(errors.ErrConfigParse, "display.max_conflicts must not be negative, got %d", c.Display.MaxConflicts)
	case !validFormats[c.Display.Format]:
		return errors.Newf(errors.ErrConfigParse, "display.format must be one of auto, term, text, json, got %q", c.Display.Format)
	}
	return nil
}

// Dump encodes the effective configuration as TOML.
func (c *Config) Dump() ([]byte, error) {
	raw := c.k.Raw()
	if ledger, ok := raw["ledger"].(map[string]interface{}); ok {
		ledger["path"] = c.Ledger.Path
	}
	out, err := gotoml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return out, nil
}
