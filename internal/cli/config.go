package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/gambitproject/draw-tree/pkg/errors"
	"github.com/gambitproject/draw-tree/pkg/layout"
	"github.com/gambitproject/draw-tree/pkg/pipeline"
)

// Config is the optional configuration file. Values set here become
// the defaults for render and layout commands; flags still win.
//
//	[layout]
//	horizontal_unit = 1.2
//	vertical_unit = 1.5
//	scale = 1.0
//
//	formats = ["tex", "pdf"]
//	dpi = 300
type Config struct {
	Layout  layout.Params `toml:"layout"`
	Formats []string      `toml:"formats"`
	DPI     int           `toml:"dpi"`
}

// defaultConfigPath returns the config file location using the XDG
// convention (~/.config/drawtree/config.toml).
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file at path, or the default location
// when path is empty. A missing file is not an error; a malformed one
// is.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return Config{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return Config{}, errors.New(errors.ErrCodeConfig, "config file %s does not exist", path)
		}
		return Config{}, nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfig, err, "read config %s", path)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfig, err, "parse config %s", path)
	}
	return cfg, nil
}

// applyConfig merges file-level defaults into pipeline options. Only
// fields the options leave unset are taken from the config.
func applyConfig(opts *pipeline.Options, cfg Config) {
	if opts.Params == (layout.Params{}) && cfg.Layout != (layout.Params{}) {
		opts.Params = cfg.Layout.FillDefaults()
	}
	if len(opts.Formats) == 0 && len(cfg.Formats) > 0 {
		opts.Formats = cfg.Formats
	}
	if opts.DPI == 0 && cfg.DPI > 0 {
		opts.DPI = cfg.DPI
	}
}
