package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/adrg/xdg"
	"github.com/goccy/go-yaml"
)

const (
	APP_NAME = "lcalc"

	CONFIG_FILE_RELPATH  = APP_NAME + "/config.yaml"
	HISTORY_FILE_RELPATH = APP_NAME + "/history"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

type Config struct {
	// Load the bundled library before anything else.
	Prelude bool `yaml:"prelude"`

	// Extra directories of modules, loaded after the prelude in this order.
	LibraryDirs []string `yaml:"library_dirs"`

	// Bound on beta-reductions per evaluation, 0 for none.
	MaxSteps int `yaml:"max_steps"`

	// Empty means the XDG state directory.
	HistoryFile string `yaml:"history_file"`

	LogLevel string    `yaml:"log_level"`
	Color    ColorMode `yaml:"color"`
}

func Default() Config {
	return Config{
		Prelude:  true,
		LogLevel: "warn",
		Color:    ColorAuto,
	}
}

// Path returns the config file in use, if there is one.
func Path() (string, bool) {
	path, err := xdg.SearchConfigFile(CONFIG_FILE_RELPATH)
	if err != nil {
		return "", false
	}
	return path, true
}

// HistoryPath returns where the REPL history is kept, creating the
// parent directory if needed.
func (c Config) HistoryPath() (string, error) {
	if c.HistoryFile != "" {
		return c.HistoryFile, nil
	}
	return xdg.StateFile(HISTORY_FILE_RELPATH)
}

// Load reads the file at path over the defaults. A missing file is not an
// error. An empty path means the file found by Path.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		found, ok := Path()
		if !ok {
			return cfg, nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping the fields the document omits.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
		return err
	}
	return cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be one of auto, always or never, not %q", c.Color)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative")
	}
	return nil
}
