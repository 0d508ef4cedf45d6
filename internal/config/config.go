// ABOUTME: TOML configuration file loading
// ABOUTME: Applies defaults, the config file and environment overrides in that order
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvDBPath overrides the database location.
const EnvDBPath = "SYMPTOMLOG_DB_PATH"

// Journal formats accepted in [journal] format.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

type Config struct {
	DBPath   string        `toml:"db_path"`
	LogLevel string        `toml:"log_level"`
	Timezone string        `toml:"timezone"`
	Journal  JournalConfig `toml:"journal"`
}

type JournalConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
	Format  string `toml:"format"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DBPath:   DefaultDBPath(),
		LogLevel: "warn",
		Timezone: "Local",
		Journal: JournalConfig{
			Enabled: false,
			Dir:     DefaultJournalDir(),
			Format:  FormatMarkdown,
		},
	}
}

// Load reads the config file at path on top of the defaults. A missing file is not
// an error. SYMPTOMLOG_DB_PATH wins over the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if dbPath := os.Getenv(EnvDBPath); dbPath != "" {
		cfg.DBPath = dbPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail much later.
func (c *Config) Validate() error {
	switch c.Journal.Format {
	case FormatMarkdown, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("invalid journal format %q (want markdown, json or yaml)", c.Journal.Format)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone used to display and parse event times.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
