package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the settings of one environment.
type Config struct {
	// storage
	DBPath string `toml:"db_path"`
	// logging
	LogLevel    string `toml:"log_level"`
	LogsPath    string `toml:"logs_path"`
	LogToStdout bool   `toml:"log_to_stdout"`
	// template used when nothing is stored yet
	Procedure string `toml:"procedure"`
}

// Toml is the layout of the config file: one table per environment.
type Toml struct {
	Development *Config
	Production  *Config
}

// Default is used for environments the config file leaves out.
func Default() *Config {
	return &Config{
		DBPath:      "knee-rehab.sqlite",
		LogLevel:    "info",
		LogsPath:    "knee-rehab.log",
		LogToStdout: false,
		Procedure:   "general",
	}
}

// Get returns the config for env, falling back to Default when the file has no table
// for it.
func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config

	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return Default(), nil
	}

	return cfg.withDefaults(), nil
}

func (c *Config) withDefaults() *Config {
	merged := *c
	def := Default()

	if merged.DBPath == "" {
		merged.DBPath = def.DBPath
	}

	if merged.LogsPath == "" {
		merged.LogsPath = def.LogsPath
	}

	if merged.LogLevel == "" {
		merged.LogLevel = def.LogLevel
	}

	if merged.Procedure == "" {
		merged.Procedure = def.Procedure
	}

	return &merged
}

// Load reads the config file at path. A missing file is not an error: every environment
// then uses Default.
func Load(path string) (*Toml, error) {
	var t Toml

	if _, err := toml.DecodeFile(path, &t); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &t, nil
		}

		return nil, fmt.Errorf("error reading config %s: %w", path, err)
	}

	return &t, nil
}
