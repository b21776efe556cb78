package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"lightdeck/internal/domain"
)

const (
	DefaultStagePath = "stage.yaml"
	DefaultLogLevel  = "info"

	// MemoryHistory keeps the deletion ledger in memory only
	MemoryHistory = "memory"
)

// Config is the lightdeck configuration file
type Config struct {
	Stage   string `toml:"stage"`
	History string `toml:"history"`
	// Editor opens the stage file from the panel, e.g. "code --wait"
	Editor string       `toml:"editor"`
	Log    LogConfig    `toml:"log"`
	Sun    SunConfig    `toml:"sun"`
	Lights LightsConfig `toml:"lights"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// SunConfig seeds the sun simulation
type SunConfig struct {
	Day       int     `toml:"day"`
	Hour      int     `toml:"hour"`
	Minute    int     `toml:"minute"`
	Latitude  float64 `toml:"latitude"`
	Longitude float64 `toml:"longitude"`
	Light     string  `toml:"light"`
}

type LightsConfig struct {
	// Root overrides lights root detection
	Root string `toml:"root"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Stage: DefaultStagePath,
		Log:   LogConfig{Level: DefaultLogLevel},
		Sun: SunConfig{
			Day:       domain.DefaultSunDay,
			Hour:      domain.DefaultSunHour,
			Minute:    domain.DefaultSunMinute,
			Latitude:  domain.DefaultSunLatitude,
			Longitude: domain.DefaultSunLongitude,
		},
	}
}

// Path returns the config file path from LIGHTDECK_CONFIG,
// falling back to $XDG_CONFIG_HOME/lightdeck/config.toml.
func Path() string {
	if env := os.Getenv("LIGHTDECK_CONFIG"); env != "" {
		return env
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "lightdeck", "config.toml")
}

// Load reads the config file at path (Path() when empty) and applies
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if env := os.Getenv("LIGHTDECK_STAGE"); env != "" {
		cfg.Stage = env
	}
	if env := os.Getenv("LIGHTDECK_HISTORY"); env != "" {
		cfg.History = env
	}
	if cfg.Stage == "" {
		cfg.Stage = DefaultStagePath
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the sun settings
func (c *Config) Validate() error {
	if err := c.Sun.Sunpath().Validate(); err != nil {
		return fmt.Errorf("invalid [sun] config: %w", err)
	}
	return nil
}

// Sunpath returns the sun simulation inputs
func (s SunConfig) Sunpath() *domain.SunpathConfig {
	return domain.NewSunpathConfig(s.Day, s.Hour, s.Minute, s.Longitude, s.Latitude)
}

// Save writes the configuration to path
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
