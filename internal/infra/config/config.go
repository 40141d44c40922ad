// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/osa030/noisebox/internal/domain/sound"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Audio   AudioConfig   `yaml:"audio"`
	Catalog CatalogConfig `yaml:"catalog"`
	UI      UIConfig      `yaml:"ui"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr  string `yaml:"addr" default:":8080"`
	Token string `yaml:"token"` // Required for Tap when set
}

// AudioConfig represents audio subsystem configuration.
type AudioConfig struct {
	Backend BackendConfig `yaml:"backend"`
}

// BackendConfig selects and configures the audio backend.
type BackendConfig struct {
	Type     string         `yaml:"type" default:"null" validate:"oneof=beep null"`
	Settings map[string]any `yaml:"settings"`
}

// CatalogConfig represents the static sound catalog.
type CatalogConfig struct {
	Sounds []SoundConfig `yaml:"sounds" validate:"required,min=1,dive"`
}

// SoundConfig represents a single catalog entry.
type SoundConfig struct {
	ID    string `yaml:"id" validate:"required"`
	Title string `yaml:"title" validate:"required"`
	File  string `yaml:"file" validate:"required"`
}

// UIConfig represents presentation defaults.
type UIConfig struct {
	Theme   string `yaml:"theme" default:"dark" validate:"oneof=dark light"`
	Columns int    `yaml:"columns" default:"2" validate:"gte=1,lte=6"`
}

// DefaultSounds returns the built-in catalog.
func DefaultSounds() []SoundConfig {
	return []SoundConfig{
		{ID: "1", Title: "Waterfall", File: "waterfall.mp3"},
		{ID: "2", Title: "River", File: "river.mp3"},
		{ID: "3", Title: "Forest", File: "forest.mp3"},
		{ID: "4", Title: "Fan", File: "fan.mp3"},
	}
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// LoadOrDefault loads path, or returns the built-in configuration when path
// is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}
	return Load(path)
}

// Parse parses YAML configuration data and applies env overrides, defaults
// and validation.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	if len(cfg.Catalog.Sounds) == 0 {
		cfg.Catalog.Sounds = DefaultSounds()
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("NOISEBOX_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("NOISEBOX_TOKEN"); v != "" {
		c.Server.Token = v
	}
	if v := os.Getenv("NOISEBOX_AUDIO_BACKEND"); v != "" {
		c.Audio.Backend.Type = v
	}
	if v := os.Getenv("NOISEBOX_ASSETS_DIR"); v != "" {
		if c.Audio.Backend.Settings == nil {
			c.Audio.Backend.Settings = make(map[string]any)
		}
		c.Audio.Backend.Settings["assets_dir"] = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if err := c.validateCatalogIDs(); err != nil {
		return err
	}

	return nil
}

// validateCatalogIDs checks that sound IDs are unique and not reserved.
func (c *Config) validateCatalogIDs() error {
	seen := make(map[string]bool, len(c.Catalog.Sounds))
	for _, s := range c.Catalog.Sounds {
		if sound.IsAdID(s.ID) {
			return errors.Newf("sound id %q is reserved", s.ID)
		}
		if seen[s.ID] {
			return errors.Newf("duplicate sound id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}
