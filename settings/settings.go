// Package settings loads application settings from an optional config file
// and ROVER_* environment variables.
package settings

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Defaults
const (
	DefaultConfigDir    = "configs"
	DefaultWorld        = "default"
	DefaultMaxCommands  = 1000
	DefaultSessionTTL   = 24 * time.Hour
	DefaultCleanupEvery = time.Hour
)

// Settings holds the values the CLI and the MCP server start from
type Settings struct {
	ConfigDir    string        `mapstructure:"config_dir"`
	DefaultWorld string        `mapstructure:"default_world"`
	MaxCommands  int           `mapstructure:"max_commands"` // 0 disables the limit
	SessionTTL   time.Duration `mapstructure:"session_ttl"`  // 0 keeps sessions forever
	CleanupEvery time.Duration `mapstructure:"cleanup_every"`
	Debug        bool          `mapstructure:"debug"`
}

// Load reads settings. With an empty path it looks for rover.{yaml,json,toml}
// in the working directory and carries on without one; an explicit path
// must exist. Environment variables (ROVER_CONFIG_DIR, ROVER_MAX_COMMANDS,
// ...) override the file, and CONFIG_DIR is honoured for the config dir.
func Load(path string) (*Settings, error) {
	v := viper.New()

	v.SetDefault("config_dir", DefaultConfigDir)
	v.SetDefault("default_world", DefaultWorld)
	v.SetDefault("max_commands", DefaultMaxCommands)
	v.SetDefault("session_ttl", DefaultSessionTTL)
	v.SetDefault("cleanup_every", DefaultCleanupEvery)
	v.SetDefault("debug", false)

	v.SetEnvPrefix("ROVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("config_dir", "ROVER_CONFIG_DIR", "CONFIG_DIR"); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	} else {
		v.SetConfigName("rover")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read settings: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Default returns the settings used when nothing is configured
func Default() *Settings {
	return &Settings{
		ConfigDir:    DefaultConfigDir,
		DefaultWorld: DefaultWorld,
		MaxCommands:  DefaultMaxCommands,
		SessionTTL:   DefaultSessionTTL,
		CleanupEvery: DefaultCleanupEvery,
	}
}

// Validate checks ranges
func (s *Settings) Validate() error {
	if s.ConfigDir == "" {
		return fmt.Errorf("%w: config_dir is required", ErrInvalidSettings)
	}
	if s.MaxCommands < 0 {
		return fmt.Errorf("%w: max_commands must be >= 0, got %d", ErrInvalidSettings, s.MaxCommands)
	}
	if s.SessionTTL < 0 {
		return fmt.Errorf("%w: session_ttl must be >= 0, got %s", ErrInvalidSettings, s.SessionTTL)
	}
	if s.CleanupEvery < 0 {
		return fmt.Errorf("%w: cleanup_every must be >= 0, got %s", ErrInvalidSettings, s.CleanupEvery)
	}
	return nil
}
