// Package config provides settings management for gasoline-mcp using Viper.
package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// AppName is the application name used for the settings directory.
const AppName = "gasoline-mcp"

// Settings represents the top-level settings structure.
//
// Everything here has a working default; the settings file is optional and
// exists for operators who need to point at a non-standard binary or tune
// external command timeouts.
type Settings struct {
	Version int `mapstructure:"version" yaml:"version"`

	// BinaryPath overrides discovery of the gasoline server binary.
	BinaryPath string `mapstructure:"binary_path" yaml:"binary_path"`

	// CommandTimeout bounds CLI-type client registration commands.
	CommandTimeout time.Duration `mapstructure:"command_timeout" yaml:"command_timeout"`

	// ProbeTimeout bounds the doctor's read-only CLI probes.
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" yaml:"probe_timeout"`

	// LogFormat is the default log format: text or json.
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Default timeouts for external client tooling. Every invocation of a
// client tool gets a short, bounded deadline.
const (
	DefaultCommandTimeout = 15 * time.Second
	DefaultProbeTimeout   = 10 * time.Second
)

// Init initializes Viper with default settings.
// Call this once at application startup before accessing settings values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(filepath.Join(xdg.ConfigHome, AppName))

	// Environment variable support: GASOLINE_COMMAND_TIMEOUT etc.
	viper.SetEnvPrefix("GASOLINE")
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("command_timeout", DefaultCommandTimeout)
	viper.SetDefault("probe_timeout", DefaultProbeTimeout)
	viper.SetDefault("log_format", "text")
}

// Load reads the settings file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches the default locations and falls back to
// defaults when no file is found.
func Load(path string) (*Settings, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// An explicit path must exist; an implicit search may not.
			if path != "" {
				return nil, errors.Wrapf(err, "settings file not found at %s", path)
			}
		} else {
			return nil, errors.Wrap(err, "reading settings file")
		}
	}

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "unmarshaling settings")
	}

	if s.CommandTimeout <= 0 {
		s.CommandTimeout = DefaultCommandTimeout
	}
	if s.ProbeTimeout <= 0 {
		s.ProbeTimeout = DefaultProbeTimeout
	}

	return &s, nil
}

// DefaultSettingsPath returns the canonical settings file location.
func DefaultSettingsPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}
