// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Global exposes the application configuration.
var Global Config

// Default configuration file locations, tried in order when no path is given.
const (
	DefaultConfigFile  = "./config.yaml"
	fallbackConfigFile = "./config.yml"

	// ConfigFileEnv names the environment variable holding the configuration file path.
	ConfigFileEnv = "L10N_CONFIGFILE"
)

// Config holds the application configuration.
type Config struct {
	Build buildInfo `yaml:"-"`

	Catalog struct {
		// Directory scanned for *.ts, *.po and their .zst variants.
		// Catalogues found here replace embedded ones of the same locale.
		Dir             string `env:"L10N_CATALOG_DIR"         yaml:"dir"`
		Embedded        bool   `env:"L10N_CATALOG_EMBEDDED"    yaml:"embedded"`
		SourceLocale    string `env:"L10N_SOURCE_LOCALE"       yaml:"sourceLocale"`
		ActiveLocale    string `env:"L10N_ACTIVE_LOCALE"       yaml:"activeLocale"`
		AllowDraft      bool   `env:"L10N_ALLOW_DRAFT"         yaml:"allowDraft"`
		LoadConcurrency int    `env:"L10N_LOAD_CONCURRENCY"    yaml:"loadConcurrency"`
	} `yaml:"catalog"`

	Watch struct {
		Enabled     bool          `env:"L10N_WATCH"              yaml:"enabled"`
		MinInterval time.Duration `env:"L10N_WATCH_MIN_INTERVAL" yaml:"minInterval"`
	} `yaml:"watch"`

	Log struct {
		Level   string   `env:"L10N_LOG_LEVEL"   yaml:"logLevel"`
		Outputs []string `env:"L10N_LOG_OUTPUTS" yaml:"logOutputs"`
		Format  string   `env:"L10N_LOG_FORMAT"  yaml:"logFormat"`
	} `yaml:"log"`

	Development struct {
		InDevelopment bool `env:"L10N_DEV" yaml:"inDevelopment"`
		// Strict mode for missing keys.
		//
		// When enabled, lookups that fall back to the source text are logged
		// once per locale+key.
		StrictMissingKeys bool `env:"L10N_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"development"`
}

// LoadConfig loads the configuration from various sources.
//
// configFilePath is the value of the -config flag, or "" when it was not set.
func (cfg *Config) LoadConfig(configFilePath string) error {
	configFilePath = resolveConfigPath(configFilePath)

	cfg.SetDefaults()

	cfg.Build.load()

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	return nil
}

// resolveConfigPath determines the config file path with the correct precedence:
// 1. Command-line flag (-config)
// 2. Environment variable (L10N_CONFIGFILE)
// 3. Default path with fallback check.
func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envVar := os.Getenv(ConfigFileEnv); envVar != "" {
		return envVar
	}

	if _, err := os.Stat(DefaultConfigFile); os.IsNotExist(err) {
		if _, statErr := os.Stat(fallbackConfigFile); statErr == nil {
			return fallbackConfigFile
		}
	}

	return DefaultConfigFile
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
