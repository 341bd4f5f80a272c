package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/viper"
)

// Load loads the configuration from file and overlays credentials from the
// process environment.
func Load(ctx context.Context, configPath string) (*Config, error) {
	return load(ctx, configPath, nil)
}

// load is Load with an injectable environment; a nil lookuper reads the OS
// environment.
func load(ctx context.Context, configPath string, lookup envconfig.Lookuper) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".tvdbv4"))
		}

		v.AddConfigPath("/etc/tvdbv4/")
	}

	if err := v.ReadInConfig(); err != nil {
		// Without an explicit path the file is optional; credentials may come
		// from the environment alone.
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := overlayEnv(ctx, &cfg, lookup); err != nil {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overlayEnv replaces file credentials with THETVDB_PIN and THETVDB_APIKEY
// when those are set.
func overlayEnv(ctx context.Context, cfg *Config, lookup envconfig.Lookuper) error {
	var env credentialEnv
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &env,
		Lookuper: lookup,
	})
	if err != nil {
		return err
	}

	if env.Pin != "" {
		cfg.TVDB.Pin = env.Pin
	}
	if env.APIKey != "" {
		cfg.TVDB.APIKey = env.APIKey
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// TheTVDB defaults
	v.SetDefault("tvdb.base_url", "https://api4.thetvdb.com/v4/")
	v.SetDefault("tvdb.language", "eng")
	v.SetDefault("tvdb.timeout", "30s")
	v.SetDefault("tvdb.token_ttl", "2500000s")
	v.SetDefault("tvdb.response_cache", false)

	v.SetDefault("output.format", "json")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid. Credentials are checked by
// the client itself so a missing pin surfaces as a tvdb.ConfigError.
func validate(cfg *Config) error {
	if cfg.TVDB.BaseURL == "" {
		return fmt.Errorf("tvdb.base_url is required")
	}

	if cfg.TVDB.Timeout < 0 {
		return fmt.Errorf("tvdb.timeout must not be negative")
	}

	if cfg.TVDB.TokenTTL < 0 {
		return fmt.Errorf("tvdb.token_ttl must not be negative")
	}

	for name, expression := range cfg.Filter {
		if expression == "" {
			return fmt.Errorf("filter %q has an empty expression", name)
		}
	}

	validOutputs := map[string]bool{
		"json": true,
		"yaml": true,
	}
	if !validOutputs[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s", cfg.Output.Format)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
