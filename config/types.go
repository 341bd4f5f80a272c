package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TVDB    TVDBConfig    `mapstructure:"tvdb"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TVDBConfig holds TheTVDB credentials and client settings
type TVDBConfig struct {
	Pin           string        `mapstructure:"pin"`
	APIKey        string        `mapstructure:"api_key"`
	BaseURL       string        `mapstructure:"base_url"`
	Language      string        `mapstructure:"language"`
	Timeout       time.Duration `mapstructure:"timeout"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	ResponseCache bool          `mapstructure:"response_cache"`
}

// FilterConfig maps preset names to filter expressions
type FilterConfig map[string]string

// OutputConfig controls how records are printed
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// credentialEnv is overlaid onto TVDBConfig from the environment.
type credentialEnv struct {
	Pin    string `env:"THETVDB_PIN"`
	APIKey string `env:"THETVDB_APIKEY"`
}
