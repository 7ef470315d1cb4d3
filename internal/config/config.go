package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Port            string        `mapstructure:"PORT"`
	GinMode         string        `mapstructure:"GIN_MODE"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	DBType         string `mapstructure:"DB_TYPE"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int    `mapstructure:"DB_MAX_IDLE_CONNS"`

	CORSAllowOrigins       []string `mapstructure:"CORS_ALLOW_ORIGINS"`
	SeedReferenceData      bool     `mapstructure:"SEED_REFERENCE_DATA"`
	DetailIncludePlatforms bool     `mapstructure:"DETAIL_INCLUDE_PLATFORMS"`

	// ConfigFile is the .env file that was read, empty when only the environment was used.
	ConfigFile string `mapstructure:"-"`
}

var defaults = map[string]any{
	"PORT":                     "8080",
	"GIN_MODE":                 "release",
	"LOG_LEVEL":                "info",
	"SHUTDOWN_TIMEOUT":         "10s",
	"DB_TYPE":                  "postgres",
	"DATABASE_URL":             "",
	"DB_MAX_OPEN_CONNS":        10,
	"DB_MAX_IDLE_CONNS":        5,
	"CORS_ALLOW_ORIGINS":       "*",
	"SEED_REFERENCE_DATA":      true,
	"DETAIL_INCLUDE_PLATFORMS": true,
}

var supportedDBTypes = map[string]bool{
	"postgres":  true,
	"mysql":     true,
	"sqlite":    true,
	"sqlserver": true,
}

// Load reads configuration from a .env file found in one of dirs (the working
// directory by default) and from environment variables, which take precedence.
func Load(dirs ...string) (*Config, error) {
	v := viper.New()
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	v.SetConfigName(".env")
	v.SetConfigType("env")

	// Every key needs a default so that AutomaticEnv values reach Unmarshal.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and enumerations.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if !supportedDBTypes[c.DBType] {
		return fmt.Errorf("unsupported DB_TYPE %q", c.DBType)
	}
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	return nil
}
