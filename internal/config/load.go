package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional config
// file. Environment variables (prefix LEXIDRILL, dots replaced by
// underscores, e.g. LEXIDRILL_SERVER_PORT) take precedence over file values.
// Returns a populated Config struct or an error if loading or validation
// fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("assets.upload_dir", "./uploads")
	v.SetDefault("assets.public_base_path", "/uploads")
	v.SetDefault("assets.concurrency", 3)
	v.SetDefault("assets.provider_timeout", 30*time.Second)
	v.SetDefault("assets.gemini_model", "gemini-2.0-flash")

	// Registered with empty defaults so AutomaticEnv can populate them;
	// validation rejects the config when they stay empty.
	v.SetDefault("database.url", "")
	v.SetDefault("auth.admin_token_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 1440)

	// Optional config file in the working directory
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables
	v.SetEnvPrefix("LEXIDRILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
