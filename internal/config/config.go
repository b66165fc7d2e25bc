package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Assets   AssetsConfig   `mapstructure:"assets" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains the admin API boundary settings. Learner routes are
// open (single-learner design); admin routes require a bearer token signed
// with this secret.
type AuthConfig struct {
	AdminTokenSecret string `mapstructure:"admin_token_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes bounds how long an issued admin token stays valid.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// AssetsConfig contains settings for the asset generation pipeline.
type AssetsConfig struct {
	// UploadDir is the directory generated assets are written to.
	UploadDir string `mapstructure:"upload_dir" validate:"required"`

	// PublicBasePath is the URL path prefix under which UploadDir is served.
	PublicBasePath string `mapstructure:"public_base_path" validate:"required"`

	// Concurrency is the worker count for generation batches.
	Concurrency int `mapstructure:"concurrency" validate:"required,gt=0"`

	// ProviderTimeout bounds each external provider call so a hung request
	// cannot occupy a worker slot indefinitely.
	ProviderTimeout time.Duration `mapstructure:"provider_timeout" validate:"required"`

	// GeminiModel is the model used for example-sentence generation.
	GeminiModel string `mapstructure:"gemini_model" validate:"required"`
}
