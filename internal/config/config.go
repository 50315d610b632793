// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultSessionSecret = "change-me-session-secret"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port                          string  `mapstructure:"PORT"`
	Env                           string  `mapstructure:"APP_ENV"`
	LogLevel                      string  `mapstructure:"LOG_LEVEL"`
	DBHost                        string  `mapstructure:"DB_HOST"`
	DBPort                        string  `mapstructure:"DB_PORT"`
	DBUser                        string  `mapstructure:"DB_USER"`
	DBPassword                    string  `mapstructure:"DB_PASSWORD"`
	DBName                        string  `mapstructure:"DB_NAME"`
	DBSSLMode                     string  `mapstructure:"DB_SSLMODE"`
	DBSchemaMode                  string  `mapstructure:"DB_SCHEMA_MODE"`
	DBAutoMigrateAllowDestructive bool    `mapstructure:"DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE"`
	DBMaxOpenConns                int     `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns                int     `mapstructure:"DB_MAX_IDLE_CONNS"`
	RedisURL                      string  `mapstructure:"REDIS_URL"`
	SessionSecret                 string  `mapstructure:"SESSION_SECRET"`
	SessionTTLHours               int     `mapstructure:"SESSION_TTL_HOURS"`
	AllowedOrigins                string  `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags                  string  `mapstructure:"FEATURE_FLAGS"`
	DiscordClientID               string  `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret           string  `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURI            string  `mapstructure:"DISCORD_REDIRECT_URI"`
	AcceptedWebhookURL            string  `mapstructure:"DISCORD_ACCEPTED_WEBHOOK_URL"`
	DeniedWebhookURL              string  `mapstructure:"DISCORD_DENIED_WEBHOOK_URL"`
	ApplicationTypesFile          string  `mapstructure:"APPLICATION_TYPES_FILE"`
	BootstrapAdminID              string  `mapstructure:"BOOTSTRAP_ADMIN_DISCORD_ID"`
	BootstrapAdminName            string  `mapstructure:"BOOTSTRAP_ADMIN_USERNAME"`
	NotifyTimeoutSeconds          int     `mapstructure:"NOTIFY_TIMEOUT_SECONDS"`
	FrontendRedirectPath          string  `mapstructure:"FRONTEND_REDIRECT_PATH"`
	TracingEnabled                bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter               string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint                  string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSamplerRatio           float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file is optional; environment variables alone are enough.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config.%s.yml: %w", env, err)
			}
		} else {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("PORT", "3000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "guildapply")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_SCHEMA_MODE", "hybrid")
	viper.SetDefault("DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE", false)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("SESSION_SECRET", defaultSessionSecret)
	viper.SetDefault("SESSION_TTL_HOURS", 24)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("FEATURE_FLAGS", "")
	viper.SetDefault("DISCORD_CLIENT_ID", "")
	viper.SetDefault("DISCORD_CLIENT_SECRET", "")
	viper.SetDefault("DISCORD_REDIRECT_URI", "http://localhost:3000/auth/discord/callback")
	viper.SetDefault("DISCORD_ACCEPTED_WEBHOOK_URL", "")
	viper.SetDefault("DISCORD_DENIED_WEBHOOK_URL", "")
	viper.SetDefault("APPLICATION_TYPES_FILE", "")
	viper.SetDefault("BOOTSTRAP_ADMIN_DISCORD_ID", "")
	viper.SetDefault("BOOTSTRAP_ADMIN_USERNAME", "")
	viper.SetDefault("NOTIFY_TIMEOUT_SECONDS", 10)
	viper.SetDefault("FRONTEND_REDIRECT_PATH", "/apply.html")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "otlp")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))
	c.DBSchemaMode = strings.ToLower(strings.TrimSpace(c.DBSchemaMode))
	c.TracingExporter = strings.ToLower(strings.TrimSpace(c.TracingExporter))
	c.BootstrapAdminID = strings.TrimSpace(c.BootstrapAdminID)
	if c.SessionTTLHours <= 0 {
		c.SessionTTLHours = 24
	}
	if c.NotifyTimeoutSeconds <= 0 {
		c.NotifyTimeoutSeconds = 10
	}
	if c.FrontendRedirectPath == "" {
		c.FrontendRedirectPath = "/apply.html"
	}
}

// IsProduction reports whether the strict production profile is active.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// SessionTTL returns the session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// NotifyTimeout bounds each outbound notification attempt.
func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.NotifyTimeoutSeconds) * time.Second
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if c.BootstrapAdminID != "" && c.BootstrapAdminName == "" {
		return errors.New("BOOTSTRAP_ADMIN_USERNAME is required when BOOTSTRAP_ADMIN_DISCORD_ID is set")
	}

	if c.IsProduction() {
		if c.SessionSecret == defaultSessionSecret {
			return errors.New("SESSION_SECRET must be changed from the default value in production")
		}
		if len(c.SessionSecret) < 32 {
			return errors.New("SESSION_SECRET must be at least 32 characters in production")
		}
		if c.DiscordClientID == "" || c.DiscordClientSecret == "" {
			return errors.New("DISCORD_CLIENT_ID and DISCORD_CLIENT_SECRET are required in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.SessionSecret) < 32 {
		log.Println("WARNING: SESSION_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	if c.AcceptedWebhookURL == "" || c.DeniedWebhookURL == "" {
		log.Println("WARNING: one or both Discord review webhooks are not configured; review notifications will be skipped.")
	}

	return nil
}
