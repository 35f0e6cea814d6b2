package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTKey = "defaultSecret"

// Config holds application configuration
type Config struct {
	Env    string `mapstructure:"app_env"`
	Port   string `mapstructure:"port"`
	JWTKey string `mapstructure:"jwt_secret_key"`

	BackendURL     string        `mapstructure:"backend_url"`
	BackendTimeout time.Duration `mapstructure:"backend_timeout"` // 0 keeps the transport default

	DBDriver string `mapstructure:"db_driver"` // sqlite, postgres or mysql
	DBDSN    string `mapstructure:"db_dsn"`

	NotificationPollInterval time.Duration `mapstructure:"notification_poll_interval"`

	SendgridAPIKey string `mapstructure:"sendgrid_api_key"`
	EmailSender    string `mapstructure:"email_sender"`
}

// IsProduction reports whether the gateway runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadConfig reads configuration from an optional .env file, an optional
// config.yaml and environment variables, in increasing priority.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("app_env", "local")
	v.SetDefault("port", "3000")
	v.SetDefault("jwt_secret_key", defaultJWTKey)
	v.SetDefault("backend_url", "http://localhost:8080")
	v.SetDefault("backend_timeout", "0s")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "learnhub.db")
	v.SetDefault("notification_poll_interval", "60s")
	v.SetDefault("sendgrid_api_key", "")
	v.SetDefault("email_sender", "no-reply@learnhub.local")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Validate critical configuration
	if cfg.JWTKey == defaultJWTKey {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if cfg.SendgridAPIKey == "" {
		log.Println("Warning: SENDGRID_API_KEY not set. Certificate e-mails will only be logged.")
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.BackendURL == "" {
		return errors.New("BACKEND_URL is required")
	}
	if c.NotificationPollInterval < time.Second {
		return fmt.Errorf("NOTIFICATION_POLL_INTERVAL must be at least 1s, got %s", c.NotificationPollInterval)
	}
	return nil
}
