package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Fillbook"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"fillbook"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		Secret   string        `envconfig:"JWT_SECRET"`
		TokenTTL time.Duration `envconfig:"JWT_TTL" default:"720h"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Ledger struct {
		BaseCurrency string `envconfig:"BASE_CURRENCY" default:"RSD"`
		// TimeZone applies to imported dates that carry no offset.
		TimeZone string `envconfig:"LEDGER_TIMEZONE" default:"UTC"`
	}

	// Proportion users are optional: leaving either at zero disables
	// proportion tracking for every scope.
	Proportion struct {
		MinorUserID int64 `envconfig:"MINOR_PROPORTION_USER_ID" default:"0"`
		MajorUserID int64 `envconfig:"MAJOR_PROPORTION_USER_ID" default:"0"`
	}

	TUI struct {
		ChatID int64 `envconfig:"TUI_CHAT_ID" default:"0"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Location resolves Ledger.TimeZone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Ledger.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", c.Ledger.TimeZone, err)
	}

	return loc, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
