package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"vsla"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"vsla"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
		MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
		TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"720h"`
		// WriteRoles may create and change records; every authenticated user can read.
		WriteRoles []string `envconfig:"WRITE_ROLES" default:"admin,manager,loan_officer"`
	}

	Group struct {
		SingleGroupMode bool `envconfig:"SINGLE_GROUP_MODE" default:"true"`
	}

	Reconcile struct {
		// Schedule is a cron spec; empty disables the periodic job.
		Schedule string        `envconfig:"RECONCILE_SCHEDULE" default:"@daily"`
		Timeout  time.Duration `envconfig:"RECONCILE_TIMEOUT" default:"5m"`
	}

	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"info"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Admin struct {
		Email        string `envconfig:"ADMIN_EMAIL"`
		Password     string `envconfig:"ADMIN_PASSWORD"`
		Username     string `envconfig:"ADMIN_USERNAME" default:"admin"`
		Organization string `envconfig:"ADMIN_ORGANIZATION" default:"VSLA"`
		Branch       string `envconfig:"ADMIN_BRANCH" default:"Head Office"`
		BranchCode   string `envconfig:"ADMIN_BRANCH_CODE" default:"HQ"`
	}
}

func (c *Config) ConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path:     c.DB.Name,
		RawQuery: url.Values{"sslmode": {c.DB.SSLMode}}.Encode(),
	}

	return u.String()
}

// Load reads a .env file when one exists, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
