package app

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	PageSize int `envconfig:"PAGE_SIZE" default:"10"`

	SupplierFeedURL     string        `envconfig:"SUPPLIER_FEED_URL" default:""`
	SupplierFeedTimeout time.Duration `envconfig:"SUPPLIER_FEED_TIMEOUT" default:"10s"`

	RedisAddr   string        `envconfig:"REDIS_ADDR" default:""`
	SnapshotTTL time.Duration `envconfig:"SNAPSHOT_TTL" default:"24h"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
}

// LoadConfig reads configuration from environment variables. A .env file in
// the working directory is loaded first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
