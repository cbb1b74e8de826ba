package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config contains client configuration parameters.
type Config struct {
	LogLevel      int        `env:"LOG_LEVEL" envDefault:"0"`
	API           API        `envPrefix:"API_"`
	TokenStore    TokenStore `envPrefix:"TOKEN_STORE_"`
	Upload        Upload     `envPrefix:"UPLOAD_"`
	Artifacts     Artifacts  `envPrefix:"ARTIFACTS_"`
	Storage       Storage    `envPrefix:"MINIO_"`
	WatchSchedule string     `env:"WATCH_SCHEDULE" envDefault:"@every 30s"`
}

// API contains portal backend parameters.
type API struct {
	BaseURL   string        `env:"BASE_URL" envDefault:"http://localhost:5000/api"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"30s"`
	RateLimit float64       `env:"RATE_LIMIT" envDefault:"10"`
	RateBurst int           `env:"RATE_BURST" envDefault:"20"`
}

// TokenStore contains parameters of the persisted credential token.
type TokenStore struct {
	Backend     string `env:"BACKEND" envDefault:"file"`
	Dir         string `env:"DIR" envDefault:".scanportal"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB     int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix string `env:"REDIS_PREFIX" envDefault:"scanportal:"`
}

// Upload contains scan upload parameters.
type Upload struct {
	MaxBytes        int64 `env:"MAX_BYTES" envDefault:"10485760"`
	PreviewMaxDimPx uint  `env:"PREVIEW_MAX_DIM" envDefault:"0"`
}

// Artifacts contains parameters of downloaded report storage.
type Artifacts struct {
	Backend string `env:"BACKEND" envDefault:"local"`
	Dir     string `env:"DIR" envDefault:"."`
}

// Storage contains object storage parameters.
type Storage struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"scanportal-access-key"`
	SecretKey string `env:"SECRET_KEY" envDefault:"scanportal-secret-key"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"scanportal-reports"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// NewConfig loads configuration from an optional .env file and environment variables.
func NewConfig() (*Config, error) {
	return NewConfigFrom(".env")
}

// NewConfigFrom is NewConfig with an explicit dotenv path. A missing file is ignored;
// variables already set in the environment win over the file.
func NewConfigFrom(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", dotenvPath, err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	switch c.TokenStore.Backend {
	case "file", "redis":
	default:
		return fmt.Errorf("unknown TOKEN_STORE_BACKEND %q", c.TokenStore.Backend)
	}
	switch c.Artifacts.Backend {
	case "local", "minio":
	default:
		return fmt.Errorf("unknown ARTIFACTS_BACKEND %q", c.Artifacts.Backend)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}
