// Package config handles configuration loading for the auction service.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the auction service.
type Config struct {
	DBHost     string `env:"DB_HOST,required"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER,required"`
	DBPassword string `env:"DB_PASSWORD,required"`
	DBName     string `env:"DB_NAME,required"`

	RedisHost     string `env:"REDIS_HOST,required"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// JWTSecret has no default on purpose; the process refuses to start
	// without one.
	JWTSecret   string        `env:"JWT_SECRET,required"`
	TokenExpiry time.Duration `env:"TOKEN_EXPIRY" envDefault:"24h"`

	UploadDir      string   `env:"UPLOAD_DIR" envDefault:"public/uploads"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	Port        string `env:"PORT" envDefault:"5000"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// Load reads configuration from the environment, consulting a .env file
// when present.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return cfg, nil
}
