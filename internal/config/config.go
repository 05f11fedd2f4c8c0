package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all application configuration, loaded from the environment.
type Config struct {
	Server    ServerConfig    `env:",prefix=SERVER_"`
	Database  DatabaseConfig  `env:",prefix=DB_"`
	Redis     RedisConfig     `env:",prefix=REDIS_"`
	Clerk     ClerkConfig     `env:",prefix=CLERK_"`
	Metrics   MetricsConfig   `env:",prefix=METRICS_"`
	FCM       FCMConfig       `env:",prefix=FCM_"`
	RateLimit RateLimitConfig `env:",prefix=RATE_LIMIT_"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RPS,default=5"`
	Burst int     `env:"BURST,default=30"`
}

type ServerConfig struct {
	Port         string `env:"PORT,default=3333"`
	ReadTimeout  int    `env:"READ_TIMEOUT,default=5"`   // seconds
	WriteTimeout int    `env:"WRITE_TIMEOUT,default=10"` // seconds
	IdleTimeout  int    `env:"IDLE_TIMEOUT,default=120"` // seconds
}

type DatabaseConfig struct {
	URL      string `env:"URL,required"`
	MaxConns int32  `env:"MAX_CONNS,default=25"`
	MinConns int32  `env:"MIN_CONNS,default=5"`
}

type RedisConfig struct {
	URL string `env:"URL,default="`
}

type ClerkConfig struct {
	SecretKey     string `env:"SECRET_KEY,required"`
	WebhookSecret string `env:"WEBHOOK_SECRET,default="`
}

type MetricsConfig struct {
	User     string `env:"USER,default="`
	Password string `env:"PASSWORD,default="`
}

type FCMConfig struct {
	// ServiceAccountJSON is the base64 encoded service account key.
	// When empty, KeyFile is used instead.
	ServiceAccountJSON string `env:"SERVICE_ACCOUNT_JSON,default="`
	KeyFile            string `env:"KEY_FILE,default=./serviceAccountKey.json"`
}

// Load reads configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &cfg, nil
}
