package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const envProduction = "production"

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	AppURL    string `env:"APP_URL,   default=http://localhost:3000"`

	Auth  AuthConfig
	Usage UsageConfig
	Reset ResetConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET, required"`
	JWTTTL     time.Duration `env:"JWT_TTL,    default=1h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`
}

type UsageConfig struct {
	DailyLimit int           `env:"AI_DAILY_LIMIT,  default=20"`
	Window     time.Duration `env:"AI_USAGE_WINDOW, default=24h"`
}

type ResetConfig struct {
	TokenTTL time.Duration `env:"RESET_TOKEN_TTL, default=1h"`
	Throttle time.Duration `env:"RESET_THROTTLE,  default=1m"`
	Workers  int           `env:"RESET_WORKERS,   default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=studyforge"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsProduction reports whether the service runs with production settings,
// which among other things marks the session cookie Secure.
func (c *Config) IsProduction() bool {
	return c.Env == envProduction
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from an explicit set of values.
func LoadFrom(ctx context.Context, values map[string]string) (*Config, error) {
	return load(ctx, envconfig.MapLookuper(values))
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Usage.DailyLimit < 1:
		return fmt.Errorf("AI_DAILY_LIMIT must be positive, got %d", c.Usage.DailyLimit)
	case c.Usage.Window <= 0:
		return fmt.Errorf("AI_USAGE_WINDOW must be positive, got %s", c.Usage.Window)
	case c.Auth.JWTTTL <= 0:
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.Auth.JWTTTL)
	case c.Reset.TokenTTL <= 0:
		return fmt.Errorf("RESET_TOKEN_TTL must be positive, got %s", c.Reset.TokenTTL)
	}
	return nil
}
