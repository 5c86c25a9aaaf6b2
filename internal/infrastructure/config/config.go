package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string   `env:"PORT,         default=8080"`
	Env       string   `env:"ENV,          default=development"`
	LogLevel  string   `env:"LOG_LEVEL,    default=info"`
	CORSAllow []string `env:"CORS_ORIGINS, default=*"`

	// ViewWorkers is the number of goroutines applying job view increments.
	ViewWorkers int `env:"VIEW_WORKERS, default=4"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// AuthConfig holds the deployment-specific auth settings. The token window
// and the bcrypt cost are fixed in the security package.
type AuthConfig struct {
	JWTSecret     string  `env:"JWT_SECRET, required"`
	TokenDenylist bool    `env:"TOKEN_DENYLIST, default=false"`
	LoginRate     float64 `env:"LOGIN_RATE,     default=5"`
	LoginBurst    int     `env:"LOGIN_BURST,    default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=jobboard"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
