package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"
)

const (
	StoreSQLite   = "sqlite3"
	StorePostgres = "pgx"
	StoreMongo    = "mongo"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=production"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Auth  AuthConfig
	Store StoreConfig
	Admin AdminConfig
}

type AuthConfig struct {
	JWTSecret   string        `env:"JWT_SECRET,   required"`
	JWTExpire   time.Duration `env:"JWT_EXPIRE,   default=24h"`
	BcryptCost  int           `env:"BCRYPT_COST,  default=10"`
	HashWorkers int           `env:"HASH_WORKERS, default=0"`
}

type StoreConfig struct {
	Driver      string `env:"STORE_DRIVER, default=sqlite3"`
	DatabaseURL string `env:"DATABASE_URL, default=accounts.db"`
	MongoURI    string `env:"MONGO_URI,    default=mongodb://localhost:27017"`
	MongoDB     string `env:"MONGO_DB,     default=account_service"`
}

// AdminConfig seeds an administrator at startup when Password is set.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME, default=admin"`
	Email    string `env:"ADMIN_EMAIL,    default=admin@example.com"`
	Password string `env:"ADMIN_PASSWORD"`
}

// IsDevelopment reports whether ENV was explicitly set to development. Only
// then do error responses carry internal detail.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads a .env file when one exists, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return process(context.Background(), envconfig.OsLookuper())
}

func process(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreSQLite, StorePostgres, StoreMongo:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of %s, %s, %s; got %q", StoreSQLite, StorePostgres, StoreMongo, c.Store.Driver)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d; got %d", bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost)
	}
	if c.Auth.JWTExpire <= 0 {
		return fmt.Errorf("JWT_EXPIRE must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}
