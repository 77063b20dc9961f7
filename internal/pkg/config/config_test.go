package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess_Defaults(t *testing.T) {
	cfg, err := process(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDevelopment(), "error detail must be opt-in")
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTExpire)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Zero(t, cfg.Auth.HashWorkers)

	assert.Equal(t, StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, "accounts.db", cfg.Store.DatabaseURL)
	assert.Empty(t, cfg.Admin.Password)
}

func TestProcess_Overrides(t *testing.T) {
	cfg, err := process(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     "s3cret",
		"JWT_EXPIRE":     "90m",
		"ENV":            "development",
		"STORE_DRIVER":   "mongo",
		"MONGO_DB":       "accounts",
		"ADMIN_PASSWORD": "admin123",
		"HASH_WORKERS":   "4",
	}))
	require.NoError(t, err)

	assert.Equal(t, 90*time.Minute, cfg.Auth.JWTExpire)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, StoreMongo, cfg.Store.Driver)
	assert.Equal(t, "accounts", cfg.Store.MongoDB)
	assert.Equal(t, "admin123", cfg.Admin.Password)
	assert.Equal(t, 4, cfg.Auth.HashWorkers)
}

func TestProcess_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{}},
		{name: "unknown store", env: map[string]string{"JWT_SECRET": "s", "STORE_DRIVER": "redis"}},
		{name: "zero expiry", env: map[string]string{"JWT_SECRET": "s", "JWT_EXPIRE": "0s"}},
		{name: "bad duration", env: map[string]string{"JWT_SECRET": "s", "JWT_EXPIRE": "soon"}},
		{name: "bcrypt cost too high", env: map[string]string{"JWT_SECRET": "s", "BCRYPT_COST": "32"}},
		{name: "bcrypt cost too low", env: map[string]string{"JWT_SECRET": "s", "BCRYPT_COST": "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := process(context.Background(), envconfig.MapLookuper(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "9090", cfg.Port)
}
