package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ClientOptions(t *testing.T) {
	opts, err := Config{URI: "mongodb://localhost:27017", Database: "accounts", Timeout: 2 * time.Second}.clientOptions()
	require.NoError(t, err)
	require.NotNil(t, opts.AppName)
	assert.Equal(t, appName, *opts.AppName)
	require.NotNil(t, opts.ServerSelectionTimeout)
	assert.Equal(t, 2*time.Second, *opts.ServerSelectionTimeout)

	opts, err = Config{URI: "mongodb://localhost:27017", Database: "accounts"}.clientOptions()
	require.NoError(t, err)
	assert.Equal(t, defaultTimeout, *opts.ServerSelectionTimeout)
}

func TestConnect_RejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "empty uri", cfg: Config{Database: "accounts"}},
		{name: "empty database", cfg: Config{URI: "mongodb://localhost:27017"}},
		{name: "bad scheme", cfg: Config{URI: "http://localhost:27017", Database: "accounts"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, db, err := Connect(context.Background(), tt.cfg)
			assert.Error(t, err)
			assert.Nil(t, client)
			assert.Nil(t, db)
		})
	}
}
