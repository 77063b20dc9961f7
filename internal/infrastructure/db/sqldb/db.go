// Package sqldb is the relational credential store. It runs on SQLite by
// default and on PostgreSQL through the pgx stdlib driver; queries use $N
// placeholders, which both dialects accept.
package sqldb

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers "sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"

	defaultTimeout = 5 * time.Second
)

// Config captures the settings for opening the account database.
type Config struct {
	Driver  string
	DSN     string
	Timeout time.Duration
}

// Open connects to the database and verifies connectivity with a ping.
// SQLite is limited to a single connection: it has one writer, and an
// in-memory database only lives as long as its connection.
func Open(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	switch cfg.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("sqldb: unsupported driver %q", cfg.Driver)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqldb open: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqldb ping: %w", err)
	}
	return db, nil
}
