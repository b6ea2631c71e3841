package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Pool defaults match the reference deployment: a small shared pool plus a
// per-statement ceiling so one slow query cannot hold a slot indefinitely.
const (
	DefaultMaxOpenConns = 10
	DefaultMaxIdleConns = 1
	DefaultQueryTimeout = 60 * time.Second
)

// Config holds connection settings for Open.
type Config struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	QueryTimeout time.Duration
}

// DB is the process-wide storage handle. It is constructed once at startup,
// injected into every repository, and closed on shutdown.
type DB struct {
	*sql.DB
	queryTimeout time.Duration
}

// Open connects to Postgres, verifies the connection, and applies pool
// limits. The caller owns the returned DB and must Close it.
func Open(cfg Config) (*DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("storage: DATABASE_URL is required")
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = DefaultMaxOpenConns
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = DefaultMaxIdleConns
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	return NewDB(db, cfg.QueryTimeout), nil
}

// NewDB wraps an already-open pool.
func NewDB(db *sql.DB, queryTimeout time.Duration) *DB {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	return &DB{DB: db, queryTimeout: queryTimeout}
}

// OperationContext derives a context bounded by the command timeout. Every
// repository operation runs under one so a stuck statement fails instead of
// pinning its connection.
func (d *DB) OperationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.queryTimeout)
}
