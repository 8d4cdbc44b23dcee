package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool sizing: the engine's writers are the request surface plus a single
// expiry worker, so a small pool is enough and keeps lock queues short on
// the FOR UPDATE paths.
const (
	poolMaxConns          = 8
	poolMinConns          = 2
	poolHealthCheckPeriod = 30 * time.Second
)

// DB is the pgx pool the engine keeps its lottery ledger in
type DB struct {
	*pgxpool.Pool
}

// NewConnection opens, configures and pings a connection pool
func NewConnection(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = poolMaxConns
	config.MinConns = poolMinConns
	config.HealthCheckPeriod = poolHealthCheckPeriod

	// Deadline comparisons (expires_at vs NOW()) happen server-side; pin
	// every session to UTC so they agree with the timestamps we store
	config.ConnConfig.RuntimeParams["timezone"] = "UTC"

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	db.Pool.Close()
}
