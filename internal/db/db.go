package db

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool connects to the database named by DATABASE_URL.
func NewPool(ctx context.Context) (*pgxpool.Pool, error) {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse DATABASE_URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the three tables if they do not exist. The CHECK on
// warehouse_items.stock backs the application-level invariant at the storage
// layer as well.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS warehouse_items (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			price      NUMERIC(14,2) NOT NULL CHECK (price >= 0),
			stock      INTEGER NOT NULL CHECK (stock >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS services (
			id                TEXT PRIMARY KEY,
			code              TEXT NOT NULL,
			name              TEXT NOT NULL,
			price             NUMERIC(14,2) NOT NULL CHECK (price >= 0),
			assigned_user     TEXT NOT NULL,
			warehouse_item_id TEXT,
			status            TEXT NOT NULL CHECK (status IN ('pending', 'in_progress', 'completed')),
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_services_assigned_user ON services (assigned_user);

		CREATE TABLE IF NOT EXISTS users (
			email    TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			password TEXT NOT NULL,
			role     TEXT NOT NULL CHECK (role IN ('admin', 'user')),
			approved BOOLEAN NOT NULL DEFAULT FALSE
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
