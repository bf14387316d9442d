// Package repository provides persistence implementations for the services:
// a Postgres-backed key-value store and JSON file fixtures for the roster and catalog.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresKVRepository implements a key-value store on top of the kv table.
type PostgresKVRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresKVRepository creates a new PostgresKVRepository with the given database connection.
// db must be a valid *sql.DB connected to a PostgreSQL instance with the kv table.
func NewPostgresKVRepository(db *sql.DB) *PostgresKVRepository {
	return &PostgresKVRepository{DB: db}
}

// Get fetches the value stored under key.
// It returns ok=false with a nil error when the key is absent.
func (r *PostgresKVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.DB.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set inserts or replaces the value stored under key in a single statement,
// so readers never observe a partial write.
func (r *PostgresKVRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Removing a missing key is not an error.
func (r *PostgresKVRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
