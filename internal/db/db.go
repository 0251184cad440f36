package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// Sentinel errors surfaced by the persistence layer. Callers match with
// errors.Is and map them to transport-level responses in the server package.
var (
	ErrDuplicateTitle   = errors.New("a posting with this title already exists")
	ErrDuplicateCode    = errors.New("a category with this code already exists")
	ErrNothingToPersist = errors.New("question batch is empty")
)

// DB wraps a pgx connection pool and exposes entity-scoped query methods.
type DB struct {
	pool *pgxpool.Pool
}

// Connect opens a connection pool against the given PostgreSQL URL and
// verifies connectivity with a ping before returning.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping checks database connectivity.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// EnsureSchema applies the embedded DDL. All statements are idempotent, so it
// is safe to run on every startup of the seed command.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
