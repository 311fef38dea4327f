package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Togather-Foundation/campus-events/internal/metrics"
	"github.com/Togather-Foundation/campus-events/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements storage.Backend over a PostgreSQL kv table.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres store: pool is nil")
	}
	return &Store{pool: pool}, nil
}

// Open migrates the schema and connects a pool to databaseURL.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	if err := MigrateUp(databaseURL); err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return NewStore(pool)
}

// Pool exposes the connection pool for metrics collection.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	var value string
	err := s.pool.QueryRow(ctx, `SELECT value::text FROM kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.RecordQuery("kv_load", start, nil)
		return nil, storage.ErrNotFound
	}
	metrics.RecordQuery("kv_load", start, err)
	if err != nil {
		return nil, fmt.Errorf("select kv: %w", err)
	}
	return []byte(value), nil
}

func (s *Store) Save(ctx context.Context, key string, value []byte) error {
	const query = `
INSERT INTO kv (key, value, updated_at) VALUES ($1, $2::jsonb, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	start := time.Now()
	_, err := s.pool.Exec(ctx, query, key, string(value))
	metrics.RecordQuery("kv_save", start, err)
	if err != nil {
		return fmt.Errorf("upsert kv: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	start := time.Now()
	_, err := s.pool.Exec(ctx, `DELETE FROM kv WHERE key = $1`, key)
	metrics.RecordQuery("kv_delete", start, err)
	if err != nil {
		return fmt.Errorf("delete kv: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
