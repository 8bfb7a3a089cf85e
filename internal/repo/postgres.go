package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Совпадает с migrations/001_create_kv_store.up.sql
const kvSchema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		storage_key TEXT PRIMARY KEY,
		value       BYTEA NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

type PostgresKV struct {
	pool *pgxpool.Pool
}

func NewPostgresKV(pool *pgxpool.Pool) *PostgresKV {
	return &PostgresKV{pool: pool}
}

func (p *PostgresKV) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, kvSchema)
	return err
}

func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := p.pool.QueryRow(ctx, `
		SELECT value FROM kv_store WHERE storage_key = $1
	`, key).Scan(&value)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (p *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO kv_store (storage_key, value) VALUES ($1, $2)
		ON CONFLICT (storage_key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, value)
	return err
}

func (p *PostgresKV) Delete(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, "DELETE FROM kv_store WHERE storage_key = $1", key)
	return err
}
