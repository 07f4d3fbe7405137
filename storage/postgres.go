package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"sitescope/utils"
)

// PostgresStore persists session values in PostgreSQL.
type PostgresStore struct {
	db  *sql.DB
	ttl time.Duration
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(ctx context.Context, dsn string, ttl time.Duration, retry *utils.RetryConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	err = retry.Do(ctx, "postgres-ping", func(ctx context.Context) error {
		return db.PingContext(ctx)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db, ttl: ttl}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS session_values (
			session_id  VARCHAR(64)  NOT NULL,
			key         VARCHAR(64)  NOT NULL,
			value       TEXT         NOT NULL DEFAULT '',
			updated_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			PRIMARY KEY (session_id, key)
		);

		CREATE INDEX IF NOT EXISTS idx_session_values_updated_at ON session_values(updated_at);
	`)
	return err
}

// PurgeExpired deletes values that have not been written within the TTL.
func (ps *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	if ps.ttl <= 0 {
		return 0, nil
	}
	res, err := ps.db.ExecContext(ctx,
		"DELETE FROM session_values WHERE updated_at < $1", time.Now().Add(-ps.ttl))
	if err != nil {
		return 0, fmt.Errorf("postgres: purge: %w", err)
	}
	return res.RowsAffected()
}

func (ps *PostgresStore) Session(id string) KV {
	return &postgresKV{store: ps, id: id}
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

type postgresKV struct {
	store *PostgresStore
	id    string
}

func (kv *postgresKV) Get(ctx context.Context, key string) (string, bool, error) {
	query := "SELECT value FROM session_values WHERE session_id = $1 AND key = $2"
	args := []any{kv.id, key}
	if kv.store.ttl > 0 {
		query += " AND updated_at >= $3"
		args = append(args, time.Now().Add(-kv.store.ttl))
	}

	var value string
	err := kv.store.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("postgres: get %s: %w", key, err)
	}
	return value, true, nil
}

func (kv *postgresKV) Set(ctx context.Context, key, value string) error {
	_, err := kv.store.db.ExecContext(ctx, `
		INSERT INTO session_values (session_id, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (session_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, kv.id, key, value)
	if err != nil {
		return fmt.Errorf("postgres: set %s: %w", key, err)
	}
	return nil
}
