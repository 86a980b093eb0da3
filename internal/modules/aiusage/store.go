// README: Postgres usage ledger (one row per provider attempt).
package aiusage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store appends usage rows to generation_usage.
type Store struct {
	db *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the generation_usage table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// Record inserts all records in one batch.
func (s *Store) Record(ctx context.Context, records []Usage) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, u := range records {
		batch.Queue(`
			INSERT INTO generation_usage (request_id, workflow, model, provider, success, error, latency_ms, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, u.RequestID, u.Workflow, u.Model, u.Provider, u.Success, u.Error, u.Latency.Milliseconds(), u.At)
	}
	return s.db.SendBatch(ctx, batch).Close()
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS generation_usage (
	id BIGSERIAL PRIMARY KEY,
	request_id TEXT NOT NULL,
	workflow TEXT NOT NULL,
	model TEXT NOT NULL,
	provider TEXT NOT NULL,
	success BOOLEAN NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	latency_ms BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
