// Package postgres provides a persistent store backed by a PostgreSQL table.
package postgres

import (
	"context"
	"database/sql"

	"checklist/internal/errors"
	"checklist/internal/store"
	"checklist/internal/store/sqlkv"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_entries (
	name TEXT PRIMARY KEY,
	value BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

var dialect = sqlkv.Dialect{
	SelectQuery: `SELECT value FROM kv_entries WHERE name = $1`,
	UpsertQuery: `
	INSERT INTO kv_entries (name, value, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
}

// New connects to dsn, checks the connection and creates the table if needed.
func New(dsn string, opts store.Options) (*sqlkv.KV, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.NewPersistError("open database", err)
	}

	ctx, cancel := store.WithTimeout(context.Background(), opts.QueryTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewPersistError("connect", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.NewPersistError("create schema", err)
	}

	return sqlkv.New(db, dialect, opts), nil
}
