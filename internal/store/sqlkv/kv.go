// Package sqlkv implements store.Store on top of database/sql. Drivers
// supply the dialect-specific statements.
package sqlkv

import (
	"context"
	"database/sql"

	"checklist/internal/store"
)

// Dialect holds the statements for one SQL driver. SelectQuery takes the key
// and returns the value column; UpsertQuery takes key then value.
type Dialect struct {
	SelectQuery string
	UpsertQuery string
}

// KV is a single-table key-value store
type KV struct {
	db      *sql.DB
	dialect Dialect
	opts    store.Options
}

var _ store.Store = (*KV)(nil)

// New wraps an open, migrated database
func New(db *sql.DB, dialect Dialect, opts store.Options) *KV {
	return &KV{db: db, dialect: dialect, opts: opts}
}

// Load implements store.Store
func (k *KV) Load(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := store.WithTimeout(ctx, k.opts.QueryTimeout)
	defer cancel()

	return QueryValue(ctx, k.db, k.dialect.SelectQuery, key)
}

// Save implements store.Store. The upsert is a single statement in its own
// transaction, so readers see either the old or the new value.
func (k *KV) Save(ctx context.Context, key string, value []byte) error {
	ctx, cancel := store.WithTimeout(ctx, k.opts.WriteTimeout)
	defer cancel()

	if value == nil {
		value = []byte{}
	}
	return ExecuteInTx(ctx, k.db, k.dialect.UpsertQuery, key, value)
}

// Close closes the database connection
func (k *KV) Close() error {
	return k.db.Close()
}
