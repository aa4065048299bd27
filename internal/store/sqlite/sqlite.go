// Package sqlite provides the default persistent store, a key-value table in
// a local SQLite database file.
package sqlite

import (
	"database/sql"

	"checklist/internal/errors"
	"checklist/internal/store"
	"checklist/internal/store/sqlite/migrations"
	"checklist/internal/store/sqlkv"

	_ "modernc.org/sqlite"
)

var dialect = sqlkv.Dialect{
	SelectQuery: `SELECT value FROM kv_entries WHERE name = ?`,
	UpsertQuery: `
	INSERT INTO kv_entries (name, value, updated_at)
	VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
}

// New opens (creating if needed) the database at dbPath and runs migrations.
// ":memory:" gives a private in-memory database.
func New(dbPath string, opts store.Options) (*sqlkv.KV, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewPersistError("open database", err)
	}
	// one connection: SQLite serializes writers anyway, and an in-memory
	// database exists per connection
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewPersistError("run migrations", err)
	}

	return sqlkv.New(db, dialect, opts), nil
}
