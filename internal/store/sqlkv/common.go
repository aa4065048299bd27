package sqlkv

import (
	"context"
	"database/sql"
	"errors"

	apperrors "checklist/internal/errors"
)

// HandleDatabaseError converts database errors to structured app errors
func HandleDatabaseError(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewPersistError(operation, apperrors.NewTimeoutError(operation, err))
	}
	return apperrors.NewPersistError(operation, err)
}

// QueryValue reads a single BLOB column. found is false on sql.ErrNoRows.
func QueryValue(ctx context.Context, db *sql.DB, query string, args ...interface{}) ([]byte, bool, error) {
	var value []byte
	err := db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, HandleDatabaseError("read value", err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, true, nil
}

// ExecuteInTx runs a statement inside its own transaction
func ExecuteInTx(ctx context.Context, db *sql.DB, query string, args ...interface{}) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin transaction", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		tx.Rollback()
		return HandleDatabaseError("write value", err)
	}

	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit transaction", err)
	}
	return nil
}
