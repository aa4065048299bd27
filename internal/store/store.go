// Package store defines the durable key-value storage the task repository
// writes through, plus an in-memory implementation.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Store is a durable key-value byte store. Values are opaque to it.
//
// Save must replace the value atomically: a Load never observes a
// partially written value.
type Store interface {
	// Load returns the value for key; found is false when the key is absent.
	Load(ctx context.Context, key string) (value []byte, found bool, err error)
	// Save overwrites the value for key.
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}

// Options bound the time spent in a single store call. Zero means no bound
// beyond the caller's context.
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
}

// WithTimeout derives a context bounded by d when d is positive.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
