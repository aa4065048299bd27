// Package repository translates the task list to and from its stored JSON
// form under a single key of a store.Store.
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"checklist/internal/domain"
	"checklist/internal/errors"
	"checklist/internal/logging"
	"checklist/internal/store"
	"checklist/internal/validation"

	"github.com/charmbracelet/log"
)

// DefaultKey is the key the mobile app stored its task list under.
const DefaultKey = "@tarefas"

// TaskRepository loads and saves the whole task list under one key
type TaskRepository struct {
	store  store.Store
	key    string
	mapper *TaskMapper
	logger *log.Logger
}

// Option configures a TaskRepository
type Option func(*TaskRepository)

// WithKey overrides the storage key
func WithKey(key string) Option {
	return func(r *TaskRepository) {
		if key != "" {
			r.key = key
		}
	}
}

// WithLogger sets the logger used for load warnings
func WithLogger(logger *log.Logger) Option {
	return func(r *TaskRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a TaskRepository on top of s
func New(s store.Store, opts ...Option) *TaskRepository {
	r := &TaskRepository{
		store:  s,
		key:    DefaultKey,
		mapper: NewTaskMapper(),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key returns the storage key this repository owns
func (r *TaskRepository) Key() string {
	return r.key
}

// Load reads the task list. An absent or empty value is an empty list.
// Undecodable data is a CorruptDataError; store failures are PersistErrors.
func (r *TaskRepository) Load(ctx context.Context) ([]domain.Task, error) {
	data, found, err := r.store.Load(ctx, r.key)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypePersist) {
			return nil, err
		}
		return nil, errors.NewPersistError("load tasks", err)
	}
	if !found || len(bytes.TrimSpace(data)) == 0 {
		return []domain.Task{}, nil
	}

	tasks, err := r.decode(data)
	if err != nil {
		return nil, errors.NewCorruptDataError(r.key, err)
	}

	r.warnOnInvalidTasks(tasks)
	return tasks, nil
}

// Save serializes the full list and overwrites the stored value
func (r *TaskRepository) Save(ctx context.Context, tasks []domain.Task) error {
	data, err := r.encode(tasks)
	if err != nil {
		return errors.NewPersistError("encode tasks", err)
	}

	if err := r.store.Save(ctx, r.key, data); err != nil {
		if errors.IsErrorType(err, errors.ErrorTypePersist) {
			return err
		}
		return errors.NewPersistError("save tasks", err)
	}
	return nil
}

func (r *TaskRepository) encode(tasks []domain.Task) ([]byte, error) {
	records := r.mapper.ToRecords(tasks)
	return json.Marshal(records)
}

func (r *TaskRepository) decode(data []byte) ([]domain.Task, error) {
	var document interface{}
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := taskListSchema.Validate(document); err != nil {
		return nil, fmt.Errorf("schema: %w", schemaError(err))
	}

	var records []taskRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	seen := make(map[string]struct{}, len(records))
	for i, record := range records {
		if _, dup := seen[record.ID]; dup {
			return nil, fmt.Errorf("duplicate id %q at index %d", record.ID, i)
		}
		seen[record.ID] = struct{}{}
	}

	return r.mapper.FromRecords(records), nil
}

// warnOnInvalidTasks reports entries that would not pass input validation.
// Such entries stay in the list.
func (r *TaskRepository) warnOnInvalidTasks(tasks []domain.Task) {
	v := validation.NewValidator()
	for _, task := range tasks {
		if !v.IsNonEmptyString(task.Text) || !v.IsInRange(task.Day, validation.MinDay, validation.MaxDay) {
			r.logger.Warn("stored task violates input rules", "key", r.key, "id", task.ID, "day", task.Day)
		}
	}
}
