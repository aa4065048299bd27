// Package checklist owns the in-memory task list and keeps it persisted.
package checklist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"checklist/internal/domain"
	apperrors "checklist/internal/errors"
	"checklist/internal/logging"
	"checklist/internal/progress"
	"checklist/internal/validation"

	"github.com/charmbracelet/log"
)

// maxIDAttempts bounds re-draws when a generated id collides with a present one.
const maxIDAttempts = 8

// Repository loads and saves the whole task list.
type Repository interface {
	Load(ctx context.Context) ([]domain.Task, error)
	Save(ctx context.Context, tasks []domain.Task) error
}

// Controller holds the task list in memory and writes the full list through
// the repository after every mutation.
type Controller struct {
	repo      Repository
	ids       IDGenerator
	validator *validation.TaskValidator
	logger    *log.Logger
	now       func() time.Time

	mu        sync.RWMutex
	tasks     []domain.Task
	dirty     bool
	lastSaved time.Time

	// saveMu serializes saves; each save snapshots the list while holding it.
	saveMu sync.Mutex
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIDGenerator sets the id generator.
func WithIDGenerator(ids IDGenerator) Option {
	return func(c *Controller) {
		if ids != nil {
			c.ids = ids
		}
	}
}

// WithValidator sets the input validator.
func WithValidator(v *validation.TaskValidator) Option {
	return func(c *Controller) {
		if v != nil {
			c.validator = v
		}
	}
}

// New creates a controller with an empty list. Call Initialize to load.
func New(repo Repository, opts ...Option) *Controller {
	c := &Controller{
		repo:      repo,
		ids:       UUIDGenerator{},
		validator: validation.NewTaskValidator(),
		logger:    logging.Discard(),
		now:       time.Now,
		tasks:     []domain.Task{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize replaces the in-memory list with the stored one. Corrupt stored
// data is logged and yields an empty list; storage failures are returned.
func (c *Controller) Initialize(ctx context.Context) error {
	tasks, err := c.repo.Load(ctx)
	if err != nil {
		c.mu.Lock()
		c.tasks = []domain.Task{}
		c.mu.Unlock()

		if apperrors.IsErrorType(err, apperrors.ErrorTypeCorruptData) {
			c.logger.Warn("discarding unreadable task list", "err", err)
			return nil
		}
		c.logger.Error("failed to load task list", "err", err)
		return err
	}

	c.mu.Lock()
	c.tasks = domain.CloneTasks(tasks)
	c.dirty = false
	c.mu.Unlock()

	if obs, ok := c.ids.(idObserver); ok {
		for _, t := range tasks {
			obs.Observe(t.ID)
		}
	}

	c.logger.Debug("task list loaded", "count", len(tasks))
	return nil
}

// Add validates the raw input and appends a new incomplete task.
func (c *Controller) Add(ctx context.Context, text, dayRaw string) (domain.Task, error) {
	cleanText, day, err := c.validator.ValidateNewTask(text, dayRaw)
	if err != nil {
		return domain.Task{}, apperrors.NewValidationError("invalid task", err)
	}

	c.mu.Lock()
	id, err := c.freshID()
	if err != nil {
		c.mu.Unlock()
		return domain.Task{}, fmt.Errorf("generate task id: %w", err)
	}
	task := domain.NewTask(id, cleanText, day)
	c.tasks = append(c.tasks, task)
	c.mu.Unlock()

	c.logger.Debug("task added", "id", task.ID, "day", task.Day)
	c.persist(ctx)
	return task, nil
}

// freshID draws ids until one is not present. Caller holds mu.
func (c *Controller) freshID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id, err := c.ids.NewID()
		if err != nil {
			return "", err
		}
		if id != "" && domain.IndexOf(c.tasks, id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("no unique id after %d attempts", maxIDAttempts)
}

// Toggle flips the completion flag of the task with the given id.
func (c *Controller) Toggle(ctx context.Context, id string) error {
	c.mu.Lock()
	i := domain.IndexOf(c.tasks, id)
	if i < 0 {
		c.mu.Unlock()
		c.logger.Debug("toggle of unknown task", "id", id)
		return apperrors.NewNotFoundError("task", id)
	}
	c.tasks[i] = c.tasks[i].Toggled()
	completed := c.tasks[i].Completed
	c.mu.Unlock()

	c.logger.Debug("task toggled", "id", id, "completed", completed)
	c.persist(ctx)
	return nil
}

// Remove deletes the task with the given id, keeping the order of the rest.
func (c *Controller) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	i := domain.IndexOf(c.tasks, id)
	if i < 0 {
		c.mu.Unlock()
		c.logger.Debug("remove of unknown task", "id", id)
		return apperrors.NewNotFoundError("task", id)
	}
	c.tasks = append(c.tasks[:i:i], c.tasks[i+1:]...)
	c.mu.Unlock()

	c.logger.Debug("task removed", "id", id)
	c.persist(ctx)
	return nil
}

// List returns a copy of the tasks in insertion order.
func (c *Controller) List() []domain.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.CloneTasks(c.tasks)
}

// Progress returns the completion percentage of the current list.
func (c *Controller) Progress() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return progress.CompletionPercentage(c.tasks)
}

// Dirty reports whether the last save failed.
func (c *Controller) Dirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

// LastSaved returns when the list was last written, or the zero time.
func (c *Controller) LastSaved() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSaved
}

// Flush saves the current list and returns the storage error, if any.
func (c *Controller) Flush(ctx context.Context) error {
	return c.save(ctx)
}

// persist saves after a mutation. Failures are logged and leave the
// controller dirty until a later save succeeds.
func (c *Controller) persist(ctx context.Context) {
	if err := c.save(ctx); err != nil {
		c.logger.Error("failed to save task list", "err", err)
	}
}

func (c *Controller) save(ctx context.Context) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	snapshot := c.List()
	err := c.repo.Save(ctx, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.dirty = true
		if !apperrors.IsAppError(err) {
			err = apperrors.NewPersistError("save task list", err)
		}
		return err
	}
	c.dirty = false
	c.lastSaved = c.now()
	return nil
}
