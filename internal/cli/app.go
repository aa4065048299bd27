package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"checklist/internal/config"
	"checklist/internal/domain"
	"checklist/internal/logging"

	"github.com/charmbracelet/log"
)

// TaskService is the task list the commands operate on.
type TaskService interface {
	Add(ctx context.Context, text, dayRaw string) (domain.Task, error)
	Toggle(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	List() []domain.Task
	Progress() float64
	Dirty() bool
	Flush(ctx context.Context) error
	LastSaved() time.Time
}

// App represents the main CLI application
type App struct {
	tasks  TaskService
	config *config.Config
	logger *log.Logger
	out    io.Writer
	errOut io.Writer
	errors *ErrorHandler
	closer func() error
}

// AppOption configures an App
type AppOption func(*App)

// WithOutput sets where command output and warnings are written
func WithOutput(out, errOut io.Writer) AppOption {
	return func(a *App) {
		if out != nil {
			a.out = out
		}
		if errOut != nil {
			a.errOut = errOut
		}
	}
}

// WithAppLogger sets the application logger
func WithAppLogger(logger *log.Logger) AppOption {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithCloser registers a function run by Close, typically closing the store
func WithCloser(fn func() error) AppOption {
	return func(a *App) {
		a.closer = fn
	}
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(tasks TaskService, cfg *config.Config, opts ...AppOption) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	app := &App{
		tasks:  tasks,
		config: cfg,
		logger: logging.Discard(),
		out:    os.Stdout,
		errOut: os.Stderr,
		errors: NewErrorHandler(),
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Close releases the resources behind the task list
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer()
}

// ensureSaved retries a failed save once. The process exits after the
// command, so a second failure is reported instead of deferred.
func (a *App) ensureSaved(ctx context.Context) error {
	if !a.tasks.Dirty() {
		return nil
	}
	if err := a.tasks.Flush(ctx); err != nil {
		a.logger.Error("flush failed", "err", err)
		return fmt.Errorf("changes not saved: %w", err)
	}
	return nil
}
