package cli

import (
	"context"
	"fmt"
	"os"

	"checklist/internal/checklist"
	"checklist/internal/config"
	"checklist/internal/logging"
	"checklist/internal/repository"
	"checklist/internal/validation"
)

// Bootstrap opens the task list described by cfg.
type Bootstrap func(ctx context.Context, cfg *config.Config) (*App, error)

// DefaultBootstrap wires the configured store, repository and controller and
// loads the stored list.
func DefaultBootstrap(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, logging.Options{
		Level:   cfg.Application.LogLevel,
		Format:  cfg.Application.LogFormat,
		Verbose: cfg.Application.Verbose,
		Prefix:  "checklist",
	})

	s, err := config.CreateStore(cfg)
	if err != nil {
		return nil, err
	}

	repo := repository.New(s,
		repository.WithKey(cfg.Storage.Key),
		repository.WithLogger(logger),
	)
	ctrl := checklist.New(repo,
		checklist.WithLogger(logger),
		checklist.WithIDGenerator(checklist.NewIDGenerator(cfg.Tasks.IDStrategy)),
		checklist.WithValidator(validation.NewTaskValidatorWithConfig(cfg)),
	)

	// A list that failed to load must not be saved over the stored one.
	if err := ctrl.Initialize(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	logger.Debug("task list opened", "driver", cfg.Storage.Driver, "key", cfg.Storage.Key)
	return NewApp(ctrl, cfg, WithAppLogger(logger), WithCloser(s.Close)), nil
}
