package cli

import (
	"context"

	"checklist/internal/server"
)

// ServeCommand handles the serve command
type ServeCommand struct {
	app *App
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(app *App) *ServeCommand {
	return &ServeCommand{app: app}
}

// Execute serves the HTTP API until ctx is cancelled
func (c *ServeCommand) Execute(ctx context.Context, args []string) error {
	srv := server.New(c.app.tasks, c.app.config, c.app.logger)
	if err := srv.ListenAndServe(ctx); err != nil {
		return c.app.errors.Handle("serve", err)
	}

	// ctx is done by now; pending changes get a fresh deadline.
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.app.config.Application.Timeout)
	defer cancel()
	return c.app.ensureSaved(flushCtx)
}
