package cli

import (
	"context"
	"fmt"

	"checklist/internal/domain"
)

// ToggleCommand handles the toggle command
type ToggleCommand struct {
	app *App
}

// NewToggleCommand creates a new toggle command handler
func NewToggleCommand(app *App) *ToggleCommand {
	return &ToggleCommand{app: app}
}

// Execute flips the completion flag of the task whose id is args[0]
func (c *ToggleCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return c.app.errors.HandleSimple(errInvalidID())
	}
	id := args[0]

	if err := c.app.tasks.Toggle(ctx, id); err != nil {
		if c.app.errors.IsNotFoundError(err) {
			fmt.Fprintf(c.app.out, "No task with id %s\n", id)
			return nil
		}
		return c.app.errors.Handle("toggle task", err)
	}

	tasks := c.app.tasks.List()
	if i := domain.IndexOf(tasks, id); i >= 0 {
		status := "Reopened"
		if tasks[i].Completed {
			status = "Completed"
		}
		fmt.Fprintf(c.app.out, "%s: %s\n", status, tasks[i].Text)
	}
	return c.app.ensureSaved(ctx)
}
