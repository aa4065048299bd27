package cli

import (
	"context"
	"fmt"

	"checklist/internal/domain"
	"checklist/internal/errors"
)

// RemoveCommand handles the rm command
type RemoveCommand struct {
	app *App
}

// NewRemoveCommand creates a new remove command handler
func NewRemoveCommand(app *App) *RemoveCommand {
	return &RemoveCommand{app: app}
}

// Execute removes the task whose id is args[0]
func (c *RemoveCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return c.app.errors.HandleSimple(errInvalidID())
	}
	id := args[0]

	var text string
	tasks := c.app.tasks.List()
	if i := domain.IndexOf(tasks, id); i >= 0 {
		text = tasks[i].Text
	}

	if err := c.app.tasks.Remove(ctx, id); err != nil {
		if c.app.errors.IsNotFoundError(err) {
			fmt.Fprintf(c.app.out, "No task with id %s\n", id)
			return nil
		}
		return c.app.errors.Handle("remove task", err)
	}

	fmt.Fprintf(c.app.out, "Removed: %s\n", text)
	return c.app.ensureSaved(ctx)
}

func errInvalidID() error {
	return errors.NewInvalidInputError("id", "expected exactly one task id")
}
