package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// AddCommand handles the add command
type AddCommand struct {
	app *App
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{app: app}
}

// Execute runs the add command. The first argument is the day, the rest is the text.
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	var day, text string
	if len(args) > 0 {
		day = args[0]
		text = strings.Join(args[1:], " ")
	}

	task, err := c.app.tasks.Add(ctx, text, day)
	if err != nil {
		return c.app.errors.Handle("add task", err)
	}

	fmt.Fprintf(c.app.out, "Added: %s (day %s)\n", task.Text, humanize.Ordinal(task.Day))
	fmt.Fprintf(c.app.out, "  id: %s\n", task.ID)
	return c.app.ensureSaved(ctx)
}
