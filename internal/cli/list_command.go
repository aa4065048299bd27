package cli

import (
	"context"
	"fmt"

	"checklist/internal/domain"
	"checklist/internal/progress"

	"github.com/dustin/go-humanize"
)

// ListCommand handles the list command
type ListCommand struct {
	app *App
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Execute runs the list command
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	return c.printTasks(c.app.tasks.List())
}

// printTasks prints one line per task in insertion order:
// position. [x] text (day 15th)  id
func (c *ListCommand) printTasks(tasks []domain.Task) error {
	if len(tasks) == 0 {
		fmt.Fprintln(c.app.out, "No tasks added yet!")
		return nil
	}

	for i, task := range tasks {
		fmt.Fprintf(c.app.out, "%d. %s %s (day %s)  %s\n",
			i+1, checkbox(task.Completed), task.Text, humanize.Ordinal(task.Day), task.ID)
	}

	completed, total := progress.Counts(tasks)
	fmt.Fprintf(c.app.out, "\n%d of %d done (%s%%)\n",
		completed, total, progress.Format(progress.CompletionPercentage(tasks)))
	return nil
}

func checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}
