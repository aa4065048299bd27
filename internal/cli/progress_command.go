package cli

import (
	"context"
	"fmt"

	"checklist/internal/progress"
)

// ProgressCommand handles the progress command
type ProgressCommand struct {
	app       *App
	showChart bool
}

// NewProgressCommand creates a new progress command handler
func NewProgressCommand(app *App, showChart bool) *ProgressCommand {
	return &ProgressCommand{app: app, showChart: showChart}
}

// Execute prints the completion percentage and, optionally, the chart URL
func (c *ProgressCommand) Execute(ctx context.Context, args []string) error {
	tasks := c.app.tasks.List()
	p := progress.CompletionPercentage(tasks)
	completed, total := progress.Counts(tasks)

	fmt.Fprintf(c.app.out, "%s%% (%d of %d done)\n", progress.Format(p), completed, total)

	if c.showChart {
		fmt.Fprintln(c.app.out, progress.ChartURL(chartOptions(c.app), p))
	}
	return nil
}

func chartOptions(app *App) progress.ChartOptions {
	return progress.ChartOptions{
		BaseURL: app.config.Chart.BaseURL,
		Width:   app.config.Chart.Width,
		Height:  app.config.Chart.Height,
		Colors:  app.config.Chart.Colors,
	}
}
