package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checklist/internal/config"

	"github.com/spf13/cobra"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd       *cobra.Command
	config    *config.Config
	bootstrap Bootstrap
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(cfg *config.Config, bootstrap Bootstrap) *RootCommand {
	if bootstrap == nil {
		bootstrap = DefaultBootstrap
	}
	root := &RootCommand{
		config:    cfg,
		bootstrap: bootstrap,
	}

	root.cmd = &cobra.Command{
		Use:   "checklist",
		Short: "A personal checklist of day-tagged tasks",
		Long: `Checklist keeps a list of tasks, each tagged with a day of the month.

EXAMPLES:
  checklist add 15 Buy milk                # Add a task for the 15th
  checklist list                           # Show all tasks and overall progress
  checklist toggle <id>                    # Mark a task done, or not done again
  checklist rm <id>                        # Remove a task
  checklist progress --chart               # Completion percentage and chart URL
  checklist serve                          # Serve the JSON API

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > config file > defaults

  Config file: $CHECKLIST_CONFIG or ~/.checklist/config.toml

  Storage Configuration:
    CHECKLIST_STORAGE_DRIVER               sqlite, postgres or memory (default: sqlite)
    CHECKLIST_DB_DIR                       Database directory (default: ~/.checklist)
    CHECKLIST_DB_FILENAME                  Database filename (default: checklist.db)
    CHECKLIST_DB_DSN                       Postgres connection string
    CHECKLIST_STORAGE_KEY                  Key holding the task list (default: @tarefas)

  Task Configuration:
    CHECKLIST_ID_STRATEGY                  uuid or timestamp (default: uuid)
    CHECKLIST_TEXT_MAX_LENGTH              Maximum task text length, 0 for none

  Application Configuration:
    CHECKLIST_APP_TIMEOUT                  Command timeout (default: 60s)
    CHECKLIST_LOG_LEVEL                    debug, info, warn or error (default: info)
    CHECKLIST_DEBUG                        Any value enables debug logging`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Apply configuration overrides from flags before any command runs
			return root.getConfigFromFlags()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	// Storage configuration
	flags.String("driver", "", "Storage driver: sqlite, postgres or memory (overrides CHECKLIST_STORAGE_DRIVER)")
	flags.String("db-dir", "", "Database directory (overrides CHECKLIST_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides CHECKLIST_DB_FILENAME)")
	flags.String("dsn", "", "Postgres connection string (overrides CHECKLIST_DB_DSN)")
	flags.String("key", "", "Storage key holding the task list (overrides CHECKLIST_STORAGE_KEY)")

	// Task configuration
	flags.String("id-strategy", "", "Task id strategy: uuid or timestamp (overrides CHECKLIST_ID_STRATEGY)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Application timeout (overrides CHECKLIST_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides CHECKLIST_APP_VERBOSE)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	addCmd := &cobra.Command{
		Use:   "add <day> <text...>",
		Short: "Add a task for a day of the month",
		Long: `Add a task tagged with a day of the month (1-31).

Examples:
  checklist add 15 Buy milk
  checklist add 1 "Pay rent"`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, true, func(ctx context.Context, app *App) error {
				return NewAddCommand(app).Execute(ctx, args)
			})
		},
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks in the order they were added",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, true, func(ctx context.Context, app *App) error {
				return NewListCommand(app).Execute(ctx, args)
			})
		},
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task done, or not done again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, true, func(ctx context.Context, app *App) error {
				return NewToggleCommand(app).Execute(ctx, args)
			})
		},
	}

	removeCmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, true, func(ctx context.Context, app *App) error {
				return NewRemoveCommand(app).Execute(ctx, args)
			})
		},
	}

	progressCmd := &cobra.Command{
		Use:   "progress",
		Short: "Show the completion percentage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			showChart, _ := cmd.Flags().GetBool("chart")
			return r.run(cmd, true, func(ctx context.Context, app *App) error {
				return NewProgressCommand(app, showChart).Execute(ctx, args)
			})
		},
	}
	progressCmd.Flags().Bool("chart", false, "Also print the progress bar chart URL")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task list as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Serving runs until interrupted, not until the app timeout
			return r.run(cmd, false, func(ctx context.Context, app *App) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()
				return NewServeCommand(app).Execute(ctx, args)
			})
		},
	}
	serveCmd.Flags().String("addr", "", "Listen address (overrides CHECKLIST_SERVER_ADDR)")

	r.cmd.AddCommand(
		addCmd,
		listCmd,
		toggleCmd,
		removeCmd,
		progressCmd,
		serveCmd,
	)
}

// run opens the task list, runs fn and closes the list again.
func (r *RootCommand) run(cmd *cobra.Command, withTimeout bool, fn func(ctx context.Context, app *App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if withTimeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.getAppTimeout())
		defer cancel()
	}

	app, err := r.bootstrap(ctx, r.config)
	if err != nil {
		return err
	}
	defer app.Close()

	app.out = cmd.OutOrStdout()
	app.errOut = cmd.ErrOrStderr()
	return fn(ctx, app)
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// getConfigFromFlags updates the configuration with flags set on the command line
func (r *RootCommand) getConfigFromFlags() error {
	if r.config == nil {
		return fmt.Errorf("configuration not initialized")
	}

	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	if flags.Changed("driver") {
		v, _ := flags.GetString("driver")
		overrides.Driver = &v
	}
	if flags.Changed("db-dir") {
		v, _ := flags.GetString("db-dir")
		overrides.DBDir = &v
	}
	if flags.Changed("db-filename") {
		v, _ := flags.GetString("db-filename")
		overrides.DBFilename = &v
	}
	if flags.Changed("dsn") {
		v, _ := flags.GetString("dsn")
		overrides.DSN = &v
	}
	if flags.Changed("key") {
		v, _ := flags.GetString("key")
		overrides.Key = &v
	}
	if flags.Changed("id-strategy") {
		v, _ := flags.GetString("id-strategy")
		overrides.IDStrategy = &v
	}
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		overrides.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		overrides.Verbose = &v
	}
	if serve, _, err := r.cmd.Find([]string{"serve"}); err == nil && serve.Flags().Changed("addr") {
		v, _ := serve.Flags().GetString("addr")
		overrides.ServerAddr = &v
	}

	r.config.ApplyOverrides(overrides)
	return r.config.Validate()
}
