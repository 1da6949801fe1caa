package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"timecard/internal/api"
	"timecard/internal/config"
)

// EngineFactory builds the engine once flag overrides are applied. The
// returned cleanup runs after the command finishes.
type EngineFactory func(cfg *config.Config) (api.Engine, func() error, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	app     *App
	config  *config.Config
	factory EngineFactory
	cleanup func() error
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(cfg *config.Config, factory EngineFactory, out io.Writer) *RootCommand {
	root := &RootCommand{
		app:     NewApp(nil, cfg, out),
		config:  cfg,
		factory: factory,
	}

	root.cmd = &cobra.Command{
		Use:   "timecard",
		Short: "Staff time tracking from the command line",
		Long: `timecard records staff working time as clock-in/clock-out sessions and
manual entries, and reports weekly and monthly totals.

EXAMPLES:
  timecard clock-in                                # Start a work session
  timecard clock-out                               # Stop it and record the entry
  timecard status                                  # Show the running session
  timecard manual yesterday 09:00 17:30            # Record a forgotten shift
  timecard edit <id> start=08:45 notes="standup"   # Fix one of your entries
  timecard entries 2024-03-01 2024-03-31           # List entries in a range
  timecard stats                                   # Today, week and month totals
  timecard report 3 2024                           # Monthly report as JSON
  timecard --user admin admin-edit <id> end=17:00  # Correct someone's entry

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > .env file > config file > defaults

    TC_CONFIG                    TOML config file (default: ~/.timecard/config.toml)
    TC_USER                      Acting staff member (default: $USER)
    TC_DB_DRIVER                 sqlite or postgres (default: sqlite)
    TC_DB_DIR                    Database directory (default: ~/.timecard)
    TC_DB_DSN                    Database DSN, required for postgres
    TC_TIME_LOCATION             Zone calendar dates are computed in (default: Local)
    TC_TIME_DISPLAY_FORMAT       Go layout for timestamps (default: 2006-01-02 15:04)
    TC_LIST_DEFAULT_FORMAT       table or json (default: table)
    TC_LOG_LEVEL                 debug, info, warn or error (default: info)
    TC_APP_TIMEOUT               Per-command timeout (default: 60s)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := root.getConfigFromFlags(); err != nil {
				return err
			}
			return root.attachEngine()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return root.Close()
		},
	}
	root.cmd.SetOut(out)

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// SetArgs overrides the arguments the root command parses
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// Close releases the engine's resources
func (r *RootCommand) Close() error {
	if r.cleanup == nil {
		return nil
	}
	cleanup := r.cleanup
	r.cleanup = nil
	return cleanup()
}

func (r *RootCommand) attachEngine() error {
	if r.app.engine != nil {
		return nil
	}
	if r.factory == nil {
		return fmt.Errorf("no engine configured")
	}
	engine, cleanup, err := r.factory(r.config)
	if err != nil {
		return err
	}
	r.app.SetEngine(engine)
	r.cleanup = cleanup
	return nil
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.StringP("user", "u", "", "Staff member to act as (overrides TC_USER)")

	// Database configuration
	flags.String("db-driver", "", "Database driver, sqlite or postgres (overrides TC_DB_DRIVER)")
	flags.String("db-dir", "", "Database directory (overrides TC_DB_DIR)")
	flags.String("db-dsn", "", "Database DSN (overrides TC_DB_DSN)")

	// Time configuration
	flags.String("time-location", "", "Zone dates are computed in (overrides TC_TIME_LOCATION)")
	flags.String("time-format", "", "Go layout for timestamps (overrides TC_TIME_DISPLAY_FORMAT)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Application timeout (overrides TC_APP_TIMEOUT)")
	flags.BoolP("verbose", "v", false, "Enable debug logging (overrides TC_APP_VERBOSE)")
	flags.String("log-level", "", "Log level (overrides TC_LOG_LEVEL)")

	// Commands configuration
	flags.String("format", "", "List format, table or json (overrides TC_LIST_DEFAULT_FORMAT)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	clockInCmd := &cobra.Command{
		Use:   "clock-in",
		Short: "Start a work session",
		Long:  "Start a work session. A session left open earlier is closed first without being recorded.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(NewClockInCommand(r.app), args)
		},
	}

	clockOutCmd := &cobra.Command{
		Use:   "clock-out",
		Short: "Stop the running session and record it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(NewClockOutCommand(r.app), args)
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether you are clocked in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(NewStatusCommand(r.app), args)
		},
	}

	activeCmd := &cobra.Command{
		Use:   "active",
		Short: "List everyone currently clocked in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(NewActiveCommand(r.app), args)
		},
	}

	manualCmd := &cobra.Command{
		Use:   "manual <date> <start> <end>",
		Short: "Record a shift after the fact",
		Long: `Record a closed entry from a date and two HH:MM times.

The date may be YYYY-MM-DD or a phrase like "yesterday" or "3 days ago".

Examples:
  timecard manual 2024-03-04 09:00 17:30
  timecard manual yesterday 13:00 15:15 --notes "site visit"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := NewManualCommand(r.app)
			handler.Notes, _ = cmd.Flags().GetString("notes")
			return r.run(handler, args)
		},
	}
	manualCmd.Flags().String("notes", "", "Notes for the entry")

	editCmd := &cobra.Command{
		Use:   "edit <id> [date=YYYY-MM-DD] [start=HH:MM] [end=HH:MM] [notes=text]",
		Short: "Edit one of your entries",
		Long: `Edit one of your own entries. The new interval may not overlap your other
entries that day. An empty notes= clears the note.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(NewEditCommand(r.app, false), args)
		},
	}

	adminEditCmd := &cobra.Command{
		Use:   "admin-edit <id> [date=YYYY-MM-DD] [start=HH:MM] [end=HH:MM] [notes=text]",
		Short: "Correct any entry as an administrator",
		Long: `Correct any user's entry. The acting user (--user) is recorded as the
corrector. Overlaps are logged but not rejected.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(NewEditCommand(r.app, true), args)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Long:  "Delete one of your entries, or any entry with --admin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := NewDeleteCommand(r.app)
			handler.Admin, _ = cmd.Flags().GetBool("admin")
			return r.run(handler, args)
		},
	}
	deleteCmd.Flags().Bool("admin", false, "Delete as an administrator")

	entriesCmd := &cobra.Command{
		Use:   "entries [from] [to]",
		Short: "List time entries",
		Long: `List entries ordered by date and clock-in time. One date lists that day,
two dates an inclusive range, none everything.

Examples:
  timecard entries
  timecard entries yesterday
  timecard entries 2024-03-01 2024-03-31 --all`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := NewEntriesCommand(r.app)
			handler.All, _ = cmd.Flags().GetBool("all")
			return r.run(handler, args)
		},
	}
	entriesCmd.Flags().Bool("all", false, "List every user's entries")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show today, week and month totals as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(NewStatsCommand(r.app), args)
		},
	}

	reportCmd := &cobra.Command{
		Use:   "report <month> <year>",
		Short: "Build a monthly report as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := NewReportCommand(r.app)
			handler.Name, _ = cmd.Flags().GetString("name")
			return r.run(handler, args)
		},
	}
	reportCmd.Flags().String("name", "", "Display name on the report (default: the user id)")

	r.cmd.AddCommand(
		clockInCmd,
		clockOutCmd,
		statusCmd,
		activeCmd,
		manualCmd,
		editCmd,
		adminEditCmd,
		deleteCmd,
		entriesCmd,
		statsCmd,
		reportCmd,
	)
}

func (r *RootCommand) run(handler Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.getAppTimeout())
	defer cancel()
	return handler.Execute(ctx, args)
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// getConfigFromFlags updates the configuration with values from command-line flags
func (r *RootCommand) getConfigFromFlags() error {
	if r.config == nil {
		return fmt.Errorf("configuration not initialized")
	}

	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	if user, _ := flags.GetString("user"); user != "" {
		overrides.UserID = &user
	}
	if driver, _ := flags.GetString("db-driver"); driver != "" {
		overrides.DBDriver = &driver
	}
	if dir, _ := flags.GetString("db-dir"); dir != "" {
		overrides.DBDir = &dir
	}
	if dsn, _ := flags.GetString("db-dsn"); dsn != "" {
		overrides.DBDSN = &dsn
	}
	if loc, _ := flags.GetString("time-location"); loc != "" {
		overrides.TimeLocation = &loc
	}
	if layout, _ := flags.GetString("time-format"); layout != "" {
		overrides.TimeFormat = &layout
	}
	if timeout, _ := flags.GetDuration("app-timeout"); timeout > 0 {
		overrides.Timeout = &timeout
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		overrides.Verbose = &verbose
	}
	if level, _ := flags.GetString("log-level"); level != "" {
		overrides.LogLevel = &level
	}
	if format, _ := flags.GetString("format"); format != "" {
		overrides.ListDefaultFormat = &format
	}

	config.ApplyOverrides(r.config, overrides)
	return r.config.Validate()
}
