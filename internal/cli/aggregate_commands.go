package cli

import (
	"context"
	"strconv"

	"timecard/internal/errors"
)

// StatsCommand prints the rolling totals as JSON
type StatsCommand struct {
	app *App
}

// NewStatsCommand creates a new stats command handler
func NewStatsCommand(app *App) *StatsCommand {
	return &StatsCommand{app: app}
}

// Execute runs the stats command
func (c *StatsCommand) Execute(ctx context.Context, args []string) error {
	userID, err := c.app.userID()
	if err != nil {
		return c.app.errors.Handle("get stats", err)
	}

	stats, err := c.app.engine.GetStats(ctx, userID)
	if err != nil {
		return c.app.errors.Handle("get stats", err)
	}
	return c.app.writeJSON(stats)
}

// ReportCommand prints one month's report as JSON
type ReportCommand struct {
	app  *App
	Name string
}

// NewReportCommand creates a new report command handler
func NewReportCommand(app *App) *ReportCommand {
	return &ReportCommand{app: app}
}

// Execute runs the report command: <month> <year>. The month is 1-12 or
// "01"-"12".
func (c *ReportCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return c.app.errors.Handle("build report", errors.NewInvalidInputError("args", args, "expected <month> <year>"))
	}
	year, err := strconv.Atoi(args[1])
	if err != nil {
		return c.app.errors.Handle("build report", errors.NewInvalidInputError("year", args[1], "year must be a number"))
	}
	userID, err := c.app.userID()
	if err != nil {
		return c.app.errors.Handle("build report", err)
	}

	name := c.Name
	if name == "" {
		name = userID
	}
	report, err := c.app.engine.GetMonthlyReport(ctx, userID, name, args[0], year)
	if err != nil {
		return c.app.errors.Handle("build report", err)
	}
	return c.app.writeJSON(report)
}
