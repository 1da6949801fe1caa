package cli

import (
	"context"
	"fmt"

	"timecard/internal/errors"
)

// ClockInCommand starts a work session
type ClockInCommand struct {
	app *App
}

// NewClockInCommand creates a new clock-in command handler
func NewClockInCommand(app *App) *ClockInCommand {
	return &ClockInCommand{app: app}
}

// Execute runs the clock-in command
func (c *ClockInCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return c.app.errors.Handle("clock in", errors.NewInvalidInputError("args", args, "clock-in takes no arguments"))
	}
	userID, err := c.app.userID()
	if err != nil {
		return c.app.errors.Handle("clock in", err)
	}

	session, err := c.app.engine.ClockIn(ctx, userID)
	if err != nil {
		return c.app.errors.Handle("clock in", err)
	}

	fmt.Fprintf(c.app.out, "Clocked in %s at %s (session %s)\n", userID, c.app.clock(session.StartTime), session.ID)
	return nil
}

// ClockOutCommand stops the running session and records it
type ClockOutCommand struct {
	app *App
}

// NewClockOutCommand creates a new clock-out command handler
func NewClockOutCommand(app *App) *ClockOutCommand {
	return &ClockOutCommand{app: app}
}

// Execute runs the clock-out command
func (c *ClockOutCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return c.app.errors.Handle("clock out", errors.NewInvalidInputError("args", args, "clock-out takes no arguments"))
	}
	userID, err := c.app.userID()
	if err != nil {
		return c.app.errors.Handle("clock out", err)
	}

	entry, err := c.app.engine.ClockOut(ctx, userID)
	if err != nil {
		return c.app.errors.Handle("clock out", err)
	}

	fmt.Fprintf(c.app.out, "Clocked out %s: %.2fh recorded on %s (entry %s)\n", userID, entry.TotalHours, entry.Date, entry.ID)
	return nil
}

// StatusCommand shows whether the user is clocked in
type StatusCommand struct {
	app *App
}

// NewStatusCommand creates a new status command handler
func NewStatusCommand(app *App) *StatusCommand {
	return &StatusCommand{app: app}
}

// Execute runs the status command
func (c *StatusCommand) Execute(ctx context.Context, args []string) error {
	userID, err := c.app.userID()
	if err != nil {
		return c.app.errors.Handle("get status", err)
	}

	status, err := c.app.engine.GetStatus(ctx, userID)
	if err != nil {
		return c.app.errors.Handle("get status", err)
	}

	if !status.Active {
		fmt.Fprintf(c.app.out, "%s is not clocked in\n", userID)
		return nil
	}
	fmt.Fprintf(c.app.out, "%s clocked in since %s (%s)\n", userID, c.app.clock(status.Session.StartTime), status.Elapsed)
	return nil
}

// ActiveCommand lists everyone currently clocked in
type ActiveCommand struct {
	app *App
}

// NewActiveCommand creates a new active command handler
func NewActiveCommand(app *App) *ActiveCommand {
	return &ActiveCommand{app: app}
}

// Execute runs the active command
func (c *ActiveCommand) Execute(ctx context.Context, args []string) error {
	active, err := c.app.engine.ListActiveSessions(ctx)
	if err != nil {
		return c.app.errors.Handle("list active sessions", err)
	}
	if err := c.app.printActiveSessions(active); err != nil {
		return c.app.errors.Handle("list active sessions", err)
	}
	return nil
}
