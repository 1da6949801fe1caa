package cli

import (
	"context"
	"fmt"

	"timecard/internal/api"
	"timecard/internal/domain"
	"timecard/internal/errors"
)

// ManualCommand records a forgotten shift from a date and two times of day
type ManualCommand struct {
	app   *App
	Notes string
}

// NewManualCommand creates a new manual entry command handler
func NewManualCommand(app *App) *ManualCommand {
	return &ManualCommand{app: app}
}

// Execute runs the manual command: <date> <start HH:MM> <end HH:MM>
func (c *ManualCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return c.app.errors.Handle("record manual entry",
			errors.NewInvalidInputError("args", args, "expected <date> <start> <end>"))
	}
	userID, err := c.app.userID()
	if err != nil {
		return c.app.errors.Handle("record manual entry", err)
	}
	date, err := resolveDate(args[0], c.app.now())
	if err != nil {
		return c.app.errors.Handle("record manual entry", err)
	}

	entry, err := c.app.engine.CreateManualEntry(ctx, api.ManualEntryRequest{
		UserID:    userID,
		Date:      date,
		StartTime: args[1],
		EndTime:   args[2],
		Notes:     c.Notes,
	})
	if err != nil {
		return c.app.errors.Handle("record manual entry", err)
	}

	fmt.Fprintf(c.app.out, "Recorded manual entry %s\n", c.app.describeEntry(entry))
	return nil
}

// EditCommand changes an entry's date, times or notes. In admin mode the
// acting user is recorded as the corrector and ownership is not required.
type EditCommand struct {
	app   *App
	admin bool
}

// NewEditCommand creates a new edit command handler
func NewEditCommand(app *App, admin bool) *EditCommand {
	return &EditCommand{app: app, admin: admin}
}

// Execute runs the edit command: <id> [date=..] [start=HH:MM] [end=HH:MM] [notes=..]
func (c *EditCommand) Execute(ctx context.Context, args []string) error {
	operation := "edit entry"
	if c.admin {
		operation = "correct entry"
	}
	if len(args) < 2 {
		return c.app.errors.Handle(operation,
			errors.NewInvalidInputError("args", args, "expected <id> and at least one of date=, start=, end=, notes="))
	}

	userID, err := c.app.userID()
	if err != nil {
		return c.app.errors.Handle(operation, err)
	}
	req, err := c.parseEdit(args[1:])
	if err != nil {
		return c.app.errors.Handle(operation, err)
	}

	var entry *domain.TimeEntry
	if c.admin {
		entry, err = c.app.engine.AdminEditEntry(ctx, args[0], req, userID)
	} else {
		entry, err = c.app.engine.EditEntry(ctx, userID, args[0], req)
	}
	if err != nil {
		return c.app.errors.Handle(operation, err)
	}

	fmt.Fprintf(c.app.out, "Updated entry %s\n", c.app.describeEntry(entry))
	return nil
}

func (c *EditCommand) parseEdit(args []string) (api.EditRequest, error) {
	values, err := parseKeyValues(args, "date", "start", "end", "notes")
	if err != nil {
		return api.EditRequest{}, err
	}

	var req api.EditRequest
	if v, ok := values["date"]; ok {
		date, err := resolveDate(v, c.app.now())
		if err != nil {
			return req, err
		}
		req.Date = &date
	}
	if v, ok := values["start"]; ok {
		req.StartTime = &v
	}
	if v, ok := values["end"]; ok {
		req.EndTime = &v
	}
	if v, ok := values["notes"]; ok {
		req.Notes = &v
	}
	return req, nil
}

// DeleteCommand removes an entry
type DeleteCommand struct {
	app   *App
	Admin bool
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app}
}

// Execute runs the delete command: <id>
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return c.app.errors.Handle("delete entry", errors.NewInvalidInputError("args", args, "expected <id>"))
	}
	userID, err := c.app.userID()
	if err != nil {
		return c.app.errors.Handle("delete entry", err)
	}

	if c.Admin {
		err = c.app.engine.AdminDeleteEntry(ctx, args[0], userID)
	} else {
		err = c.app.engine.DeleteEntry(ctx, userID, args[0])
	}
	if err != nil {
		return c.app.errors.Handle("delete entry", err)
	}

	fmt.Fprintf(c.app.out, "Deleted entry %s\n", args[0])
	return nil
}

// EntriesCommand lists entries for a day or an inclusive date range
type EntriesCommand struct {
	app *App
	All bool
}

// NewEntriesCommand creates a new entries command handler
func NewEntriesCommand(app *App) *EntriesCommand {
	return &EntriesCommand{app: app}
}

// Execute runs the entries command: [from] [to]. A single date lists that
// day; no dates lists everything.
func (c *EntriesCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 2 {
		return c.app.errors.Handle("list entries", errors.NewInvalidInputError("args", args, "expected [from] [to]"))
	}

	dates := make([]string, len(args))
	for i, arg := range args {
		date, err := resolveDate(arg, c.app.now())
		if err != nil {
			return c.app.errors.Handle("list entries", err)
		}
		dates[i] = date
	}
	var from, to string
	switch len(dates) {
	case 1:
		from, to = dates[0], dates[0]
	case 2:
		from, to = dates[0], dates[1]
	}

	entries, err := c.list(ctx, from, to, len(dates) == 1)
	if err != nil {
		return c.app.errors.Handle("list entries", err)
	}
	if err := c.app.printEntries(entries, c.All); err != nil {
		return c.app.errors.Handle("list entries", err)
	}
	return nil
}

func (c *EntriesCommand) list(ctx context.Context, from, to string, singleDay bool) ([]domain.TimeEntry, error) {
	if c.All {
		return c.app.engine.ListAllEntries(ctx, from, to)
	}
	userID, err := c.app.userID()
	if err != nil {
		return nil, err
	}
	if singleDay {
		return c.app.engine.ListEntriesForDate(ctx, userID, from)
	}
	return c.app.engine.ListEntries(ctx, userID, from, to)
}
