package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"timecard/internal/api"
	"timecard/internal/domain"
	"timecard/internal/errors"
	"timecard/internal/timeutil"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// listFormat returns the configured list format
func (a *App) listFormat() (string, error) {
	switch format := a.config.Commands.ListDefaultFormat; format {
	case "", formatTable:
		return formatTable, nil
	case formatJSON:
		return formatJSON, nil
	default:
		return "", errors.NewInvalidInputError("format", format, "must be table or json")
	}
}

func (a *App) writeJSON(v any) error {
	encoder := json.NewEncoder(a.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// clock prints an instant as HH:MM in the configured zone
func (a *App) clock(t time.Time) string {
	return timeutil.FormatClock(t.In(a.location()))
}

// timestamp prints an instant with the configured display format
func (a *App) timestamp(t time.Time) string {
	return t.In(a.location()).Format(a.config.Time.DisplayFormat)
}

func (a *App) printEntries(entries []domain.TimeEntry, withUser bool) error {
	format, err := a.listFormat()
	if err != nil {
		return err
	}
	if format == formatJSON {
		if entries == nil {
			entries = []domain.TimeEntry{}
		}
		return a.writeJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No entries found.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	if withUser {
		fmt.Fprintln(w, "ID\tUSER\tDATE\tIN\tOUT\tHOURS\tSOURCE\tNOTES")
	} else {
		fmt.Fprintln(w, "ID\tDATE\tIN\tOUT\tHOURS\tSOURCE\tNOTES")
	}

	var total float64
	for _, e := range entries {
		out := "-"
		if e.ClockOut != nil {
			out = a.clock(*e.ClockOut)
		}
		source := "clock"
		if e.IsManual {
			source = "manual"
		}
		if e.UpdatedBy != "" {
			source += " (edited by " + e.UpdatedBy + ")"
		}
		if withUser {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\t%s\t%s\n",
				e.ID, e.UserID, e.Date, a.clock(e.ClockIn), out, e.TotalHours, source, e.Notes)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%s\t%s\n",
				e.ID, e.Date, a.clock(e.ClockIn), out, e.TotalHours, source, e.Notes)
		}
		total += e.TotalHours
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nTotal: %.2fh across %d entries\n", timeutil.RoundHours(total), len(entries))
	return nil
}

func (a *App) printActiveSessions(active []api.ActiveSession) error {
	format, err := a.listFormat()
	if err != nil {
		return err
	}
	if format == formatJSON {
		if active == nil {
			active = []api.ActiveSession{}
		}
		return a.writeJSON(active)
	}

	if len(active) == 0 {
		fmt.Fprintln(a.out, "Nobody is clocked in.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "USER\tSINCE\tELAPSED\tSESSION")
	for _, s := range active {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Session.UserID, a.timestamp(s.Session.StartTime), s.Elapsed, s.Session.ID)
	}
	return w.Flush()
}

func (a *App) describeEntry(e *domain.TimeEntry) string {
	out := "open"
	if e.ClockOut != nil {
		out = a.clock(*e.ClockOut)
	}
	return fmt.Sprintf("%s %s %s-%s (%.2fh)", e.ID, e.Date, a.clock(e.ClockIn), out, e.TotalHours)
}
