package api

import (
	"context"
	"time"

	"timecard/internal/domain"
	"timecard/internal/timeutil"
	"timecard/internal/validation"
)

// resolveEdit turns wall-clock edit fields into instants against the stored
// entry. Moving an entry to another date keeps its times of day unless new
// ones are given.
func (e *engineImpl) resolveEdit(ctx context.Context, entryID string, req EditRequest) (domain.EntryUpdate, error) {
	update := domain.EntryUpdate{Date: req.Date, Notes: req.Notes}
	if req.Date == nil && req.StartTime == nil && req.EndTime == nil {
		return update, nil
	}

	existing, err := e.services.EntryService.GetEntry(ctx, entryID)
	if err != nil {
		return update, err
	}
	return ResolveEdit(*existing, req, e.clock.Now().Location())
}

// ResolveEdit builds the EntryUpdate for req applied to existing, reading
// times of day in loc. A new start time lands on the clock-in's calendar day
// and a new end time on the clock-out's, so overnight entries stay intact.
// A new date shifts both days by the distance from the entry's date.
func ResolveEdit(existing domain.TimeEntry, req EditRequest, loc *time.Location) (domain.EntryUpdate, error) {
	update := domain.EntryUpdate{Date: req.Date, Notes: req.Notes}
	if req.Date == nil && req.StartTime == nil && req.EndTime == nil {
		return update, nil
	}

	validationError := validation.NewValidationError()
	shift := 0
	if req.Date != nil {
		days, err := timeutil.DaysBetween(existing.Date, *req.Date)
		if err != nil {
			validationError.AddInvalidFormatError("date", *req.Date, "YYYY-MM-DD")
			return update, validationError
		}
		shift = days
	}

	start := resolveClock(validationError, "start_time", req.StartTime, existing.ClockIn, shift, loc)
	var end *time.Time
	if req.EndTime != nil || existing.ClockOut != nil {
		anchor := existing.ClockIn
		if existing.ClockOut != nil {
			anchor = *existing.ClockOut
		}
		end = resolveClock(validationError, "end_time", req.EndTime, anchor, shift, loc)
	}
	if err := validationError.OrNil(); err != nil {
		return update, err
	}

	if req.Date != nil || req.StartTime != nil {
		update.ClockIn = start
	}
	if req.Date != nil || req.EndTime != nil {
		update.ClockOut = end
	}
	return update, nil
}

// resolveClock places value, or anchor's own time of day when value is nil,
// on anchor's calendar day moved by shift days.
func resolveClock(ve *validation.ValidationError, field string, value *string, anchor time.Time, shift int, loc *time.Location) *time.Time {
	local := anchor.In(loc)
	clock := timeutil.FormatClock(local)
	if value != nil {
		clock = *value
	}

	day := timeutil.FormatDate(local.AddDate(0, 0, shift))
	t, err := timeutil.CombineDateTime(day, clock, loc)
	if err != nil {
		ve.AddInvalidFormatError(field, clock, "HH:MM")
		return nil
	}
	return &t
}
