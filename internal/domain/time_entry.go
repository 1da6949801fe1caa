package domain

import (
	"time"

	"timecard/internal/timeutil"
)

// TimeEntry represents a completed (or still-open) work interval in the domain model.
// This is a pure domain model without database-specific concerns.
type TimeEntry struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Date       string     `json:"date"`
	ClockIn    time.Time  `json:"clockIn"`
	ClockOut   *time.Time `json:"clockOut,omitempty"`
	TotalHours float64    `json:"totalHours"`
	IsManual   bool       `json:"isManual"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	UpdatedBy  string     `json:"updatedBy,omitempty"`
}

// NewTimeEntry creates a closed entry for [clockIn, clockOut). The date is
// taken from clockIn's own location.
func NewTimeEntry(userID string, clockIn, clockOut time.Time, isManual bool) TimeEntry {
	return TimeEntry{
		UserID:     userID,
		Date:       timeutil.FormatDate(clockIn),
		ClockIn:    clockIn,
		ClockOut:   &clockOut,
		TotalHours: timeutil.HoursBetween(clockIn, clockOut),
		IsManual:   isManual,
	}
}

// IsOpen returns true if the entry has no clock-out yet.
func (te TimeEntry) IsOpen() bool {
	return te.ClockOut == nil
}

// Duration returns the length of a closed entry, or zero while it is open.
func (te TimeEntry) Duration() time.Duration {
	if te.ClockOut == nil {
		return 0
	}
	return te.ClockOut.Sub(te.ClockIn)
}

// Overlaps reports whether the entry's half-open interval intersects
// [start, end). Open entries never overlap.
func (te TimeEntry) Overlaps(start, end time.Time) bool {
	if te.ClockOut == nil {
		return false
	}
	return te.ClockIn.Before(end) && start.Before(*te.ClockOut)
}

// IsValid checks if the time entry has valid data.
func (te TimeEntry) IsValid() bool {
	if te.UserID == "" || te.Date == "" {
		return false
	}
	if te.ClockIn.IsZero() {
		return false
	}
	if te.ClockOut != nil && !te.ClockOut.After(te.ClockIn) {
		return false
	}
	return true
}

// EntryUpdate is a partial change to a time entry. Nil fields are left as
// they are. An empty Notes clears the note.
type EntryUpdate struct {
	Date     *string
	ClockIn  *time.Time
	ClockOut *time.Time
	Notes    *string
}

// IsEmpty reports whether the update changes nothing.
func (u EntryUpdate) IsEmpty() bool {
	return u.Date == nil && u.ClockIn == nil && u.ClockOut == nil && u.Notes == nil
}

// ChangesInterval reports whether the update moves either end of the interval.
func (u EntryUpdate) ChangesInterval() bool {
	return u.ClockIn != nil || u.ClockOut != nil
}

// Apply returns a copy of te with the update applied. Derived fields are
// not recomputed here.
func (u EntryUpdate) Apply(te TimeEntry) TimeEntry {
	if u.Date != nil {
		te.Date = *u.Date
	}
	if u.ClockIn != nil {
		te.ClockIn = *u.ClockIn
	}
	if u.ClockOut != nil {
		out := *u.ClockOut
		te.ClockOut = &out
	}
	if u.Notes != nil {
		te.Notes = *u.Notes
	}
	return te
}

// In returns a copy of te with every instant expressed in loc.
func (te TimeEntry) In(loc *time.Location) TimeEntry {
	te.ClockIn = te.ClockIn.In(loc)
	if te.ClockOut != nil {
		out := te.ClockOut.In(loc)
		te.ClockOut = &out
	}
	te.CreatedAt = te.CreatedAt.In(loc)
	te.UpdatedAt = te.UpdatedAt.In(loc)
	return te
}
