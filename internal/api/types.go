package api

import (
	"timecard/internal/domain"
	"timecard/internal/services"
)

// ManualEntryRequest is re-exported so callers need only this package.
type ManualEntryRequest = services.ManualEntryRequest

// EditRequest is a user-facing partial edit. Times are HH:MM on the entry's
// date, or on Date when it is given. Nil fields are left unchanged; an empty
// Notes clears the note.
type EditRequest struct {
	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// Status describes whether a user is clocked in
type Status struct {
	UserID       string                  `json:"userId"`
	Active       bool                    `json:"active"`
	Session      *domain.TimeCardSession `json:"session,omitempty"`
	ElapsedHours float64                 `json:"elapsedHours"`
	Elapsed      string                  `json:"elapsed,omitempty"` // Human-readable for running sessions
}

// ActiveSession is one row of the admin "who is clocked in" view
type ActiveSession struct {
	Session      domain.TimeCardSession `json:"session"`
	ElapsedHours float64                `json:"elapsedHours"`
	Elapsed      string                 `json:"elapsed"`
}
