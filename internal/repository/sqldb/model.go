package sqldb

import "time"

// TimeEntry is a row of the time_entries collection. Optional columns are
// pointers so that an absent value is never confused with a zero value.
type TimeEntry struct {
	ID         string
	UserID     string
	Date       string // YYYY-MM-DD, local wall-clock day
	ClockIn    time.Time
	ClockOut   *time.Time
	TotalHours *float64
	IsManual   bool
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	UpdatedBy  *string
}

// Session is a row of the time_sessions collection.
type Session struct {
	ID         string
	UserID     string
	StartTime  time.Time
	EndTime    *time.Time
	IsActive   bool
	TotalHours *float64
	CreatedAt  time.Time
}

// RangeQuery selects time entries by owner and inclusive date bounds.
// An empty UserID spans every user; empty From/To leave that side open.
type RangeQuery struct {
	UserID string
	From   string
	To     string
}
