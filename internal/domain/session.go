package domain

import (
	"time"

	"timecard/internal/timeutil"
)

// TimeCardSession is an open-ended clock-in interval. At most one per user
// is active at a time.
type TimeCardSession struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	StartTime  time.Time  `json:"startTime"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	IsActive   bool       `json:"isActive"`
	TotalHours float64    `json:"totalHours"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// NewSession creates an active session starting at start.
func NewSession(userID string, start time.Time) TimeCardSession {
	return TimeCardSession{
		UserID:    userID,
		StartTime: start,
		IsActive:  true,
		CreatedAt: start,
	}
}

// ElapsedHours returns the hours between the start and at, never negative.
func (s TimeCardSession) ElapsedHours(at time.Time) float64 {
	if !at.After(s.StartTime) {
		return 0
	}
	return timeutil.HoursBetween(s.StartTime, at)
}

// Close returns a copy of the session closed at end.
func (s TimeCardSession) Close(end time.Time) TimeCardSession {
	s.EndTime = &end
	s.IsActive = false
	s.TotalHours = s.ElapsedHours(end)
	return s
}

// In returns a copy of s with every instant expressed in loc.
func (s TimeCardSession) In(loc *time.Location) TimeCardSession {
	s.StartTime = s.StartTime.In(loc)
	if s.EndTime != nil {
		end := s.EndTime.In(loc)
		s.EndTime = &end
	}
	s.CreatedAt = s.CreatedAt.In(loc)
	return s
}
