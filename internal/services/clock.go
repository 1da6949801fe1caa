package services

import "time"

// Clock abstracts time retrieval so business logic is deterministic in tests.
// The location of Now is the one calendar dates are computed in.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time in Location (time.Local when nil).
type RealClock struct {
	Location *time.Location
}

func (c RealClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}
