package sqldb

import (
	"time"
)

// FormatTimeForDB converts an instant to epoch milliseconds for storage.
func FormatTimeForDB(t time.Time) int64 {
	return t.UnixMilli()
}

// FormatTimePtrForDB converts an optional instant, returning nil when absent.
func FormatTimePtrForDB(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := FormatTimeForDB(*t)
	return &ms
}

// ParseTimeFromDB converts stored epoch milliseconds back to a local instant.
func ParseTimeFromDB(ms int64) time.Time {
	return time.UnixMilli(ms)
}
