// Package timeutil holds the pure date and duration helpers shared by the
// time tracking engine. Dates are calendar days in YYYY-MM-DD form taken from
// the wall clock of the instant's own location, never from UTC.
package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	// DateLayout is the calendar date form stored on every time entry.
	DateLayout = "2006-01-02"
	// ClockLayout is the time-of-day form accepted for manual entries.
	ClockLayout = "15:04"

	millisPerHour = float64(time.Hour / time.Millisecond)
)

// FormatClock formats an instant as a wall-clock time of day.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// FormatDate formats the calendar day of t in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// RoundHours rounds an hour figure to two decimal places.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

// HoursBetween returns the elapsed hours from start to end, computed from
// millisecond instants and rounded to two decimals. A negative span yields a
// negative value; callers validate the range first.
func HoursBetween(start, end time.Time) float64 {
	ms := end.UnixMilli() - start.UnixMilli()
	return RoundHours(float64(ms) / millisPerHour)
}

// ParseDate parses a YYYY-MM-DD calendar date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// CombineDateTime joins a calendar date and an HH:MM time of day into an
// instant in loc.
func CombineDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	tod, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, loc), nil
}

// AddDays shifts a YYYY-MM-DD date by n calendar days.
func AddDays(date string, n int) (string, error) {
	day, err := ParseDate(date, time.UTC)
	if err != nil {
		return "", err
	}
	return FormatDate(day.AddDate(0, 0, n)), nil
}

// StartOfMonth returns the first calendar day of t's month.
func StartOfMonth(t time.Time) string {
	return FormatDate(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()))
}

// MonthBounds returns the first and last calendar day of month/year. The last
// day is day 0 of the following month, which absorbs month lengths and leap
// years.
func MonthBounds(month time.Month, year int) (first, last string) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return FormatDate(start), FormatDate(end)
}

// ParseMonth accepts "3", "03" or "12" and returns the month.
func ParseMonth(s string) (time.Month, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 12 {
		return 0, fmt.Errorf("invalid month %q", s)
	}
	return time.Month(n), nil
}

// FormatMonth renders a month as two digits, e.g. "03".
func FormatMonth(m time.Month) string {
	return fmt.Sprintf("%02d", int(m))
}

// DaysBetween returns the number of calendar days from one YYYY-MM-DD date
// to another, negative when to is earlier.
func DaysBetween(from, to string) (int, error) {
	start, err := ParseDate(from, time.UTC)
	if err != nil {
		return 0, err
	}
	end, err := ParseDate(to, time.UTC)
	if err != nil {
		return 0, err
	}
	return int(end.Sub(start).Hours() / 24), nil
}

// FormatDuration formats a duration like "8h 30m" or "45m".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
