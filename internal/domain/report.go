package domain

import (
	"sort"
	"time"

	"timecard/internal/timeutil"
)

// DailyTotal is one day of a report breakdown.
type DailyTotal struct {
	Date    string  `json:"date"`
	Hours   float64 `json:"hours"`
	Entries int     `json:"entries"`
}

// MonthlyReport is the per-user aggregate for one calendar month. It is
// never stored.
type MonthlyReport struct {
	UserID       string       `json:"userId"`
	UserName     string       `json:"userName"`
	Month        string       `json:"month"`
	Year         int          `json:"year"`
	TotalHours   float64      `json:"totalHours"`
	DailyEntries []TimeEntry  `json:"dailyEntries"`
	Days         []DailyTotal `json:"days"`
	GeneratedAt  time.Time    `json:"generatedAt"`
}

// TimeTrackingStats holds rolling totals over closed entries plus the live
// session, if any.
type TimeTrackingStats struct {
	TodayHours        float64          `json:"todayHours"`
	WeekHours         float64          `json:"weekHours"`
	MonthHours        float64          `json:"monthHours"`
	AverageDailyHours float64          `json:"averageDailyHours"`
	DaysWorked        int              `json:"daysWorked"`
	CurrentSession    *TimeCardSession `json:"currentSession,omitempty"`
}

// SumHours totals the entries' hours, rounded to 2 decimals.
func SumHours(entries []TimeEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.TotalHours
	}
	return timeutil.RoundHours(total)
}

// DistinctDays counts the different dates present in entries.
func DistinctDays(entries []TimeEntry) int {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		seen[e.Date] = struct{}{}
	}
	return len(seen)
}

// AverageDailyHours divides total by days, or returns 0 when there are none.
func AverageDailyHours(total float64, days int) float64 {
	if days == 0 {
		return 0
	}
	return timeutil.RoundHours(total / float64(days))
}

// GroupByDay builds the per-day breakdown in date order.
func GroupByDay(entries []TimeEntry) []DailyTotal {
	byDate := make(map[string]*DailyTotal)
	for _, e := range entries {
		d, ok := byDate[e.Date]
		if !ok {
			d = &DailyTotal{Date: e.Date}
			byDate[e.Date] = d
		}
		d.Hours += e.TotalHours
		d.Entries++
	}

	days := make([]DailyTotal, 0, len(byDate))
	for _, d := range byDate {
		d.Hours = timeutil.RoundHours(d.Hours)
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
