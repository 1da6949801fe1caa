package services

import (
	"context"

	"timecard/internal/domain"
	"timecard/internal/timeutil"
	"timecard/internal/validation"
)

// reportServiceImpl implements the ReportService interface
type reportServiceImpl struct {
	store     EntryStore
	clock     Clock
	validator *validation.TimeEntryValidator
}

// NewReportService creates a new ReportService instance
func NewReportService(store EntryStore, clock Clock, validator *validation.TimeEntryValidator) ReportService {
	return &reportServiceImpl{
		store:     store,
		clock:     clock,
		validator: validator,
	}
}

// GetMonthlyReport collects the user's entries from the first to the last
// day of the month. userName only labels the result.
func (r *reportServiceImpl) GetMonthlyReport(ctx context.Context, userID, userName, month string, year int) (*domain.MonthlyReport, error) {
	if err := r.validator.ValidateUserID("user_id", userID); err != nil {
		return nil, err
	}
	if err := r.validator.ValidateMonth(month, year); err != nil {
		return nil, err
	}

	m, err := timeutil.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	first, last := timeutil.MonthBounds(m, year)

	entries, err := r.store.ListForUser(ctx, userID, first, last)
	if err != nil {
		return nil, err
	}

	return &domain.MonthlyReport{
		UserID:       userID,
		UserName:     userName,
		Month:        timeutil.FormatMonth(m),
		Year:         year,
		TotalHours:   domain.SumHours(entries),
		DailyEntries: entries,
		Days:         domain.GroupByDay(entries),
		GeneratedAt:  r.clock.Now(),
	}, nil
}
