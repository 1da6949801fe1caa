package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"timecard/internal/domain"
	"timecard/internal/timeutil"
	"timecard/internal/validation"
)

const weekLookbackDays = 7

// statsServiceImpl implements the StatsService interface
type statsServiceImpl struct {
	store     EntryStore
	sessions  SessionService
	clock     Clock
	validator *validation.TimeEntryValidator
}

// NewStatsService creates a new StatsService instance
func NewStatsService(store EntryStore, sessions SessionService, clock Clock, validator *validation.TimeEntryValidator) StatsService {
	return &statsServiceImpl{
		store:     store,
		sessions:  sessions,
		clock:     clock,
		validator: validator,
	}
}

// GetStats sums closed entries for today, the last week and the month to
// date. The live session is attached but never counted.
func (s *statsServiceImpl) GetStats(ctx context.Context, userID string) (*domain.TimeTrackingStats, error) {
	if err := s.validator.ValidateUserID("user_id", userID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	today := timeutil.FormatDate(now)
	weekAgo, err := timeutil.AddDays(today, -weekLookbackDays)
	if err != nil {
		return nil, err
	}
	monthStart := timeutil.StartOfMonth(now)

	var (
		todayEntries []domain.TimeEntry
		weekEntries  []domain.TimeEntry
		monthEntries []domain.TimeEntry
		current      *domain.TimeCardSession
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		todayEntries, err = s.store.ListForUserOnDate(gctx, userID, today)
		return err
	})
	g.Go(func() error {
		var err error
		weekEntries, err = s.store.ListForUser(gctx, userID, weekAgo, today)
		return err
	})
	g.Go(func() error {
		var err error
		monthEntries, err = s.store.ListForUser(gctx, userID, monthStart, today)
		return err
	})
	g.Go(func() error {
		var err error
		current, err = s.sessions.GetActiveSession(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	monthHours := domain.SumHours(monthEntries)
	daysWorked := domain.DistinctDays(monthEntries)

	return &domain.TimeTrackingStats{
		TodayHours:        domain.SumHours(todayEntries),
		WeekHours:         domain.SumHours(weekEntries),
		MonthHours:        monthHours,
		AverageDailyHours: domain.AverageDailyHours(monthHours, daysWorked),
		DaysWorked:        daysWorked,
		CurrentSession:    current,
	}, nil
}
