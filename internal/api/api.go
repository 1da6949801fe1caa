package api

import (
	"context"
	"errors"

	"timecard/internal/domain"
	"timecard/internal/logging"
	"timecard/internal/repository/sqldb"
	"timecard/internal/services"
	"timecard/internal/timeutil"
	"timecard/internal/validation"
)

// Engine is the time tracking facade consumed by UI surfaces. Every error it
// returns is an *errors.AppError.
type Engine interface {
	// ========== Session Lifecycle ==========

	// ClockIn starts a session, force-closing one the user left open
	ClockIn(ctx context.Context, userID string) (*domain.TimeCardSession, error)

	// ClockOut stops the active session and returns the recorded entry
	ClockOut(ctx context.Context, userID string) (*domain.TimeEntry, error)

	// GetStatus reports the user's open session, if any
	GetStatus(ctx context.Context, userID string) (*Status, error)

	// ListActiveSessions returns everyone currently clocked in
	ListActiveSessions(ctx context.Context) ([]ActiveSession, error)

	// ========== Entries ==========

	CreateManualEntry(ctx context.Context, req ManualEntryRequest) (*domain.TimeEntry, error)
	GetEntry(ctx context.Context, entryID string) (*domain.TimeEntry, error)
	ListEntries(ctx context.Context, userID, from, to string) ([]domain.TimeEntry, error)
	ListEntriesForDate(ctx context.Context, userID, date string) ([]domain.TimeEntry, error)
	ListAllEntries(ctx context.Context, from, to string) ([]domain.TimeEntry, error)

	// EditEntry is the staff self-service edit
	EditEntry(ctx context.Context, userID, entryID string, req EditRequest) (*domain.TimeEntry, error)
	DeleteEntry(ctx context.Context, userID, entryID string) error

	// ========== Admin Corrections ==========

	AdminEditEntry(ctx context.Context, entryID string, req EditRequest, adminID string) (*domain.TimeEntry, error)
	AdminDeleteEntry(ctx context.Context, entryID, adminID string) error

	// ========== Aggregates ==========

	GetStats(ctx context.Context, userID string) (*domain.TimeTrackingStats, error)
	GetMonthlyReport(ctx context.Context, userID, userName, month string, year int) (*domain.MonthlyReport, error)
}

// engineImpl implements the Engine interface
type engineImpl struct {
	services *services.ServiceContainer
	clock    services.Clock
	logger   logging.Logger
}

// New creates an Engine over repo
func New(repo sqldb.Repository, opts services.Options) Engine {
	if opts.Clock == nil {
		opts.Clock = services.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	return &engineImpl{
		services: services.NewServiceContainer(repo, opts),
		clock:    opts.Clock,
		logger:   opts.Logger,
	}
}

func (e *engineImpl) ClockIn(ctx context.Context, userID string) (*domain.TimeCardSession, error) {
	session, err := e.services.SessionService.StartSession(ctx, userID)
	return session, normalize(err)
}

func (e *engineImpl) ClockOut(ctx context.Context, userID string) (*domain.TimeEntry, error) {
	entry, err := e.services.SessionService.StopSession(ctx, userID)
	return entry, normalize(err)
}

func (e *engineImpl) GetStatus(ctx context.Context, userID string) (*Status, error) {
	session, err := e.services.SessionService.GetActiveSession(ctx, userID)
	if err != nil {
		return nil, normalize(err)
	}

	status := &Status{UserID: userID}
	if session != nil {
		now := e.clock.Now()
		status.Active = true
		status.Session = session
		status.ElapsedHours = session.ElapsedHours(now)
		status.Elapsed = timeutil.FormatDuration(now.Sub(session.StartTime))
	}
	return status, nil
}

func (e *engineImpl) ListActiveSessions(ctx context.Context) ([]ActiveSession, error) {
	sessions, err := e.services.SessionService.ListActiveSessions(ctx)
	if err != nil {
		return nil, normalize(err)
	}

	now := e.clock.Now()
	active := make([]ActiveSession, len(sessions))
	for i, s := range sessions {
		active[i] = ActiveSession{
			Session:      s,
			ElapsedHours: s.ElapsedHours(now),
			Elapsed:      timeutil.FormatDuration(now.Sub(s.StartTime)),
		}
	}
	return active, nil
}

func (e *engineImpl) CreateManualEntry(ctx context.Context, req ManualEntryRequest) (*domain.TimeEntry, error) {
	entry, err := e.services.EntryService.CreateManualEntry(ctx, req)
	return entry, normalize(err)
}

func (e *engineImpl) GetEntry(ctx context.Context, entryID string) (*domain.TimeEntry, error) {
	entry, err := e.services.EntryService.GetEntry(ctx, entryID)
	return entry, normalize(err)
}

func (e *engineImpl) ListEntries(ctx context.Context, userID, from, to string) ([]domain.TimeEntry, error) {
	entries, err := e.services.EntryService.ListEntries(ctx, userID, from, to)
	return entries, normalize(err)
}

func (e *engineImpl) ListEntriesForDate(ctx context.Context, userID, date string) ([]domain.TimeEntry, error) {
	entries, err := e.services.EntryService.ListEntriesForDate(ctx, userID, date)
	return entries, normalize(err)
}

func (e *engineImpl) ListAllEntries(ctx context.Context, from, to string) ([]domain.TimeEntry, error) {
	entries, err := e.services.EntryService.ListAllEntries(ctx, from, to)
	return entries, normalize(err)
}

func (e *engineImpl) EditEntry(ctx context.Context, userID, entryID string, req EditRequest) (*domain.TimeEntry, error) {
	update, err := e.resolveEdit(ctx, entryID, req)
	if err != nil {
		return nil, normalize(err)
	}
	entry, err := e.services.EntryService.UpdateEntry(ctx, userID, entryID, update)
	return entry, normalize(err)
}

func (e *engineImpl) DeleteEntry(ctx context.Context, userID, entryID string) error {
	return normalize(e.services.EntryService.DeleteEntry(ctx, userID, entryID))
}

func (e *engineImpl) AdminEditEntry(ctx context.Context, entryID string, req EditRequest, adminID string) (*domain.TimeEntry, error) {
	update, err := e.resolveEdit(ctx, entryID, req)
	if err != nil {
		return nil, normalize(err)
	}
	entry, err := e.services.EntryService.UpdateEntryAsAdmin(ctx, entryID, update, adminID)
	return entry, normalize(err)
}

func (e *engineImpl) AdminDeleteEntry(ctx context.Context, entryID, adminID string) error {
	return normalize(e.services.EntryService.DeleteEntryAsAdmin(ctx, entryID, adminID))
}

func (e *engineImpl) GetStats(ctx context.Context, userID string) (*domain.TimeTrackingStats, error) {
	stats, err := e.services.StatsService.GetStats(ctx, userID)
	return stats, normalize(err)
}

func (e *engineImpl) GetMonthlyReport(ctx context.Context, userID, userName, month string, year int) (*domain.MonthlyReport, error) {
	report, err := e.services.ReportService.GetMonthlyReport(ctx, userID, userName, month, year)
	return report, normalize(err)
}

// normalize turns field validation failures into validation AppErrors so
// callers only ever deal with one error type.
func normalize(err error) error {
	if err == nil {
		return nil
	}
	var ve *validation.ValidationError
	if errors.As(err, &ve) {
		return ve.ToAppError()
	}
	return err
}
