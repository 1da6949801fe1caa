package services

import (
	"context"
	"errors"
	"time"

	"timecard/internal/domain"
	apperrors "timecard/internal/errors"
	"timecard/internal/logging"
	"timecard/internal/repository/sqldb"
	"timecard/internal/timeutil"
	"timecard/internal/validation"
)

// sessionServiceImpl implements the SessionService interface
type sessionServiceImpl struct {
	repo      sqldb.Repository
	mapper    *domain.Mapper
	validator *validation.TimeEntryValidator
	clock     Clock
	logger    logging.Logger
}

// NewSessionService creates a new SessionService instance
func NewSessionService(repo sqldb.Repository, validator *validation.TimeEntryValidator, clock Clock, logger logging.Logger) SessionService {
	return &sessionServiceImpl{
		repo:      repo,
		mapper:    domain.NewMapper(),
		validator: validator,
		clock:     clock,
		logger:    logger,
	}
}

// StartSession force-closes any session the user left open and starts a new
// one. The store admits a single active session per user, so a concurrent
// start surfaces as a Conflict; that is retried once.
func (s *sessionServiceImpl) StartSession(ctx context.Context, userID string) (*domain.TimeCardSession, error) {
	if err := s.validator.ValidateUserID("user_id", userID); err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		now := s.clock.Now()
		s.closeStale(ctx, userID, now)

		session := domain.NewSession(userID, now)
		dbSession := s.mapper.Session.ToDatabase(session)
		err := s.repo.CreateSession(ctx, &dbSession)
		if err == nil {
			session.ID = dbSession.ID
			s.logger.Info("session started", "user_id", userID, "session_id", session.ID)
			return &session, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) || attempt > 0 {
			return nil, err
		}
		s.logger.Warn("concurrent session start detected, retrying", "user_id", userID)
	}
}

// closeStale closes every active session of the user at now. Failures are
// logged and never block the caller.
func (s *sessionServiceImpl) closeStale(ctx context.Context, userID string, now time.Time) {
	dbSessions, err := s.repo.GetActiveSessions(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to read active sessions", "user_id", userID, "error", err)
		return
	}

	for _, session := range s.mapper.Session.FromDatabaseSlice(dbSessions) {
		closed := session.Close(now)
		if err := s.repo.CloseSession(ctx, session.ID, now, closed.TotalHours); err != nil {
			s.logger.Warn("failed to close stale session",
				"user_id", userID, "session_id", session.ID, "error", err)
			continue
		}
		s.logger.Warn("force-closed stale session",
			"user_id", userID, "session_id", session.ID, "hours", closed.TotalHours)
	}
}

// StopSession closes the active session and records it as a time entry in
// one transaction. The entry is dated by the closing instant.
func (s *sessionServiceImpl) StopSession(ctx context.Context, userID string) (*domain.TimeEntry, error) {
	if err := s.validator.ValidateUserID("user_id", userID); err != nil {
		return nil, err
	}

	session, err := s.activeSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperrors.NewNoActiveSessionError(userID)
	}

	now := s.clock.Now()
	start := session.StartTime.In(now.Location())
	if err := s.validator.ValidateRange(start, now); err != nil {
		return nil, err
	}

	closed := session.Close(now)
	entry := domain.NewTimeEntry(userID, start, now, false)
	entry.Date = timeutil.FormatDate(now)
	entry.CreatedAt = now
	entry.UpdatedAt = now

	dbEntry := s.mapper.TimeEntry.ToDatabase(entry)
	if err := s.repo.MaterializeSession(ctx, session.ID, now, closed.TotalHours, &dbEntry); err != nil {
		if apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewNoActiveSessionError(userID)
		}
		return nil, err
	}
	entry.ID = dbEntry.ID

	s.logger.Info("session stopped",
		"user_id", userID, "session_id", session.ID, "entry_id", entry.ID, "hours", entry.TotalHours)
	return &entry, nil
}

// GetActiveSession returns the user's open session, or nil when idle
func (s *sessionServiceImpl) GetActiveSession(ctx context.Context, userID string) (*domain.TimeCardSession, error) {
	if err := s.validator.ValidateUserID("user_id", userID); err != nil {
		return nil, err
	}
	return s.activeSession(ctx, userID)
}

// activeSession treats the oldest active session as canonical.
func (s *sessionServiceImpl) activeSession(ctx context.Context, userID string) (*domain.TimeCardSession, error) {
	dbSessions, err := s.repo.GetActiveSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(dbSessions) == 0 {
		return nil, nil
	}
	if len(dbSessions) > 1 {
		s.logger.Warn("multiple active sessions found", "user_id", userID, "count", len(dbSessions))
	}

	session := s.mapper.Session.FromDatabase(*dbSessions[0]).In(s.clock.Now().Location())
	return &session, nil
}

// ListActiveSessions returns everyone currently clocked in
func (s *sessionServiceImpl) ListActiveSessions(ctx context.Context) ([]domain.TimeCardSession, error) {
	dbSessions, err := s.repo.ListActiveSessions(ctx)
	if err != nil {
		return nil, err
	}

	loc := s.clock.Now().Location()
	sessions := s.mapper.Session.FromDatabaseSlice(dbSessions)
	for i := range sessions {
		sessions[i] = sessions[i].In(loc)
	}
	return sessions, nil
}
