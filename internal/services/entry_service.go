package services

import (
	"context"

	"timecard/internal/domain"
	apperrors "timecard/internal/errors"
	"timecard/internal/logging"
	"timecard/internal/repository/sqldb"
	"timecard/internal/timeutil"
	"timecard/internal/validation"
)

// entryServiceImpl implements the EntryService interface
type entryServiceImpl struct {
	store     EntryStore
	validator *validation.TimeEntryValidator
	clock     Clock
	logger    logging.Logger
}

// NewEntryService creates a new EntryService instance
func NewEntryService(store EntryStore, validator *validation.TimeEntryValidator, clock Clock, logger logging.Logger) EntryService {
	return &entryServiceImpl{
		store:     store,
		validator: validator,
		clock:     clock,
		logger:    logger,
	}
}

// CreateManualEntry records a closed entry from a date and two times of day.
// Manual entries are not checked for overlap.
func (s *entryServiceImpl) CreateManualEntry(ctx context.Context, req ManualEntryRequest) (*domain.TimeEntry, error) {
	if err := s.validator.ValidateManualEntry(req.UserID, req.Date, req.StartTime, req.EndTime, req.Notes); err != nil {
		return nil, err
	}

	loc := s.clock.Now().Location()
	start, err := timeutil.CombineDateTime(req.Date, req.StartTime, loc)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("start_time", req.StartTime, err.Error())
	}
	end, err := timeutil.CombineDateTime(req.Date, req.EndTime, loc)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("end_time", req.EndTime, err.Error())
	}
	if err := s.validator.ValidateRange(start, end); err != nil {
		return nil, err
	}

	entry := domain.NewTimeEntry(req.UserID, start, end, true)
	entry.Date = req.Date
	entry.Notes = req.Notes

	if err := s.store.Create(ctx, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetEntry retrieves an entry by id
func (s *entryServiceImpl) GetEntry(ctx context.Context, id string) (*domain.TimeEntry, error) {
	if err := s.validator.ValidateTimeEntryID(id); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// ListEntries returns a user's entries in [from, to]; empty bounds are open
func (s *entryServiceImpl) ListEntries(ctx context.Context, userID, from, to string) ([]domain.TimeEntry, error) {
	if err := s.validator.ValidateUserID("user_id", userID); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateDateRange(from, to); err != nil {
		return nil, err
	}
	return s.store.ListForUser(ctx, userID, from, to)
}

// ListEntriesForDate returns a user's entries for one day
func (s *entryServiceImpl) ListEntriesForDate(ctx context.Context, userID, date string) ([]domain.TimeEntry, error) {
	if err := s.validator.ValidateUserID("user_id", userID); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateDateRange(date, date); err != nil {
		return nil, err
	}
	return s.store.ListForUserOnDate(ctx, userID, date)
}

// ListAllEntries returns every user's entries in [from, to]
func (s *entryServiceImpl) ListAllEntries(ctx context.Context, from, to string) ([]domain.TimeEntry, error) {
	if err := s.validator.ValidateDateRange(from, to); err != nil {
		return nil, err
	}
	return s.store.ListForRange(ctx, from, to)
}

// UpdateEntry applies a self-service edit. Only the owner may edit, and the
// new interval must not overlap the owner's other entries that day.
func (s *entryServiceImpl) UpdateEntry(ctx context.Context, userID, entryID string, update domain.EntryUpdate) (*domain.TimeEntry, error) {
	if err := s.validator.ValidateUserID("user_id", userID); err != nil {
		return nil, err
	}
	existing, err := s.loadForUpdate(ctx, entryID, update)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, apperrors.NewPermissionError("update", "time entry "+entryID)
	}

	proposed, fields, err := s.prepareUpdate(*existing, update)
	if err != nil {
		return nil, err
	}

	if movesInterval(update) && !proposed.IsOpen() {
		siblings, err := s.store.ListForUserOnDate(ctx, userID, proposed.Date)
		if err != nil {
			return nil, err
		}
		if err := s.validator.CheckOverlap(entryID, proposed.ClockIn, *proposed.ClockOut, siblings); err != nil {
			return nil, err
		}
	}

	fields["updated_by"] = sqldb.Delete
	return s.store.Update(ctx, entryID, fields)
}

// UpdateEntryAsAdmin applies a correction on behalf of adminID. Overlaps are
// logged, never rejected.
func (s *entryServiceImpl) UpdateEntryAsAdmin(ctx context.Context, entryID string, update domain.EntryUpdate, adminID string) (*domain.TimeEntry, error) {
	if err := s.validator.ValidateUserID("admin_id", adminID); err != nil {
		return nil, err
	}
	existing, err := s.loadForUpdate(ctx, entryID, update)
	if err != nil {
		return nil, err
	}

	proposed, fields, err := s.prepareUpdate(*existing, update)
	if err != nil {
		return nil, err
	}

	if movesInterval(update) && !proposed.IsOpen() {
		siblings, err := s.store.ListForUserOnDate(ctx, existing.UserID, proposed.Date)
		if err != nil {
			return nil, err
		}
		if conflicting := s.validator.FindOverlaps(entryID, proposed.ClockIn, *proposed.ClockOut, siblings); len(conflicting) > 0 {
			s.logger.Warn("admin correction overlaps existing entries",
				"admin_id", adminID, "entry_id", entryID, "user_id", existing.UserID, "conflicting", conflicting)
		}
	}

	fields["updated_by"] = adminID
	s.logger.Info("admin correction",
		"admin_id", adminID, "entry_id", entryID, "user_id", existing.UserID)
	return s.store.Update(ctx, entryID, fields)
}

// DeleteEntry removes one of the user's own entries
func (s *entryServiceImpl) DeleteEntry(ctx context.Context, userID, entryID string) error {
	if err := s.validator.ValidateUserID("user_id", userID); err != nil {
		return err
	}
	if err := s.validator.ValidateTimeEntryID(entryID); err != nil {
		return err
	}

	existing, err := s.store.Get(ctx, entryID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return apperrors.NewPermissionError("delete", "time entry "+entryID)
	}
	return s.store.Delete(ctx, entryID)
}

// DeleteEntryAsAdmin removes any entry, attributed to adminID in the log
func (s *entryServiceImpl) DeleteEntryAsAdmin(ctx context.Context, entryID, adminID string) error {
	if err := s.validator.ValidateUserID("admin_id", adminID); err != nil {
		return err
	}
	if err := s.validator.ValidateTimeEntryID(entryID); err != nil {
		return err
	}

	existing, err := s.store.Get(ctx, entryID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, entryID); err != nil {
		return err
	}

	s.logger.Info("admin deleted entry",
		"admin_id", adminID, "entry_id", entryID, "user_id", existing.UserID)
	return nil
}

func (s *entryServiceImpl) loadForUpdate(ctx context.Context, entryID string, update domain.EntryUpdate) (*domain.TimeEntry, error) {
	if err := s.validator.ValidateTimeEntryID(entryID); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateEntryUpdate(update); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, entryID)
}

// prepareUpdate applies update to existing and builds the matching partial
// write. Moving either end recomputes the hours. The entry keeps its date
// unless a new one is given.
func (s *entryServiceImpl) prepareUpdate(existing domain.TimeEntry, update domain.EntryUpdate) (domain.TimeEntry, sqldb.Fields, error) {
	proposed := update.Apply(existing)
	fields := sqldb.Fields{}

	if update.ChangesInterval() {
		if proposed.ClockOut == nil {
			return proposed, nil, apperrors.NewInvalidInputError("clock_out", nil, "entry has no clock-out")
		}
		if err := s.validator.ValidateEditedRange(proposed.ClockIn, *proposed.ClockOut); err != nil {
			return proposed, nil, err
		}
		proposed.TotalHours = timeutil.HoursBetween(proposed.ClockIn, *proposed.ClockOut)
		fields["clock_in"] = proposed.ClockIn
		fields["clock_out"] = proposed.ClockOut
		fields["total_hours"] = proposed.TotalHours
	}
	if update.Date != nil {
		fields["date"] = *update.Date
	}
	if update.Notes != nil {
		if *update.Notes == "" {
			fields["notes"] = sqldb.Delete
		} else {
			fields["notes"] = *update.Notes
		}
	}
	return proposed, fields, nil
}

// movesInterval reports whether an update can change which entries the
// edited one overlaps with.
func movesInterval(update domain.EntryUpdate) bool {
	return update.ChangesInterval() || update.Date != nil
}
