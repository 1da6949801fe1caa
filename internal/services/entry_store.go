package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"timecard/internal/domain"
	apperrors "timecard/internal/errors"
	"timecard/internal/logging"
	"timecard/internal/repository/sqldb"
)

// readStrategy is one way of answering a range query. Strategies are tried
// in order; only an IndexUnavailable error moves on to the next one.
type readStrategy struct {
	name string
	read func(ctx context.Context, q sqldb.RangeQuery) ([]*sqldb.TimeEntry, error)
}

// entryStoreImpl implements the EntryStore interface
type entryStoreImpl struct {
	repo       sqldb.Repository
	mapper     *domain.Mapper
	clock      Clock
	logger     logging.Logger
	strategies []readStrategy
}

// NewEntryStore creates a new EntryStore instance
func NewEntryStore(repo sqldb.Repository, clock Clock, logger logging.Logger) EntryStore {
	s := &entryStoreImpl{
		repo:   repo,
		mapper: domain.NewMapper(),
		clock:  clock,
		logger: logger,
	}
	s.strategies = []readStrategy{
		{name: "indexed", read: s.indexedRead},
		{name: "scan", read: s.scanRead},
	}
	return s
}

// Create persists a new entry and writes the assigned id back to it
func (s *entryStoreImpl) Create(ctx context.Context, entry *domain.TimeEntry) error {
	now := s.clock.Now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = now
	}

	dbEntry := s.mapper.TimeEntry.ToDatabase(*entry)
	if err := s.repo.CreateTimeEntry(ctx, &dbEntry); err != nil {
		return err
	}
	entry.ID = dbEntry.ID
	return nil
}

// Get retrieves an entry by id
func (s *entryStoreImpl) Get(ctx context.Context, id string) (*domain.TimeEntry, error) {
	dbEntry, err := s.repo.GetTimeEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	entry := s.mapper.TimeEntry.FromDatabase(*dbEntry).In(s.location())
	return &entry, nil
}

// Update stamps updated_at and applies the partial change
func (s *entryStoreImpl) Update(ctx context.Context, id string, fields sqldb.Fields) (*domain.TimeEntry, error) {
	payload := make(sqldb.Fields, len(fields)+1)
	for k, v := range fields {
		payload[k] = v
	}
	payload["updated_at"] = s.clock.Now()

	dbEntry, err := s.repo.UpdateTimeEntry(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	entry := s.mapper.TimeEntry.FromDatabase(*dbEntry).In(s.location())
	return &entry, nil
}

// Delete removes an entry by id
func (s *entryStoreImpl) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteTimeEntry(ctx, id)
}

// ListForUser returns the user's entries in [from, to] ordered by date and clock-in
func (s *entryStoreImpl) ListForUser(ctx context.Context, userID, from, to string) ([]domain.TimeEntry, error) {
	return s.query(ctx, sqldb.RangeQuery{UserID: userID, From: from, To: to})
}

// ListForUserOnDate returns the user's entries for a single day
func (s *entryStoreImpl) ListForUserOnDate(ctx context.Context, userID, date string) ([]domain.TimeEntry, error) {
	return s.query(ctx, sqldb.RangeQuery{UserID: userID, From: date, To: date})
}

// ListForRange returns every user's entries in [from, to]
func (s *entryStoreImpl) ListForRange(ctx context.Context, from, to string) ([]domain.TimeEntry, error) {
	return s.query(ctx, sqldb.RangeQuery{From: from, To: to})
}

func (s *entryStoreImpl) query(ctx context.Context, q sqldb.RangeQuery) ([]domain.TimeEntry, error) {
	var lastErr error
	for i, strategy := range s.strategies {
		dbEntries, err := strategy.read(ctx, q)
		if err == nil {
			return s.localize(s.mapper.TimeEntry.FromDatabaseSlice(dbEntries)), nil
		}
		if !errors.Is(err, apperrors.ErrIndexUnavailable) || i == len(s.strategies)-1 {
			return nil, err
		}

		lastErr = err
		next := s.strategies[i+1].name
		index, _ := indexName(err)
		s.logger.Warn("index unavailable, degrading range read",
			"index", index, "strategy", strategy.name, "fallback", next, "user_id", q.UserID)
	}
	return nil, lastErr
}

// location is the zone dates and returned instants are expressed in.
func (s *entryStoreImpl) location() *time.Location {
	return s.clock.Now().Location()
}

func (s *entryStoreImpl) localize(entries []domain.TimeEntry) []domain.TimeEntry {
	loc := s.location()
	for i := range entries {
		entries[i] = entries[i].In(loc)
	}
	return entries
}

func (s *entryStoreImpl) indexedRead(ctx context.Context, q sqldb.RangeQuery) ([]*sqldb.TimeEntry, error) {
	return s.repo.QueryTimeEntries(ctx, q)
}

// scanRead fetches without any index and reproduces the indexed filter and
// order in memory.
func (s *entryStoreImpl) scanRead(ctx context.Context, q sqldb.RangeQuery) ([]*sqldb.TimeEntry, error) {
	all, err := s.repo.ListTimeEntries(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	return filterAndSort(all, q), nil
}

func filterAndSort(entries []*sqldb.TimeEntry, q sqldb.RangeQuery) []*sqldb.TimeEntry {
	out := make([]*sqldb.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if q.UserID != "" && e.UserID != q.UserID {
			continue
		}
		if q.From != "" && e.Date < q.From {
			continue
		}
		if q.To != "" && e.Date > q.To {
			continue
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if q.UserID == "" && a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		if ai, bi := a.ClockIn.UnixMilli(), b.ClockIn.UnixMilli(); ai != bi {
			return ai < bi
		}
		return a.ID < b.ID
	})
	return out
}

func indexName(err error) (string, bool) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return "", false
	}
	v, ok := appErr.GetContext("index")
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}
