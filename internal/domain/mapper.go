package domain

import (
	"timecard/internal/repository/sqldb"
)

// TimeEntryMapper handles conversion between domain and database TimeEntry models.
type TimeEntryMapper struct{}

// NewTimeEntryMapper creates a new TimeEntryMapper instance.
func NewTimeEntryMapper() *TimeEntryMapper {
	return &TimeEntryMapper{}
}

// ToDatabase converts a domain TimeEntry to a database TimeEntry.
// Empty notes and updatedBy become absent columns.
func (m *TimeEntryMapper) ToDatabase(e TimeEntry) sqldb.TimeEntry {
	hours := e.TotalHours
	db := sqldb.TimeEntry{
		ID:        e.ID,
		UserID:    e.UserID,
		Date:      e.Date,
		ClockIn:   e.ClockIn,
		ClockOut:  e.ClockOut,
		IsManual:  e.IsManual,
		Notes:     optional(e.Notes),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		UpdatedBy: optional(e.UpdatedBy),
	}
	if e.ClockOut != nil {
		db.TotalHours = &hours
	}
	return db
}

// FromDatabase converts a database TimeEntry to a domain TimeEntry.
func (m *TimeEntryMapper) FromDatabase(db sqldb.TimeEntry) TimeEntry {
	e := TimeEntry{
		ID:        db.ID,
		UserID:    db.UserID,
		Date:      db.Date,
		ClockIn:   db.ClockIn,
		ClockOut:  db.ClockOut,
		IsManual:  db.IsManual,
		CreatedAt: db.CreatedAt,
		UpdatedAt: db.UpdatedAt,
	}
	if db.TotalHours != nil {
		e.TotalHours = *db.TotalHours
	}
	if db.Notes != nil {
		e.Notes = *db.Notes
	}
	if db.UpdatedBy != nil {
		e.UpdatedBy = *db.UpdatedBy
	}
	return e
}

// FromDatabaseSlice converts a slice of database TimeEntries to domain TimeEntries.
func (m *TimeEntryMapper) FromDatabaseSlice(dbEntries []*sqldb.TimeEntry) []TimeEntry {
	entries := make([]TimeEntry, len(dbEntries))
	for i, entry := range dbEntries {
		entries[i] = m.FromDatabase(*entry)
	}
	return entries
}

// SessionMapper handles conversion between domain and database sessions.
type SessionMapper struct{}

// NewSessionMapper creates a new SessionMapper instance.
func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

// ToDatabase converts a domain session to a database session.
func (m *SessionMapper) ToDatabase(s TimeCardSession) sqldb.Session {
	db := sqldb.Session{
		ID:        s.ID,
		UserID:    s.UserID,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
	}
	if !s.IsActive {
		hours := s.TotalHours
		db.TotalHours = &hours
	}
	return db
}

// FromDatabase converts a database session to a domain session.
func (m *SessionMapper) FromDatabase(db sqldb.Session) TimeCardSession {
	s := TimeCardSession{
		ID:        db.ID,
		UserID:    db.UserID,
		StartTime: db.StartTime,
		EndTime:   db.EndTime,
		IsActive:  db.IsActive,
		CreatedAt: db.CreatedAt,
	}
	if db.TotalHours != nil {
		s.TotalHours = *db.TotalHours
	}
	return s
}

// FromDatabaseSlice converts a slice of database sessions to domain sessions.
func (m *SessionMapper) FromDatabaseSlice(dbSessions []*sqldb.Session) []TimeCardSession {
	sessions := make([]TimeCardSession, len(dbSessions))
	for i, s := range dbSessions {
		sessions[i] = m.FromDatabase(*s)
	}
	return sessions
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	TimeEntry *TimeEntryMapper
	Session   *SessionMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		TimeEntry: NewTimeEntryMapper(),
		Session:   NewSessionMapper(),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
