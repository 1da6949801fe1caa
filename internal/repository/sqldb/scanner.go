package sqldb

import (
	"database/sql"
)

const (
	entryColumns   = "id, user_id, date, clock_in, clock_out, total_hours, is_manual, notes, created_at, updated_at, updated_by"
	sessionColumns = "id, user_id, start_time, end_time, is_active, total_hours, created_at"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...any) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// ScanTimeEntry scans a single time entry in entryColumns order
func ScanTimeEntry(scanner Scanner) (*TimeEntry, error) {
	entry := &TimeEntry{}
	var (
		clockIn, createdAt, updatedAt int64
		clockOut                      sql.NullInt64
		totalHours                    sql.NullFloat64
		notes, updatedBy              sql.NullString
	)

	err := scanner.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Date,
		&clockIn,
		&clockOut,
		&totalHours,
		&entry.IsManual,
		&notes,
		&createdAt,
		&updatedAt,
		&updatedBy,
	)
	if err != nil {
		return nil, err
	}

	entry.ClockIn = ParseTimeFromDB(clockIn)
	entry.CreatedAt = ParseTimeFromDB(createdAt)
	entry.UpdatedAt = ParseTimeFromDB(updatedAt)
	if clockOut.Valid {
		t := ParseTimeFromDB(clockOut.Int64)
		entry.ClockOut = &t
	}
	if totalHours.Valid {
		entry.TotalHours = &totalHours.Float64
	}
	if notes.Valid {
		entry.Notes = &notes.String
	}
	if updatedBy.Valid {
		entry.UpdatedBy = &updatedBy.String
	}

	return entry, nil
}

// ScanTimeEntries scans multiple time entries from database rows
func ScanTimeEntries(rows Rows) ([]*TimeEntry, error) {
	var entries []*TimeEntry
	for rows.Next() {
		entry, err := ScanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// ScanSession scans a single session in sessionColumns order
func ScanSession(scanner Scanner) (*Session, error) {
	session := &Session{}
	var (
		startTime, createdAt int64
		endTime              sql.NullInt64
		totalHours           sql.NullFloat64
	)

	err := scanner.Scan(
		&session.ID,
		&session.UserID,
		&startTime,
		&endTime,
		&session.IsActive,
		&totalHours,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	session.StartTime = ParseTimeFromDB(startTime)
	session.CreatedAt = ParseTimeFromDB(createdAt)
	if endTime.Valid {
		t := ParseTimeFromDB(endTime.Int64)
		session.EndTime = &t
	}
	if totalHours.Valid {
		session.TotalHours = &totalHours.Float64
	}

	return session, nil
}

// ScanSessions scans multiple sessions from database rows
func ScanSessions(rows Rows) ([]*Session, error) {
	var sessions []*Session
	for rows.Next() {
		session, err := ScanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
