package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"timecard/internal/errors"
	"timecard/internal/repository/sqldb/migrations"
)

const (
	IndexEntriesByUserDate = "idx_time_entries_user_date_clock_in"
	IndexEntriesByDateUser = "idx_time_entries_date_user_clock_in"

	defaultQueryTimeout = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
)

// Repository defines the interface for database operations
type Repository interface {
	// Time entries
	CreateTimeEntry(ctx context.Context, entry *TimeEntry) error
	GetTimeEntry(ctx context.Context, id string) (*TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, id string, fields Fields) (*TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, id string) error
	// QueryTimeEntries returns entries in index order. It fails with an
	// IndexUnavailable error when the backing index cannot serve the read.
	QueryTimeEntries(ctx context.Context, q RangeQuery) ([]*TimeEntry, error)
	// ListTimeEntries returns every entry of userID (all users when empty)
	// without relying on any index. Order is unspecified.
	ListTimeEntries(ctx context.Context, userID string) ([]*TimeEntry, error)

	// Sessions
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	GetActiveSessions(ctx context.Context, userID string) ([]*Session, error)
	ListActiveSessions(ctx context.Context) ([]*Session, error)
	// CloseSession deactivates an active session. It reports NotFound when
	// the session is missing or was already closed.
	CloseSession(ctx context.Context, id string, end time.Time, totalHours float64) error
	// MaterializeSession closes an active session and inserts entry in a
	// single transaction.
	MaterializeSession(ctx context.Context, id string, end time.Time, totalHours float64, entry *TimeEntry) error

	// Utility
	Close() error
}

// SQLRepository implements the Repository interface over database/sql
type SQLRepository struct {
	db           *sql.DB
	dialect      Dialect
	newID        func() string
	queryTimeout time.Duration
	writeTimeout time.Duration
}

// Option configures an SQLRepository.
type Option func(*SQLRepository)

// WithIDGenerator overrides how identifiers are assigned to new rows.
func WithIDGenerator(gen func() string) Option {
	return func(r *SQLRepository) { r.newID = gen }
}

// WithQueryTimeout bounds every read.
func WithQueryTimeout(d time.Duration) Option {
	return func(r *SQLRepository) {
		if d > 0 {
			r.queryTimeout = d
		}
	}
}

// WithWriteTimeout bounds every write.
func WithWriteTimeout(d time.Duration) Option {
	return func(r *SQLRepository) {
		if d > 0 {
			r.writeTimeout = d
		}
	}
}

// New creates a SQLite repository instance
func New(dbPath string, opts ...Option) (*SQLRepository, error) {
	return Open(SQLite, sqliteDSN(dbPath), opts...)
}

// NewPostgres creates a repository backed by PostgreSQL.
func NewPostgres(dsn string, opts ...Option) (*SQLRepository, error) {
	return Open(Postgres, dsn, opts...)
}

// Open connects with the given dialect, runs migrations and returns the repository.
func Open(dialect Dialect, dsn string, opts ...Option) (*SQLRepository, error) {
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	// Every connection to an in-memory database sees its own empty database.
	if dialect == SQLite && isMemoryDSN(dsn) {
		db.SetMaxOpenConns(1)
	}

	if err := migrations.RunMigrations(db, dialect.Name()); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	repo := &SQLRepository{
		db:           db,
		dialect:      dialect,
		newID:        uuid.NewString,
		queryTimeout: defaultQueryTimeout,
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo, nil
}

func sqliteDSN(path string) string {
	if isMemoryDSN(path) || strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

// Close closes the database connection
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// Dialect reports the backend in use.
func (r *SQLRepository) Dialect() Dialect {
	return r.dialect
}

// DB exposes the underlying handle for maintenance tasks.
func (r *SQLRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLRepository) readCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.queryTimeout)
}

func (r *SQLRepository) writeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.writeTimeout)
}

func (r *SQLRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit transaction", err)
	}
	return nil
}

func entryFields(e *TimeEntry) Fields {
	return Fields{
		"id":          e.ID,
		"user_id":     e.UserID,
		"date":        e.Date,
		"clock_in":    e.ClockIn,
		"clock_out":   e.ClockOut,
		"total_hours": e.TotalHours,
		"is_manual":   e.IsManual,
		"notes":       e.Notes,
		"created_at":  e.CreatedAt,
		"updated_at":  e.UpdatedAt,
		"updated_by":  e.UpdatedBy,
	}
}

func sessionFields(s *Session) Fields {
	return Fields{
		"id":          s.ID,
		"user_id":     s.UserID,
		"start_time":  s.StartTime,
		"end_time":    s.EndTime,
		"is_active":   s.IsActive,
		"total_hours": s.TotalHours,
		"created_at":  s.CreatedAt,
	}
}

func (r *SQLRepository) insertTimeEntry(ctx context.Context, q querier, entry *TimeEntry) error {
	if entry.ID == "" {
		entry.ID = r.newID()
	}
	query, args := buildInsert("time_entries", entryFields(entry))
	if _, err := q.ExecContext(ctx, r.dialect.Rebind(query), args...); err != nil {
		if r.dialect.IsUniqueViolation(err) {
			return errors.NewConflictError("time entry", err)
		}
		return HandleDatabaseError("create time entry", err)
	}
	return nil
}

// CreateTimeEntry creates a new time entry, assigning an ID when empty
func (r *SQLRepository) CreateTimeEntry(ctx context.Context, entry *TimeEntry) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()
	return r.insertTimeEntry(ctx, r.db, entry)
}

// GetTimeEntry retrieves a time entry by ID
func (r *SQLRepository) GetTimeEntry(ctx context.Context, id string) (*TimeEntry, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM time_entries WHERE id = ?`, entryColumns)
	return QuerySingle(ctx, r.db, r.dialect.Rebind(query), ScanTimeEntry, "time entry", id, id)
}

// UpdateTimeEntry applies a partial update and returns the stored result.
// Nil values are ignored; Delete clears a column.
func (r *SQLRepository) UpdateTimeEntry(ctx context.Context, id string, fields Fields) (*TimeEntry, error) {
	fields = fields.Compact()
	delete(fields, "id")
	delete(fields, "created_at")

	query, args := buildUpdate("time_entries", fields, "id = ?", id)
	if query != "" {
		wctx, cancel := r.writeCtx(ctx)
		err := ExecuteWithRowsAffected(wctx, r.db, r.dialect.Rebind(query), "time entry", id, args...)
		cancel()
		if err != nil {
			return nil, err
		}
	}
	return r.GetTimeEntry(ctx, id)
}

// DeleteTimeEntry deletes a time entry by ID
func (r *SQLRepository) DeleteTimeEntry(ctx context.Context, id string) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `DELETE FROM time_entries WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, r.dialect.Rebind(query), "time entry", id, id)
}

// QueryTimeEntries runs an index-backed range query. Per-user reads are
// ordered by date, clock-in and id; cross-user reads put user between date
// and clock-in.
func (r *SQLRepository) QueryTimeEntries(ctx context.Context, rq RangeQuery) ([]*TimeEntry, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	index, order := IndexEntriesByUserDate, "date ASC, clock_in ASC, id ASC"
	if rq.UserID == "" {
		index, order = IndexEntriesByDateUser, "date ASC, user_id ASC, clock_in ASC, id ASC"
	}

	if err := r.dialect.CheckIndex(ctx, r.db, index); err != nil {
		return nil, err
	}

	where, args := rangeConditions(rq)
	query := fmt.Sprintf("SELECT %s FROM time_entries%s%s ORDER BY %s",
		entryColumns, r.dialect.IndexHint(index), where, order)

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		if r.dialect.IsMissingIndex(err) {
			return nil, errors.NewIndexUnavailableError(index, err)
		}
		return nil, HandleDatabaseError("query time entries", err)
	}
	defer rows.Close()

	entries, err := ScanTimeEntries(rows)
	if err != nil {
		return nil, HandleDatabaseError("scan time entries", err)
	}
	return entries, nil
}

func rangeConditions(rq RangeQuery) (string, []any) {
	var conditions []string
	var args []any

	if rq.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, rq.UserID)
	}
	if rq.From != "" {
		conditions = append(conditions, "date >= ?")
		args = append(args, rq.From)
	}
	if rq.To != "" {
		conditions = append(conditions, "date <= ?")
		args = append(args, rq.To)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// ListTimeEntries fetches entries without any ORDER BY or index hint.
func (r *SQLRepository) ListTimeEntries(ctx context.Context, userID string) ([]*TimeEntry, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	if userID == "" {
		query := fmt.Sprintf(`SELECT %s FROM time_entries`, entryColumns)
		return QueryMultiple(ctx, r.db, query, ScanTimeEntries, "time entries")
	}
	query := fmt.Sprintf(`SELECT %s FROM time_entries WHERE user_id = ?`, entryColumns)
	return QueryMultiple(ctx, r.db, r.dialect.Rebind(query), ScanTimeEntries, "time entries", userID)
}

// CreateSession inserts a session. A second active session for the same
// user is rejected with a Conflict error.
func (r *SQLRepository) CreateSession(ctx context.Context, session *Session) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	if session.ID == "" {
		session.ID = r.newID()
	}
	query, args := buildInsert("time_sessions", sessionFields(session))
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), args...); err != nil {
		if r.dialect.IsUniqueViolation(err) {
			return errors.NewConflictError("active session", err)
		}
		return HandleDatabaseError("create session", err)
	}
	return nil
}

// GetSession retrieves a session by ID
func (r *SQLRepository) GetSession(ctx context.Context, id string) (*Session, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM time_sessions WHERE id = ?`, sessionColumns)
	return QuerySingle(ctx, r.db, r.dialect.Rebind(query), ScanSession, "session", id, id)
}

// GetActiveSessions returns the user's active sessions, oldest first
func (r *SQLRepository) GetActiveSessions(ctx context.Context, userID string) ([]*Session, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := fmt.Sprintf(`
	SELECT %s FROM time_sessions
	WHERE user_id = ? AND is_active = ?
	ORDER BY start_time ASC, id ASC`, sessionColumns)
	return QueryMultiple(ctx, r.db, r.dialect.Rebind(query), ScanSessions, "sessions", userID, true)
}

// ListActiveSessions returns every active session across users
func (r *SQLRepository) ListActiveSessions(ctx context.Context) ([]*Session, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := fmt.Sprintf(`
	SELECT %s FROM time_sessions
	WHERE is_active = ?
	ORDER BY user_id ASC, start_time ASC`, sessionColumns)
	return QueryMultiple(ctx, r.db, r.dialect.Rebind(query), ScanSessions, "sessions", true)
}

func (r *SQLRepository) closeSession(ctx context.Context, q querier, id string, end time.Time, totalHours float64) error {
	query := `
	UPDATE time_sessions
	SET is_active = ?, end_time = ?, total_hours = ?
	WHERE id = ? AND is_active = ?`
	return ExecuteWithRowsAffected(ctx, q, r.dialect.Rebind(query), "active session", id,
		false, FormatTimeForDB(end), totalHours, id, true)
}

// CloseSession marks an active session closed
func (r *SQLRepository) CloseSession(ctx context.Context, id string, end time.Time, totalHours float64) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()
	return r.closeSession(ctx, r.db, id, end, totalHours)
}

// MaterializeSession closes the session and records entry atomically
func (r *SQLRepository) MaterializeSession(ctx context.Context, id string, end time.Time, totalHours float64, entry *TimeEntry) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := r.closeSession(ctx, tx, id, end, totalHours); err != nil {
			return err
		}
		return r.insertTimeEntry(ctx, tx, entry)
	})
}
