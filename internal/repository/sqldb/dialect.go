package sqldb

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"timecard/internal/errors"
)

// Dialect isolates the differences between the supported SQL backends.
type Dialect interface {
	Name() string
	DriverName() string
	// Rebind rewrites ? placeholders into the backend's form.
	Rebind(query string) string
	// IndexHint returns a FROM-clause suffix that pins a query to an index.
	IndexHint(index string) string
	// CheckIndex reports IndexUnavailable when index cannot serve reads yet.
	CheckIndex(ctx context.Context, q querier, index string) error
	IsUniqueViolation(err error) bool
	IsMissingIndex(err error) bool
}

// SQLite is the embedded default backend.
var SQLite Dialect = sqliteDialect{}

// Postgres is the server backend, reached through pgx's database/sql driver.
var Postgres Dialect = postgresDialect{}

// DialectByName resolves a configured driver name.
func DialectByName(name string) (Dialect, bool) {
	switch strings.ToLower(name) {
	case "sqlite", "sqlite3", "":
		return SQLite, true
	case "postgres", "postgresql", "pgx":
		return Postgres, true
	}
	return nil, false
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string       { return "sqlite" }
func (sqliteDialect) DriverName() string { return "sqlite" }

func (sqliteDialect) Rebind(query string) string { return query }

// IndexHint uses INDEXED BY, which makes SQLite fail the statement with
// "no such index" instead of silently planning a full scan.
func (sqliteDialect) IndexHint(index string) string {
	return " INDEXED BY " + index
}

func (sqliteDialect) CheckIndex(context.Context, querier, string) error { return nil }

func (sqliteDialect) IsUniqueViolation(err error) bool {
	var se *sqlite.Error
	if stderrors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return false
}

func (sqliteDialect) IsMissingIndex(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such index")
}

type postgresDialect struct{}

func (postgresDialect) Name() string       { return "postgres" }
func (postgresDialect) DriverName() string { return "pgx" }

func (postgresDialect) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (postgresDialect) IndexHint(string) string { return "" }

// CheckIndex treats an index that is absent, still building (indisready) or
// left invalid by an interrupted concurrent build (indisvalid) as unavailable.
func (postgresDialect) CheckIndex(ctx context.Context, q querier, index string) error {
	var usable bool
	err := q.QueryRowContext(ctx, `
	SELECT i.indisvalid AND i.indisready
	FROM pg_index i
	JOIN pg_class c ON c.oid = i.indexrelid
	WHERE c.relname = $1`, index).Scan(&usable)
	if err == sql.ErrNoRows {
		return errors.NewIndexUnavailableError(index, err)
	}
	if err != nil {
		return HandleDatabaseError("check index "+index, err)
	}
	if !usable {
		return errors.NewIndexUnavailableError(index, nil)
	}
	return nil
}

func (postgresDialect) IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func (postgresDialect) IsMissingIndex(error) bool { return false }
