package services

import (
	"context"

	"timecard/internal/domain"
	"timecard/internal/repository/sqldb"
)

// ManualEntryRequest carries a user-supplied date and HH:MM pair
type ManualEntryRequest struct {
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Notes     string `json:"notes,omitempty"`
}

// EntryStore is the Time Entry Store: CRUD plus ordered reads that fall
// back to a client-side scan when the supporting index is unavailable
type EntryStore interface {
	Create(ctx context.Context, entry *domain.TimeEntry) error
	Get(ctx context.Context, id string) (*domain.TimeEntry, error)
	// Update applies a partial change; nil values are ignored and
	// sqldb.Delete clears a column.
	Update(ctx context.Context, id string, fields sqldb.Fields) (*domain.TimeEntry, error)
	Delete(ctx context.Context, id string) error

	// ListForUser returns a user's entries in [from, to]; empty bounds are open.
	ListForUser(ctx context.Context, userID, from, to string) ([]domain.TimeEntry, error)
	ListForUserOnDate(ctx context.Context, userID, date string) ([]domain.TimeEntry, error)
	// ListForRange is the admin read across every user.
	ListForRange(ctx context.Context, from, to string) ([]domain.TimeEntry, error)
}

// SessionService handles the clock-in/clock-out lifecycle
type SessionService interface {
	StartSession(ctx context.Context, userID string) (*domain.TimeCardSession, error)
	StopSession(ctx context.Context, userID string) (*domain.TimeEntry, error)
	// GetActiveSession returns nil when the user is not clocked in.
	GetActiveSession(ctx context.Context, userID string) (*domain.TimeCardSession, error)
	ListActiveSessions(ctx context.Context) ([]domain.TimeCardSession, error)
}

// EntryService handles manual entries, edits and the admin correction path
type EntryService interface {
	CreateManualEntry(ctx context.Context, req ManualEntryRequest) (*domain.TimeEntry, error)
	GetEntry(ctx context.Context, id string) (*domain.TimeEntry, error)
	ListEntries(ctx context.Context, userID, from, to string) ([]domain.TimeEntry, error)
	ListEntriesForDate(ctx context.Context, userID, date string) ([]domain.TimeEntry, error)
	ListAllEntries(ctx context.Context, from, to string) ([]domain.TimeEntry, error)

	// UpdateEntry is the staff self-service edit: owner only, overlap checked.
	UpdateEntry(ctx context.Context, userID, entryID string, update domain.EntryUpdate) (*domain.TimeEntry, error)
	// UpdateEntryAsAdmin stamps updatedBy and does not veto on overlap.
	UpdateEntryAsAdmin(ctx context.Context, entryID string, update domain.EntryUpdate, adminID string) (*domain.TimeEntry, error)

	DeleteEntry(ctx context.Context, userID, entryID string) error
	DeleteEntryAsAdmin(ctx context.Context, entryID, adminID string) error
}

// StatsService computes rolling totals
type StatsService interface {
	GetStats(ctx context.Context, userID string) (*domain.TimeTrackingStats, error)
}

// ReportService assembles monthly reports
type ReportService interface {
	GetMonthlyReport(ctx context.Context, userID, userName, month string, year int) (*domain.MonthlyReport, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	EntryStore     EntryStore
	SessionService SessionService
	EntryService   EntryService
	StatsService   StatsService
	ReportService  ReportService
}
