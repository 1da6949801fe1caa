package services

import (
	"timecard/internal/config"
	"timecard/internal/logging"
	"timecard/internal/repository/sqldb"
	"timecard/internal/validation"
)

// Options tunes NewServiceContainer. Zero values fall back to the real
// clock, a discarding logger and default validation limits.
type Options struct {
	Clock  Clock
	Logger logging.Logger
	Config *config.Config
}

// NewServiceContainer wires every service over one repository
func NewServiceContainer(repo sqldb.Repository, opts Options) *ServiceContainer {
	clock := opts.Clock
	if clock == nil {
		clock = RealClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	validator := validation.NewTimeEntryValidator()
	if opts.Config != nil {
		validator = validation.NewTimeEntryValidatorWithConfig(opts.Config)
	}

	store := NewEntryStore(repo, clock, logger)
	sessions := NewSessionService(repo, validator, clock, logger)

	return &ServiceContainer{
		EntryStore:     store,
		SessionService: sessions,
		EntryService:   NewEntryService(store, validator, clock, logger),
		StatsService:   NewStatsService(store, sessions, clock, validator),
		ReportService:  NewReportService(store, clock, validator),
	}
}
