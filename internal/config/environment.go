package config

import (
	"fmt"
	"os"

	"timecard/internal/repository/sqldb"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// GetEnvironment reads TC_ENV, defaulting to production.
func GetEnvironment() Environment {
	switch Environment(os.Getenv("TC_ENV")) {
	case Development:
		return Development
	case Testing:
		return Testing
	default:
		return Production
	}
}

// RepositoryFactory creates repository instances based on environment
type RepositoryFactory struct {
	env    Environment
	config *Config
}

// NewRepositoryFactory creates a new repository factory for the given environment
func NewRepositoryFactory(env Environment, config *Config) *RepositoryFactory {
	return &RepositoryFactory{env: env, config: config}
}

// CreateRepository creates a repository instance based on the current environment.
// Development uses timecard.db in the working directory, testing an
// in-memory database and production the configured store.
func (rf *RepositoryFactory) CreateRepository() (sqldb.Repository, error) {
	switch rf.env {
	case Development:
		repo, err := sqldb.New("timecard.db")
		if err != nil {
			return nil, fmt.Errorf("failed to initialize development database: %w", err)
		}
		return repo, nil
	case Testing:
		return CreateTestRepository()
	default:
		return CreateRepository(rf.config)
	}
}
