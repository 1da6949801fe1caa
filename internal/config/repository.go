package config

import (
	"fmt"
	"os"

	apperrors "timecard/internal/errors"
	"timecard/internal/repository/sqldb"
)

// CreateRepository creates a repository instance using the configuration system
func CreateRepository(config *Config) (sqldb.Repository, error) {
	dialect, ok := sqldb.DialectByName(config.Database.Driver)
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	opts := []sqldb.Option{
		sqldb.WithQueryTimeout(config.GetQueryTimeout()),
		sqldb.WithWriteTimeout(config.GetWriteTimeout()),
	}

	if dialect == sqldb.Postgres {
		repo, err := sqldb.NewPostgres(config.Database.DSN, opts...)
		if err != nil {
			return nil, apperrors.WrapError(err, apperrors.ErrorTypeDatabase, "failed to initialize database")
		}
		return repo, nil
	}

	dbPath := config.Database.DSN
	if dbPath == "" {
		if err := os.MkdirAll(config.Database.Dir, os.FileMode(config.Database.DirPermissions)); err != nil {
			return nil, apperrors.WrapError(err, apperrors.ErrorTypeDatabase, "failed to create database directory")
		}
		dbPath = config.GetDatabasePath()
	}

	repo, err := sqldb.New(dbPath, opts...)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorTypeDatabase, "failed to initialize database")
	}

	return repo, nil
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (sqldb.Repository, error) {
	repo, err := sqldb.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}

	return repo, nil
}
