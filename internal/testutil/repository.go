package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"timecard/internal/repository/sqldb"
)

// NewRepository opens a migrated in-memory SQLite repository that assigns
// ids from gen and closes with the test.
func NewRepository(t *testing.T, gen *StubIDGenerator) *sqldb.SQLRepository {
	t.Helper()

	repo, err := sqldb.New(":memory:", sqldb.WithIDGenerator(gen.New))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo
}
