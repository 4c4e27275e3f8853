package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dfarias/linguaflash/internal/authz"
	"github.com/dfarias/linguaflash/internal/db"
	"github.com/dfarias/linguaflash/internal/repository/sqlite"
)

// NewTestDB creates an in-memory SQLite database with the full migration
// log applied, including seed data and access policies.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	return database
}

// NewTestEngine builds an authorization engine from the policies the
// migration log seeded into the given database.
func NewTestEngine(t *testing.T, database *db.DB) *authz.Engine {
	t.Helper()
	policies, err := sqlite.NewPolicyRepository(database.DB).List(context.Background())
	require.NoError(t, err)
	engine, err := authz.NewEngine(policies)
	require.NoError(t, err)
	return engine
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	t.Helper()
	require.NoError(t, closer.Close())
}
