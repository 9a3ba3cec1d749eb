package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupTestDB returns a migrated in-memory comment database private to t.
// Its name comes from t.Name(), so parallel tests never share rows.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := openPools(context.Background(), buildDSN(t.Name(), true))
	require.NoError(t, err, "open in-memory comment database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.migrate(), "migrate in-memory comment database")

	return db
}
