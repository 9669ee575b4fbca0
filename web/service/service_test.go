package service

import (
	"path/filepath"
	"testing"

	"authgate/database"

	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.InitDB(dbPath))
	t.Cleanup(func() {
		_ = database.CloseDB()
	})
}
