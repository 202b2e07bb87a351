package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nextgenacademy/internal/database"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "academy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	fsys, err := db.Migrations("")
	require.NoError(t, err)
	_, err = db.RunMigrations(ctx, fsys, zap.NewNop())
	require.NoError(t, err)
	return db
}
