package postgres_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triance/backend/internal/config"
	"triance/backend/internal/repository/postgres"
	"triance/backend/internal/testutil"
)

func TestSQLiteForeignKeysOnEveryConnection(t *testing.T) {
	for _, dsn := range []string{
		filepath.Join(t.TempDir(), "plain.db"),
		"file:" + filepath.Join(t.TempDir(), "query.db") + "?_busy_timeout=5000",
	} {
		db, err := postgres.Connect(config.DriverSQLite, dsn, testutil.Logger(t))
		require.NoError(t, err)
		require.NoError(t, postgres.Migrate(db))

		sqlDB, err := db.DB()
		require.NoError(t, err)
		t.Cleanup(func() { _ = sqlDB.Close() })
		// Every query below gets a connection the pool has never handed out.
		sqlDB.SetMaxIdleConns(0)

		for i := 0; i < 3; i++ {
			var enabled int
			require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
			assert.Equal(t, 1, enabled, "%s: query %d", dsn, i)
		}
		assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	}
}
