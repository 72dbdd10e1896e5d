package testutil

import (
	"sync"
	"testing"

	"gorm.io/gorm"

	"triance/backend/internal/config"
	"triance/backend/internal/logger"
	"triance/backend/internal/repository"
	"triance/backend/internal/repository/postgres"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB opens a private in-memory sqlite database with the full schema. It is
// closed when the test ends.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := postgres.Connect(config.DriverSQLite, "file::memory:", Logger(tb))
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	if err := postgres.Migrate(db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Store returns every GORM repository over a fresh test database.
func Store(tb testing.TB) repository.Store {
	tb.Helper()
	return postgres.NewStore(DB(tb), Logger(tb))
}
