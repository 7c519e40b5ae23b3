// Package tester sets up the databases and collaborators used by tests.
package tester

import (
	"path/filepath"
	"testing"

	"github.com/emrgen/notes/internal/model"
	"github.com/emrgen/notes/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Setup opens a fresh sqlite database in the test's temp dir and migrates it.
func Setup(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "notes.db")
	// the vault watcher and the jobs write from their own goroutines
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000&_journal_mode=WAL"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := model.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// Store returns a GormStore over a fresh test database.
func Store(t testing.TB) *store.GormStore {
	t.Helper()
	return store.NewGormStore(Setup(t))
}
