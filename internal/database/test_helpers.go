package database

import (
	"path/filepath"
	"testing"
)

// SetupTestDB opens a throwaway sqlite database with the full schema.
func SetupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vidmark_test.db")
	db, err := NewDB(Config{Type: "sqlite", SQLitePath: path})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	cleanup := func() {
		db.Close()
	}
	return db, cleanup
}
