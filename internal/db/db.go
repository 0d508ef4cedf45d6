// ABOUTME: Database connection and initialization
// ABOUTME: Handles SQLite setup, pragmas and schema versioning
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var (
	// ErrStorageUnavailable means the database could not be opened or initialized.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrWriteFailure means a write was rolled back and left no visible change.
	ErrWriteFailure = errors.New("write failure")
)

// InitDB opens the database at the given path and brings the schema to SchemaVersion.
// The returned bool reports whether an existing schema was discarded.
func InitDB(dbPath string) (*sql.DB, bool, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil { //nolint:gosec // Standard directory permissions for user data
		return nil, false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	// Pragmas go into the DSN so every pooled connection gets them
	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	reset, err := migrate(db)
	if err != nil {
		_ = db.Close()
		return nil, false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return db, reset, nil
}
