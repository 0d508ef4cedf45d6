// ABOUTME: Schema versioning with destructive migration
// ABOUTME: Drops and recreates the entry table when the stored version differs
package db

import (
	"database/sql"
	"fmt"
)

// schemaVersion reads PRAGMA user_version.
func schemaVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}
	return version, nil
}

// hasEntriesTable reports whether a symptom_entries table exists already.
func hasEntriesTable(db *sql.DB) (bool, error) {
	var name string
	err := db.QueryRow(`
		SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'symptom_entries'
	`).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check entries table: %w", err)
	}
	return true, nil
}

// migrate creates the schema on a fresh database. When the stored version is not
// SchemaVersion the old data is dropped, there is no upgrade path between versions.
func migrate(db *sql.DB) (bool, error) {
	version, err := schemaVersion(db)
	if err != nil {
		return false, err
	}
	if version == SchemaVersion {
		// Idempotent, picks up indexes added without a version bump
		if _, err := db.Exec(schema); err != nil {
			return false, fmt.Errorf("apply schema: %w", err)
		}
		return false, nil
	}

	exists, err := hasEntriesTable(db)
	if err != nil {
		return false, err
	}

	tx, err := db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if exists {
		if _, err := tx.Exec(dropSchema); err != nil {
			return false, fmt.Errorf("drop old schema: %w", err)
		}
	}
	if _, err := tx.Exec(schema); err != nil {
		return false, fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		return false, fmt.Errorf("set user_version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit migration: %w", err)
	}

	return exists, nil
}
