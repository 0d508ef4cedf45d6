// ABOUTME: Symptom entry persistence and known-value queries
// ABOUTME: Inserts, deletes, ordered listing and distinct value projections
package db

import (
	"context"
	"database/sql"
	"fmt"
)

// PainTypeOther is the pain type recorded when the user describes the pain in free text.
const PainTypeOther = "Sonstige"

// PainTypes are the fixed pain descriptions offered for quick selection.
var PainTypes = []string{"Stechend", "Dumpf", "Pochend", "Brennend"}

// Entry is one recorded symptom episode.
type Entry struct {
	ID             int64   `json:"id" yaml:"id"`
	Severity       int     `json:"severity" yaml:"severity"`
	PainType       string  `json:"pain_type" yaml:"pain_type"`
	PainTypeOther  *string `json:"pain_type_other,omitempty" yaml:"pain_type_other,omitempty"`
	DateTimeMillis int64   `json:"date_time_millis" yaml:"date_time_millis"`
	Medication     string  `json:"medication" yaml:"medication"`
	Dosage         *string `json:"dosage,omitempty" yaml:"dosage,omitempty"`
	Trigger        string  `json:"trigger" yaml:"trigger"`
	Note           string  `json:"note" yaml:"note"`
	HeartRate      *int    `json:"heart_rate,omitempty" yaml:"heart_rate,omitempty"`
	BloodPressure  *string `json:"blood_pressure,omitempty" yaml:"blood_pressure,omitempty"`
	BodyPart       *string `json:"body_part,omitempty" yaml:"body_part,omitempty"`
	CreatedAt      int64   `json:"created_at" yaml:"created_at"`
}

// Field names an entry column a bulk delete can match on.
type Field string

const (
	FieldBodyPart   Field = "body_part"
	FieldMedication Field = "medication"
)

// column returns the SQL column for f, rejecting anything outside the closed set.
func (f Field) column() (string, error) {
	switch f {
	case FieldBodyPart, FieldMedication:
		return string(f), nil
	default:
		return "", fmt.Errorf("unsupported field %q", string(f))
	}
}

const entryColumns = `id, severity, pain_type, pain_type_other, date_time_millis, medication,
	dosage, trigger_text, note, heart_rate, blood_pressure, body_part, created_at`

// InsertEntry stores entry with the given creation time and returns its new ID.
// Any ID already set on entry is ignored.
func InsertEntry(ctx context.Context, db *sql.DB, entry Entry, createdAt int64) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin insert: %v", ErrWriteFailure, err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO symptom_entries (severity, pain_type, pain_type_other, date_time_millis,
			medication, dosage, trigger_text, note, heart_rate, blood_pressure, body_part, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Severity, entry.PainType, nullString(entry.PainTypeOther), entry.DateTimeMillis,
		entry.Medication, nullString(entry.Dosage), entry.Trigger, entry.Note,
		nullInt(entry.HeartRate), nullString(entry.BloodPressure), nullString(entry.BodyPart), createdAt,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: insert entry: %v", ErrWriteFailure, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: insert entry: %v", ErrWriteFailure, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit insert: %v", ErrWriteFailure, err)
	}

	return id, nil
}

// DeleteEntry removes the entry with the given ID. Unknown IDs are not an error.
func DeleteEntry(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%w: begin delete: %v", ErrWriteFailure, err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, "DELETE FROM symptom_entries WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("%w: delete entry %d: %v", ErrWriteFailure, id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: delete entry %d: %v", ErrWriteFailure, id, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%w: commit delete: %v", ErrWriteFailure, err)
	}

	return affected > 0, nil
}

// DeleteEntriesWhere removes every entry whose field equals value, in one transaction.
func DeleteEntriesWhere(ctx context.Context, db *sql.DB, field Field, value string) (int64, error) {
	column, err := field.column()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin bulk delete: %v", ErrWriteFailure, err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, "DELETE FROM symptom_entries WHERE "+column+" = ?", value)
	if err != nil {
		return 0, fmt.Errorf("%w: delete by %s: %v", ErrWriteFailure, column, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: delete by %s: %v", ErrWriteFailure, column, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit bulk delete: %v", ErrWriteFailure, err)
	}

	return affected, nil
}

// ListEntries returns every entry, latest event first. Entries sharing an event
// time keep their insertion order.
func ListEntries(ctx context.Context, db *sql.DB) ([]Entry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM symptom_entries
		ORDER BY date_time_millis DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list entries: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return entries, nil
}

// GetEntry returns a single entry. found is false when no entry has that ID.
func GetEntry(ctx context.Context, db *sql.DB, id int64) (Entry, bool, error) {
	row := db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM symptom_entries WHERE id = ?", id)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("get entry %d: %w", id, err)
	}
	return entry, true, nil
}

// CountEntries returns the number of stored entries.
func CountEntries(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM symptom_entries").Scan(&count); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return count, nil
}

// DistinctBodyParts returns every non-empty body part in use.
func DistinctBodyParts(ctx context.Context, db *sql.DB) ([]string, error) {
	return queryStrings(ctx, db, `
		SELECT DISTINCT body_part FROM symptom_entries
		WHERE body_part IS NOT NULL AND body_part != ''
		ORDER BY body_part
	`)
}

// DistinctMedications returns every non-empty medication in use.
func DistinctMedications(ctx context.Context, db *sql.DB) ([]string, error) {
	return queryStrings(ctx, db, `
		SELECT DISTINCT medication FROM symptom_entries
		WHERE medication != ''
		ORDER BY medication
	`)
}

// DosagesForMedication returns the non-empty dosages recorded together with exactly
// this medication. An empty medication never has dosages.
func DosagesForMedication(ctx context.Context, db *sql.DB, medication string) ([]string, error) {
	if medication == "" {
		return []string{}, nil
	}
	return queryStrings(ctx, db, `
		SELECT DISTINCT dosage FROM symptom_entries
		WHERE medication = ? AND dosage IS NOT NULL AND dosage != ''
		ORDER BY dosage
	`, medication)
}

func queryStrings(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query known values: %w", err)
	}
	defer func() { _ = rows.Close() }()

	values := make([]string, 0)
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan known value: %w", err)
		}
		values = append(values, value)
	}

	return values, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var entry Entry
	var painTypeOther, dosage, bloodPressure, bodyPart sql.NullString
	var heartRate sql.NullInt64
	err := s.Scan(&entry.ID, &entry.Severity, &entry.PainType, &painTypeOther, &entry.DateTimeMillis,
		&entry.Medication, &dosage, &entry.Trigger, &entry.Note, &heartRate, &bloodPressure,
		&bodyPart, &entry.CreatedAt)
	if err != nil {
		return Entry{}, err
	}

	entry.PainTypeOther = stringPtr(painTypeOther)
	entry.Dosage = stringPtr(dosage)
	entry.BloodPressure = stringPtr(bloodPressure)
	entry.BodyPart = stringPtr(bodyPart)
	if heartRate.Valid {
		hr := int(heartRate.Int64)
		entry.HeartRate = &hr
	}

	return entry, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
