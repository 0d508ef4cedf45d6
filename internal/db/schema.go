// ABOUTME: Database schema definitions
// ABOUTME: SQL for the symptom entry table and its indexes
package db

// SchemaVersion is stored in PRAGMA user_version. A database carrying any other
// version is reset empty on open.
const SchemaVersion = 3

const schema = `
CREATE TABLE IF NOT EXISTS symptom_entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    severity INTEGER NOT NULL,
    pain_type TEXT NOT NULL,
    pain_type_other TEXT,
    date_time_millis INTEGER NOT NULL,
    medication TEXT NOT NULL DEFAULT '',
    dosage TEXT,
    trigger_text TEXT NOT NULL DEFAULT '',
    note TEXT NOT NULL DEFAULT '',
    heart_rate INTEGER,
    blood_pressure TEXT,
    body_part TEXT,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_date_time ON symptom_entries(date_time_millis DESC, id);
CREATE INDEX IF NOT EXISTS idx_entries_body_part ON symptom_entries(body_part);
CREATE INDEX IF NOT EXISTS idx_entries_medication ON symptom_entries(medication, dosage);
`

const dropSchema = `
DROP INDEX IF EXISTS idx_entries_date_time;
DROP INDEX IF EXISTS idx_entries_body_part;
DROP INDEX IF EXISTS idx_entries_medication;
DROP TABLE IF EXISTS symptom_entries;
`
