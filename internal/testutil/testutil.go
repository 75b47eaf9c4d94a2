// Package testutil provides in-memory SQLite fixtures for tracking tests.
package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// Schemas is the DDL for the tracking service's tables, mirrored from the
// production migrations.
var Schemas = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_number TEXT NOT NULL UNIQUE,
		client_name TEXT DEFAULT '',
		ship_schedule TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS tracking_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id INTEGER NOT NULL UNIQUE,
		doors_ordered_at DATETIME, doors_received_at DATETIME, doors_received_incomplete_at DATETIME,
		glass_ordered_at DATETIME, glass_received_at DATETIME, glass_received_incomplete_at DATETIME,
		handles_ordered_at DATETIME, handles_received_at DATETIME, handles_received_incomplete_at DATETIME,
		accessories_ordered_at DATETIME, accessories_received_at DATETIME, accessories_received_incomplete_at DATETIME,
		comments TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (job_id) REFERENCES jobs(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS tracking_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tracking_record_id INTEGER NOT NULL,
		category TEXT NOT NULL CHECK(category IN ('doors','glass','handles','accessories')),
		quantity INTEGER NOT NULL CHECK(quantity >= 1),
		quantity_received INTEGER NOT NULL DEFAULT 0 CHECK(quantity_received >= 0),
		description TEXT DEFAULT '',
		supplier TEXT DEFAULT '',
		po_number TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (tracking_record_id) REFERENCES tracking_records(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT DEFAULT 'system',
		action TEXT NOT NULL,
		category TEXT DEFAULT '',
		record_id INTEGER NOT NULL,
		summary TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

// SetupTestDB creates an in-memory SQLite database with the tracking schema
// and foreign keys enabled.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	CreateTables(t, db)
	return db
}

// SetupSharedTestDB creates a shared-cache WAL database so multiple
// connections see the same data; used by concurrency tests.
func SetupSharedTestDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	dsn := "file:" + name + "?mode=memory&cache=shared&_journal_mode=WAL&_busy_timeout=10000&_foreign_keys=1&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open shared test DB: %v", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0)
	if _, err := db.Exec("PRAGMA busy_timeout=30000"); err != nil {
		t.Fatalf("Failed to set busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	CreateTables(t, db)
	return db
}

// CreateTables applies the tracking schema.
func CreateTables(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, ddl := range Schemas {
		if _, err := db.Exec(ddl); err != nil {
			t.Fatalf("Failed to create table: %v\nSchema: %s", err, ddl)
		}
	}
}

// InsertJob inserts a job row and returns its id.
func InsertJob(t *testing.T, db *sql.DB, jobNumber, clientName string) int64 {
	t.Helper()
	res, err := db.Exec("INSERT INTO jobs (job_number, client_name, ship_schedule) VALUES (?,?,?)",
		jobNumber, clientName, "2026-10-01")
	if err != nil {
		t.Fatalf("Failed to insert job: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

// InsertTrackingRecord inserts an empty tracking record for the job and
// returns its id.
func InsertTrackingRecord(t *testing.T, db *sql.DB, jobID int64) int64 {
	t.Helper()
	res, err := db.Exec("INSERT INTO tracking_records (job_id, comments) VALUES (?, '')", jobID)
	if err != nil {
		t.Fatalf("Failed to insert tracking record: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

// SeedJobWithRecord inserts a job plus its tracking record and returns the
// tracking record id.
func SeedJobWithRecord(t *testing.T, db *sql.DB, jobNumber string) int64 {
	t.Helper()
	jobID := InsertJob(t, db, jobNumber, "Test Client")
	return InsertTrackingRecord(t, db, jobID)
}

// InsertItem inserts a line item directly and returns its id.
func InsertItem(t *testing.T, db *sql.DB, recordID int64, category string, qty, recv int, description string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO tracking_items (tracking_record_id, category, quantity, quantity_received, description)
		VALUES (?,?,?,?,?)`, recordID, category, qty, recv, description)
	if err != nil {
		t.Fatalf("Failed to insert item: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}
