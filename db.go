package main

import (
	"database/sql"
	"fmt"
	"time"

	"cabops/internal/database"
)

var db *sql.DB

func initDB(path string) error {
	// Close previous connection if any (prevents goroutine leaks in tests)
	if db != nil {
		db.Close()
	}
	var err error
	db, err = database.Open(path)
	if err != nil {
		return err
	}
	return runMigrations()
}

func runMigrations() error {
	tables := []string{
		// Job registry rows are provisioned by the sales side of the
		// dashboard; this service only reads them.
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
	for _, t := range tables {
		if _, err := db.Exec(t); err != nil {
			return fmt.Errorf("migration error: %w\nSQL: %s", err, t)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_tracking_records_job_id ON tracking_records(job_id)",
		"CREATE INDEX IF NOT EXISTS idx_tracking_items_record_category ON tracking_items(tracking_record_id, category)",
		"CREATE INDEX IF NOT EXISTS idx_audit_log_record_id ON audit_log(record_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_log_created_at ON audit_log(created_at)",
		"CREATE INDEX IF NOT EXISTS idx_audit_log_category ON audit_log(category)",
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("index creation: %w\nSQL: %s", err, idx)
		}
	}
	return nil
}

func seedDB() {
	var count int
	db.QueryRow("SELECT COUNT(*) FROM jobs").Scan(&count)
	if count > 0 {
		return
	}

	now := time.Now().Format("2006-01-02 15:04:05")
	year := time.Now().Format("2006")

	jobs := []struct {
		number, client, ship string
	}{
		{"J-" + year + "-0101", "Harborview Builders", "2026-09-15"},
		{"J-" + year + "-0102", "Mendez Kitchen & Bath", "2026-09-29"},
		{"J-" + year + "-0103", "Lakeside Custom Homes", "2026-10-20"},
	}
	for _, j := range jobs {
		res, err := db.Exec("INSERT INTO jobs (job_number, client_name, ship_schedule, created_at) VALUES (?,?,?,?)",
			j.number, j.client, j.ship, now)
		if err != nil {
			continue
		}
		jobID, _ := res.LastInsertId()
		db.Exec("INSERT INTO tracking_records (job_id, comments, created_at, updated_at) VALUES (?, '', ?, ?)",
			jobID, now, now)
	}
}
