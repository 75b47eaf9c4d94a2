package models

// APIResponse is the standard envelope for all JSON responses.
type APIResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Job is supplied by the job/sales registry. The tracking service reads it
// for display only and never mutates it.
type Job struct {
	ID           int64  `json:"id"`
	JobNumber    string `json:"job_number"`
	ClientName   string `json:"client_name"`
	ShipSchedule string `json:"ship_schedule"`
	CreatedAt    string `json:"created_at"`
}

// CategoryState is one procurement category's lifecycle timestamps plus the
// status derived from them. Timestamps are nil when unset.
type CategoryState struct {
	OrderedAt            *string `json:"ordered_at"`
	ReceivedAt           *string `json:"received_at"`
	ReceivedIncompleteAt *string `json:"received_incomplete_at"`
	Status               string  `json:"status"`
}

// TrackingRecord is the per-job purchase tracking header: one CategoryState
// per procurement category plus the shared free-text journal.
type TrackingRecord struct {
	ID         int64                    `json:"id"`
	JobID      int64                    `json:"job_id"`
	Categories map[string]CategoryState `json:"categories"`
	Comments   string                   `json:"comments"`
	Journal    []JournalEntry           `json:"journal"`
	CreatedAt  string                   `json:"created_at"`
	UpdatedAt  string                   `json:"updated_at"`
}

// LineItem is one ordered part row for a (tracking record, category) pair.
// IsReceived is computed from the quantities on read, never stored.
type LineItem struct {
	ID               int64  `json:"id"`
	TrackingRecordID int64  `json:"tracking_record_id"`
	Category         string `json:"category"`
	Quantity         int    `json:"quantity"`
	QuantityReceived int    `json:"quantity_received"`
	Description      string `json:"description"`
	Supplier         string `json:"supplier"`
	PONumber         string `json:"po_number"`
	IsReceived       bool   `json:"is_received"`
}

// JournalEntry is one parsed line of a tracking record's journal.
type JournalEntry struct {
	At      string `json:"at"`
	Message string `json:"message"`
}

// JobTracking is the dashboard list row: job identity plus the derived
// status of every category.
type JobTracking struct {
	Job
	TrackingID int64             `json:"tracking_id"`
	Statuses   map[string]string `json:"statuses"`
}

// AuditEntry is one row of the operational audit log. This is the service's
// own who-did-what trail, separate from each record's journal.
type AuditEntry struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Action    string `json:"action"`
	Category  string `json:"category"`
	RecordID  int64  `json:"record_id"`
	Summary   string `json:"summary"`
	CreatedAt string `json:"created_at"`
}
