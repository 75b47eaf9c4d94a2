// Package audit writes the service's operational audit trail: one audit_log
// row per state-changing request, recording who triggered which operation on
// which tracking record. This is separate from the per-record journal, which
// belongs to the tracking data itself.
package audit

import (
	"database/sql"
	"log"
	"net/http"
	"strings"

	"cabops/internal/models"
	"cabops/internal/websocket"
)

// Action constants.
const (
	ActionOrder            = "ORDER"
	ActionReceive          = "RECEIVE"
	ActionReconcile        = "RECONCILE"
	ActionClear            = "CLEAR"
	ActionJournalOverwrite = "JOURNAL_OVERWRITE"
	ActionExport           = "EXPORT"
)

// Log records an audit entry and notifies connected dashboard clients.
// Audit failures are logged but never fail the operation that triggered them.
func Log(db *sql.DB, hub *websocket.Hub, username, action, category string, recordID int64, summary string) {
	_, err := db.Exec("INSERT INTO audit_log (username, action, category, record_id, summary) VALUES (?, ?, ?, ?, ?)",
		username, action, category, recordID, summary)
	if err != nil {
		log.Printf("audit log error: %v", err)
	}
	if hub != nil {
		hub.Broadcast(websocket.Event{
			Type:       "audit_" + strings.ToLower(action),
			TrackingID: recordID,
			Category:   category,
		})
	}
}

// Operator extracts the acting operator's name from the request. The
// dashboard sends it in a header; auth itself lives outside this service.
func Operator(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("X-Operator")); v != "" {
		return v
	}
	return "system"
}

// Recent returns up to limit audit entries, newest first, optionally
// filtered by category.
func Recent(db *sql.DB, category string, limit int) ([]models.AuditEntry, error) {
	query := `SELECT id, username, action, category, record_id, COALESCE(summary,''), created_at FROM audit_log`
	var args []interface{}
	if category != "" {
		query += " WHERE category = ?"
		args = append(args, category)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Action, &e.Category, &e.RecordID, &e.Summary, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
