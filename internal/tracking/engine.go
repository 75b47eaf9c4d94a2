// Package tracking implements purchase-order tracking and reconciliation for
// cabinet jobs: four procurement categories per job move through an
// order→receive lifecycle driven by line-item quantities, with every
// transition appended to the record's journal.
package tracking

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cabops/internal/database"
	"cabops/internal/models"
)

const timeFormat = "2006-01-02 15:04:05"

// Engine executes the state-changing tracking operations. Every operation
// runs as one immediate transaction: item writes, timestamp updates, and the
// journal line commit together or not at all. There is no version check, so
// concurrent edits to the same category are last-writer-wins.
type Engine struct {
	DB *sql.DB

	// Now returns the current time; overridable in tests.
	Now func() time.Time
}

// NewEngine creates an Engine over the given database.
func NewEngine(db *sql.DB) *Engine {
	return &Engine{DB: db, Now: time.Now}
}

// ItemUpdate sets a new received quantity on one existing line item.
type ItemUpdate struct {
	ID               int64 `json:"id"`
	QuantityReceived int   `json:"quantity_received"`
}

// categoryState is one category's row slice of tracking_records plus the
// shared journal, as read inside a transaction.
type categoryState struct {
	orderedAt            *string
	receivedAt           *string
	receivedIncompleteAt *string
	comments             string
}

func (s *categoryState) status() Status {
	return DeriveStatus(s.orderedAt, s.receivedAt, s.receivedIncompleteAt)
}

// loadCategory reads a category's timestamps and the journal. The category
// name is interpolated into column names and must be validated before this
// is called.
func loadCategory(tx *sql.Tx, recordID int64, category string) (*categoryState, error) {
	q := fmt.Sprintf(`SELECT %[1]s_ordered_at, %[1]s_received_at, %[1]s_received_incomplete_at, COALESCE(comments,'')
		FROM tracking_records WHERE id=?`, category)
	var ordered, received, incomplete sql.NullString
	var st categoryState
	err := tx.QueryRow(q, recordID).Scan(&ordered, &received, &incomplete, &st.comments)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: tracking record %d", ErrNotFound, recordID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load record %d: %v", ErrPersistence, recordID, err)
	}
	st.orderedAt = database.SP(ordered)
	st.receivedAt = database.SP(received)
	st.receivedIncompleteAt = database.SP(incomplete)
	return &st, nil
}

// saveCategory writes a category's timestamps and the journal back.
func saveCategory(tx *sql.Tx, recordID int64, category string, st *categoryState, now time.Time) error {
	q := fmt.Sprintf(`UPDATE tracking_records SET %[1]s_ordered_at=?, %[1]s_received_at=?, %[1]s_received_incomplete_at=?, comments=?, updated_at=? WHERE id=?`, category)
	_, err := tx.Exec(q,
		database.NS(st.orderedAt), database.NS(st.receivedAt), database.NS(st.receivedIncompleteAt),
		st.comments, now.Format(timeFormat), recordID)
	if err != nil {
		return fmt.Errorf("%w: update record %d: %v", ErrPersistence, recordID, err)
	}
	return nil
}

// journal appends one formatted line to the state's journal text.
func (s *categoryState) journal(message string, at time.Time) {
	s.comments = AppendJournalLine(s.comments, FormatJournalLine(message, at))
}

// countReceipt reports the category's item count and how many of those
// items are fully received.
func countReceipt(tx *sql.Tx, recordID int64, category string) (total, received int, err error) {
	err = tx.QueryRow(`SELECT COUNT(*), COALESCE(SUM(CASE WHEN quantity_received >= quantity THEN 1 ELSE 0 END), 0)
		FROM tracking_items WHERE tracking_record_id=? AND category=?`, recordID, category).Scan(&total, &received)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: count items: %v", ErrPersistence, err)
	}
	return total, received, nil
}

func (e *Engine) begin() (*sql.Tx, error) {
	tx, err := e.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", ErrPersistence, err)
	}
	return tx, nil
}

func commit(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrPersistence, err)
	}
	return nil
}

// GetItems returns the category's current line items, oldest first.
func (e *Engine) GetItems(recordID int64, category string) ([]models.LineItem, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	var exists int
	err := e.DB.QueryRow("SELECT COUNT(*) FROM tracking_records WHERE id=?", recordID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: check record %d: %v", ErrPersistence, recordID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: tracking record %d", ErrNotFound, recordID)
	}

	rows, err := e.DB.Query(`SELECT id, tracking_record_id, category, quantity, quantity_received,
		COALESCE(description,''), COALESCE(supplier,''), COALESCE(po_number,'')
		FROM tracking_items WHERE tracking_record_id=? AND category=? ORDER BY id`, recordID, category)
	if err != nil {
		return nil, fmt.Errorf("%w: list items: %v", ErrPersistence, err)
	}
	defer rows.Close()

	items := []models.LineItem{}
	for rows.Next() {
		var it models.LineItem
		if err := rows.Scan(&it.ID, &it.TrackingRecordID, &it.Category, &it.Quantity, &it.QuantityReceived,
			&it.Description, &it.Supplier, &it.PONumber); err != nil {
			return nil, fmt.Errorf("%w: scan item: %v", ErrPersistence, err)
		}
		it.IsReceived = it.QuantityReceived >= it.Quantity
		items = append(items, it)
	}
	return items, rows.Err()
}

// PlaceOrEditOrder atomically replaces the category's line items with the
// given set and stamps the category as ordered. An empty set is a no-op
// order, not an error. Receipt is never implied: even an all-received input
// waits for an explicit MarkFullyReceived. If the replacement breaks a
// previously complete receipt, the category is demoted to incomplete.
func (e *Engine) PlaceOrEditOrder(recordID int64, category string, items []models.LineItem) (Status, error) {
	if err := checkCategory(category); err != nil {
		return "", err
	}
	for i, it := range items {
		if it.Quantity < 1 {
			return "", fmt.Errorf("%w: items[%d].quantity must be at least 1", ErrInvalidInput, i)
		}
		if it.QuantityReceived < 0 {
			return "", fmt.Errorf("%w: items[%d].quantity_received must be non-negative", ErrInvalidInput, i)
		}
	}

	tx, err := e.begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	st, err := loadCategory(tx, recordID, category)
	if err != nil {
		return "", err
	}
	prior := st.status()

	// Full replace: the old set is discarded, never merged.
	if _, err := tx.Exec("DELETE FROM tracking_items WHERE tracking_record_id=? AND category=?", recordID, category); err != nil {
		return "", fmt.Errorf("%w: clear items: %v", ErrPersistence, err)
	}
	allReceived := len(items) > 0
	now := e.Now()
	for _, it := range items {
		po := it.PONumber
		if !AllowsPONumber(category) {
			po = ""
		}
		if _, err := tx.Exec(`INSERT INTO tracking_items (tracking_record_id, category, quantity, quantity_received, description, supplier, po_number, created_at)
			VALUES (?,?,?,?,?,?,?,?)`,
			recordID, category, it.Quantity, it.QuantityReceived, it.Description, it.Supplier, po, now.Format(timeFormat)); err != nil {
			return "", fmt.Errorf("%w: insert item: %v", ErrPersistence, err)
		}
		if it.QuantityReceived < it.Quantity {
			allReceived = false
		}
	}

	nowStr := now.Format(timeFormat)
	st.orderedAt = &nowStr
	if !allReceived && prior == StatusReceivedComplete {
		st.receivedAt = nil
		incomplete := nowStr
		st.receivedIncompleteAt = &incomplete
		st.journal(categoryLabel(category)+" Updated: New parts added, status changed to Incomplete.", now)
	} else {
		st.journal(categoryLabel(category)+" Order Details Updated", now)
	}

	if err := saveCategory(tx, recordID, category, st, now); err != nil {
		return "", err
	}
	if err := commit(tx); err != nil {
		return "", err
	}
	return st.status(), nil
}

// MarkFullyReceived force-completes the category's receipt: every line item
// is bumped to its ordered quantity regardless of what operators have logged
// so far. Only valid once the category has been ordered.
func (e *Engine) MarkFullyReceived(recordID int64, category string) (Status, error) {
	if err := checkCategory(category); err != nil {
		return "", err
	}

	tx, err := e.begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	st, err := loadCategory(tx, recordID, category)
	if err != nil {
		return "", err
	}
	if st.status() == StatusNotOrdered {
		return "", fmt.Errorf("%w: %s is not ordered", ErrInvalidTransition, category)
	}

	if _, err := tx.Exec("UPDATE tracking_items SET quantity_received=quantity WHERE tracking_record_id=? AND category=?", recordID, category); err != nil {
		return "", fmt.Errorf("%w: mark items received: %v", ErrPersistence, err)
	}

	now := e.Now()
	nowStr := now.Format(timeFormat)
	st.receivedAt = &nowStr
	st.receivedIncompleteAt = nil
	st.journal(categoryLabel(category)+" Marked Fully Received", now)

	if err := saveCategory(tx, recordID, category, st, now); err != nil {
		return "", err
	}
	if err := commit(tx); err != nil {
		return "", err
	}
	return st.status(), nil
}

// ReconcilePartialReceipt applies per-item received quantities in place,
// then recomputes completeness over the category's full item set. Complete
// receipts upgrade the status; anything short logs a partial receipt.
func (e *Engine) ReconcilePartialReceipt(recordID int64, category string, updates []ItemUpdate, note string) (Status, error) {
	if err := checkCategory(category); err != nil {
		return "", err
	}
	for i, u := range updates {
		if u.QuantityReceived < 0 {
			return "", fmt.Errorf("%w: updates[%d].quantity_received must be non-negative", ErrInvalidInput, i)
		}
	}

	tx, err := e.begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	st, err := loadCategory(tx, recordID, category)
	if err != nil {
		return "", err
	}
	if st.status() == StatusNotOrdered {
		return "", fmt.Errorf("%w: %s is not ordered", ErrInvalidTransition, category)
	}

	for _, u := range updates {
		res, err := tx.Exec("UPDATE tracking_items SET quantity_received=? WHERE id=? AND tracking_record_id=? AND category=?",
			u.QuantityReceived, u.ID, recordID, category)
		if err != nil {
			return "", fmt.Errorf("%w: update item %d: %v", ErrPersistence, u.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return "", fmt.Errorf("%w: line item %d", ErrNotFound, u.ID)
		}
	}

	total, received, err := countReceipt(tx, recordID, category)
	if err != nil {
		return "", err
	}
	allReceived := total > 0 && received == total

	now := e.Now()
	nowStr := now.Format(timeFormat)
	if allReceived {
		st.receivedAt = &nowStr
		st.receivedIncompleteAt = nil
		st.journal(categoryLabel(category)+" Status Upgrade: All items received.", now)
	} else {
		st.receivedAt = nil
		st.receivedIncompleteAt = &nowStr
		msg := categoryLabel(category) + " Partial Receipt Logged."
		if note != "" {
			msg += " Note: " + note
		}
		st.journal(msg, now)
	}

	if err := saveCategory(tx, recordID, category, st, now); err != nil {
		return "", err
	}
	if err := commit(tx); err != nil {
		return "", err
	}
	return st.status(), nil
}

// Clear resets the category's lifecycle timestamps to nil. Line items are
// deliberately left in place and will resurface the next time the category's
// order editor loads them.
func (e *Engine) Clear(recordID int64, category string) (Status, error) {
	if err := checkCategory(category); err != nil {
		return "", err
	}

	tx, err := e.begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	st, err := loadCategory(tx, recordID, category)
	if err != nil {
		return "", err
	}

	now := e.Now()
	st.orderedAt = nil
	st.receivedAt = nil
	st.receivedIncompleteAt = nil
	st.journal(categoryLabel(category)+" Status Cleared", now)

	if err := saveCategory(tx, recordID, category, st, now); err != nil {
		return "", err
	}
	if err := commit(tx); err != nil {
		return "", err
	}
	return StatusNotOrdered, nil
}

// OverwriteJournal replaces the record's journal text verbatim. This is the
// escape hatch for correcting mistakes; it bypasses the append-only
// convention and is exposed as its own operation, never reached from the
// reconciliation calls.
func (e *Engine) OverwriteJournal(recordID int64, text string) error {
	res, err := e.DB.Exec("UPDATE tracking_records SET comments=?, updated_at=? WHERE id=?",
		text, e.Now().Format(timeFormat), recordID)
	if err != nil {
		return fmt.Errorf("%w: overwrite journal: %v", ErrPersistence, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: tracking record %d", ErrNotFound, recordID)
	}
	return nil
}

// GetRecord loads a tracking record with every category's timestamps and
// derived status plus the raw and parsed journal.
func (e *Engine) GetRecord(recordID int64) (*models.TrackingRecord, error) {
	var rec models.TrackingRecord
	var ts [12]sql.NullString
	err := e.DB.QueryRow(`SELECT id, job_id,
		doors_ordered_at, doors_received_at, doors_received_incomplete_at,
		glass_ordered_at, glass_received_at, glass_received_incomplete_at,
		handles_ordered_at, handles_received_at, handles_received_incomplete_at,
		accessories_ordered_at, accessories_received_at, accessories_received_incomplete_at,
		COALESCE(comments,''), created_at, updated_at
		FROM tracking_records WHERE id=?`, recordID).Scan(
		&rec.ID, &rec.JobID,
		&ts[0], &ts[1], &ts[2], &ts[3], &ts[4], &ts[5],
		&ts[6], &ts[7], &ts[8], &ts[9], &ts[10], &ts[11],
		&rec.Comments, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: tracking record %d", ErrNotFound, recordID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load record %d: %v", ErrPersistence, recordID, err)
	}

	rec.Categories = make(map[string]models.CategoryState, len(Categories))
	for i, c := range Categories {
		cs := models.CategoryState{
			OrderedAt:            database.SP(ts[i*3]),
			ReceivedAt:           database.SP(ts[i*3+1]),
			ReceivedIncompleteAt: database.SP(ts[i*3+2]),
		}
		cs.Status = string(DeriveStatus(cs.OrderedAt, cs.ReceivedAt, cs.ReceivedIncompleteAt))
		rec.Categories[c] = cs
	}
	rec.Journal = ParseJournal(rec.Comments)
	return &rec, nil
}

// CategoryStatus returns one category's current derived status.
func (e *Engine) CategoryStatus(recordID int64, category string) (Status, error) {
	if err := checkCategory(category); err != nil {
		return "", err
	}
	q := fmt.Sprintf(`SELECT %[1]s_ordered_at, %[1]s_received_at, %[1]s_received_incomplete_at FROM tracking_records WHERE id=?`, category)
	var ordered, received, incomplete sql.NullString
	err := e.DB.QueryRow(q, recordID).Scan(&ordered, &received, &incomplete)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: tracking record %d", ErrNotFound, recordID)
	}
	if err != nil {
		return "", fmt.Errorf("%w: load record %d: %v", ErrPersistence, recordID, err)
	}
	return DeriveStatus(database.SP(ordered), database.SP(received), database.SP(incomplete)), nil
}
