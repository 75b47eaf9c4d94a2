package tracking

import (
	"fmt"
	"strings"
)

// Status is the display status of one procurement category, derived from
// its lifecycle timestamps.
type Status string

const (
	StatusNotOrdered         Status = "not_ordered"
	StatusOrdered            Status = "ordered"
	StatusReceivedIncomplete Status = "received_incomplete"
	StatusReceivedComplete   Status = "received_complete"
)

// Categories are the four independently tracked procurement areas of a job.
var Categories = []string{"doors", "glass", "handles", "accessories"}

// ValidCategory reports whether c names a tracked procurement category.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// AllowsPONumber reports whether operators may set po_number on items of
// this category. Doors and glass orders get their PO numbers from the
// supplier portal, so the field is locked for them.
func AllowsPONumber(c string) bool {
	return c == "handles" || c == "accessories"
}

func checkCategory(c string) error {
	if !ValidCategory(c) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, c)
	}
	return nil
}

// categoryLabel is the uppercase category name used in journal messages.
func categoryLabel(c string) string {
	return strings.ToUpper(c)
}

// DeriveStatus maps a category's timestamps to its display status. A
// timestamp counts as set when non-nil and non-empty. The received-incomplete
// flag wins over everything else so a transiently inconsistent row still
// renders deterministically. Pure; never errors.
func DeriveStatus(orderedAt, receivedAt, receivedIncompleteAt *string) Status {
	switch {
	case isSet(receivedIncompleteAt):
		return StatusReceivedIncomplete
	case isSet(receivedAt):
		return StatusReceivedComplete
	case isSet(orderedAt):
		return StatusOrdered
	default:
		return StatusNotOrdered
	}
}

func isSet(ts *string) bool {
	return ts != nil && *ts != ""
}
