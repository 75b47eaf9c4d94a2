package tracking

import (
	"testing"
	"time"
)

func TestFormatJournalLine(t *testing.T) {
	at := time.Date(2026, 8, 31, 14, 5, 42, 0, time.UTC)
	got := FormatJournalLine("DOORS Order Details Updated", at)
	want := "DOORS Order Details Updated [2026-08-31 14:05]"
	if got != want {
		t.Errorf("FormatJournalLine() = %q, want %q", got, want)
	}
}

func TestAppendJournalLine(t *testing.T) {
	if got := AppendJournalLine("", "first"); got != "first" {
		t.Errorf("append to empty = %q, want %q", got, "first")
	}
	if got := AppendJournalLine("first", "second"); got != "first\nsecond" {
		t.Errorf("append to non-empty = %q, want %q", got, "first\nsecond")
	}
}

func TestParseJournal(t *testing.T) {
	text := "DOORS Order Details Updated [2026-08-01 09:15]\n" +
		"DOORS Marked Fully Received [2026-08-05 16:40]\n" +
		"manual correction without a timestamp"

	entries := ParseJournal(text)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Message != "DOORS Order Details Updated" || entries[0].At != "2026-08-01 09:15" {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].Message != "DOORS Marked Fully Received" || entries[1].At != "2026-08-05 16:40" {
		t.Errorf("entry 1 = %+v", entries[1])
	}
	if entries[2].Message != "manual correction without a timestamp" || entries[2].At != "" {
		t.Errorf("entry 2 = %+v", entries[2])
	}
}

func TestParseJournalEmpty(t *testing.T) {
	if entries := ParseJournal(""); len(entries) != 0 {
		t.Errorf("got %d entries for empty text, want 0", len(entries))
	}
	// Blank lines are skipped, not turned into empty entries.
	if entries := ParseJournal("a [2026-01-01 00:00]\n\nb"); len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

func TestJournalRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)
	text := AppendJournalLine("", FormatJournalLine("GLASS Status Cleared", at))
	entries := ParseJournal(text)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Message != "GLASS Status Cleared" {
		t.Errorf("message = %q", entries[0].Message)
	}
	if entries[0].At != "2026-03-14 09:26" {
		t.Errorf("at = %q", entries[0].At)
	}
}
