package tracking

import (
	"regexp"
	"strings"
	"time"

	"cabops/internal/models"
)

// Journal lines look like "DOORS Order Details Updated [2026-08-31 14:05]".
// The journal is stored as one newline-delimited text column; everything in
// this file converts between that raw text and ordered entries so the text
// form only exists at the storage and display boundary.

const journalTimeFormat = "2006-01-02 15:04"

var journalLineRe = regexp.MustCompile(`^(.*) \[(\d{4}-\d{2}-\d{2} \d{2}:\d{2})\]$`)

// FormatJournalLine renders one journal entry to its stored text form.
func FormatJournalLine(message string, at time.Time) string {
	return message + " [" + at.Format(journalTimeFormat) + "]"
}

// AppendJournalLine appends a rendered line to the raw journal text,
// separated by a newline when the journal is non-empty.
func AppendJournalLine(journal, line string) string {
	if journal == "" {
		return line
	}
	return journal + "\n" + line
}

// ParseJournal splits raw journal text into ordered entries. Lines written
// by the engine carry a trailing bracketed timestamp; manually overwritten
// lines may not, in which case At is left empty and the whole line becomes
// the message.
func ParseJournal(text string) []models.JournalEntry {
	entries := []models.JournalEntry{}
	if text == "" {
		return entries
	}
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		if m := journalLineRe.FindStringSubmatch(line); m != nil {
			entries = append(entries, models.JournalEntry{Message: m[1], At: m[2]})
		} else {
			entries = append(entries, models.JournalEntry{Message: line})
		}
	}
	return entries
}
