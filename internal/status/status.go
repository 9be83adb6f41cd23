// Package status reads the status.json document the sync tool writes after
// every run.
package status

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// FileName is the status document name inside the data directory.
const FileName = "status.json"

// ReadRaw returns the raw text of the status document at path.
func ReadRaw(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read status.json at %s: %w", path, err)
	}
	return string(data), nil
}

// Status is the display view of status.json. Every field is optional; the
// tool writes either Error or BeeminderResponse depending on the outcome.
type Status struct {
	LastSync          string `json:"last_sync"`
	Value             int    `json:"value"`
	NotesCount        int    `json:"notes_count"`
	TagsCount         int    `json:"tags_count"`
	Comment           string `json:"comment"`
	BeeminderResponse string `json:"beeminder_response"`
	Error             string `json:"error"`
	Success           bool   `json:"success"`
	DryRun            bool   `json:"dry_run"`
}

// Parse decodes raw status text.
func Parse(raw string) (*Status, error) {
	var s Status
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("failed to parse status: %w", err)
	}
	return &s, nil
}

// Read reads and parses the status document at path.
func Read(path string) (*Status, error) {
	raw, err := ReadRaw(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// LastSyncTime parses LastSync. The tool writes ISO-8601 with an offset.
func (s *Status) LastSyncTime() (time.Time, bool) {
	if s.LastSync == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s.LastSync); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Summary renders a one-line description for tooltips and notifications.
func (s *Status) Summary() string {
	var b strings.Builder
	if s.Success {
		fmt.Fprintf(&b, "%d words, %d notes, %d tags", s.Value, s.NotesCount, s.TagsCount)
	} else {
		b.WriteString("Last sync failed")
		if s.Error != "" {
			b.WriteString(": ")
			b.WriteString(s.Error)
		}
	}
	if s.DryRun {
		b.WriteString(" (preview)")
	}
	if t, ok := s.LastSyncTime(); ok {
		b.WriteString(" at ")
		b.WriteString(t.Local().Format("Jan 2 15:04"))
	}
	return b.String()
}
