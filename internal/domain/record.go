package domain

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Actions recorded in the intervention journal.
const (
	ActionArchivedAndReset    = "archived and reset"
	ActionInterventionSkipped = "detected (intervention disabled)"
)

// InterventionRecord is the durable account of one intervention (or
// one suppressed intervention). Append-only: records are never mutated
// or deleted once written.
type InterventionRecord struct {
	Timestamp   time.Time
	Session     SessionID
	Reason      string
	SizeBefore  int64
	Markers     int
	Nested      int
	Action      string
	ArchivePath string
}

// EncodeText renders the record in the journal's colon-separated
// key/value format, one field per line.
func (r InterventionRecord) EncodeText() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Timestamp: %s\n", r.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "Session: %s\n", r.Session)
	fmt.Fprintf(&b, "Reason: %s\n", r.Reason)
	fmt.Fprintf(&b, "Size before: %d\n", r.SizeBefore)
	fmt.Fprintf(&b, "Markers: %d\n", r.Markers)
	fmt.Fprintf(&b, "Nested: %d\n", r.Nested)
	fmt.Fprintf(&b, "Action: %s\n", r.Action)
	if r.ArchivePath != "" {
		fmt.Fprintf(&b, "Archive: %s\n", r.ArchivePath)
	}
	return b.Bytes()
}

// ParseInterventionRecord reads a journal entry back. Unknown keys are
// ignored so the format can grow without breaking older readers.
func ParseInterventionRecord(data []byte) (InterventionRecord, error) {
	var r InterventionRecord

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return InterventionRecord{}, fmt.Errorf("malformed journal line %q", line)
		}
		value = strings.TrimSpace(value)

		var err error
		switch key {
		case "Timestamp":
			r.Timestamp, err = time.Parse(time.RFC3339, value)
		case "Session":
			r.Session = SessionID(value)
		case "Reason":
			r.Reason = value
		case "Size before":
			r.SizeBefore, err = strconv.ParseInt(value, 10, 64)
		case "Markers":
			r.Markers, err = strconv.Atoi(value)
		case "Nested":
			r.Nested, err = strconv.Atoi(value)
		case "Action":
			r.Action = value
		case "Archive":
			r.ArchivePath = value
		}
		if err != nil {
			return InterventionRecord{}, fmt.Errorf("parse journal field %q: %w", key, err)
		}
	}
	if err := sc.Err(); err != nil {
		return InterventionRecord{}, fmt.Errorf("read journal entry: %w", err)
	}

	return r, nil
}
