package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// ExportJSON writes the full ordered event sequence as a JSON array.
func (s *Store) ExportJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.events); err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	return nil
}

// ExportCSV writes one row per event in original order: a header row, then
// id, timestamp, type, status and the joined participant list. Events
// without an id fall back to their timestamp in the id column.
func (s *Store) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "timestamp", "type", "status", "participants"}); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}

	for _, ev := range s.events {
		id := ev.ID
		if id == "" {
			id = ev.Timestamp.Format(time.RFC3339)
		}
		row := []string{
			id,
			ev.Timestamp.Format(time.RFC3339),
			ev.EventType,
			string(ev.Status),
			strings.Join(ev.Participants, ";"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	return nil
}
