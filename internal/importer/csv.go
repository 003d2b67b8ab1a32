// Package importer parses admin CSV uploads into event drafts and runs the
// two-phase validate-then-insert routine.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"eventfinder/internal/model"
)

// columnAliases maps accepted CSV header names to canonical field names, so
// exports that say "date"/"time"/"type" import without editing.
var columnAliases = map[string]string{
	"date": "event_date",
	"time": "event_time",
	"type": "event_type",
}

// ParseCSV reads a header-mapped CSV into event drafts. Cells are trimmed,
// fully empty lines are skipped, unknown columns are ignored.
func ParseCSV(r io.Reader) ([]model.EventDraft, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // tolerate ragged rows; missing cells read as empty

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("parse CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		if canonical, ok := columnAliases[name]; ok {
			name = canonical
		}
		// First occurrence wins so "event_date" beats a later "date" alias.
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	cell := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	drafts := make([]model.EventDraft, 0, 32)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse CSV row %d: %w", len(drafts)+2, err)
		}

		empty := true
		for _, c := range record {
			if strings.TrimSpace(c) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		drafts = append(drafts, model.EventDraft{
			EventDate: cell(record, "event_date"),
			EventTime: cell(record, "event_time"),
			EventType: cell(record, "event_type"),
			Address:   cell(record, "address"),
			Address2:  cell(record, "address2"),
			City:      cell(record, "city"),
			State:     cell(record, "state"),
			Zip:       cell(record, "zip"),
			StartDate: cell(record, "start_date"),
			EndDate:   cell(record, "end_date"),
		})
	}
	return drafts, nil
}
