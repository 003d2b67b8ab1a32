package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"eventfinder/internal/model"
)

// Geocoder resolves a draft's address during validation. (nil, nil) means
// zero results, which fails the row.
type Geocoder interface {
	Geocode(ctx context.Context, text string) (*model.GeocodeResult, error)
}

// EventStore commits a validated batch atomically.
type EventStore interface {
	BulkInsert(ctx context.Context, drafts []model.EventDraft) ([]model.Event, error)
}

// RowError describes why one candidate row was rejected. Row is 1-based;
// the synthetic Row 0 reports a storage failure after validation passed.
type RowError struct {
	Row     int    `json:"row"`
	Address string `json:"address"`
	Error   string `json:"error"`
}

// Importer runs the two-phase bulk import: validate and geocode every row
// without writing, then, only when the whole batch is clean, insert all rows
// in one transaction.
type Importer struct {
	store EventStore
	geo   Geocoder
	log   *zap.Logger
}

// New constructs an Importer.
func New(store EventStore, geo Geocoder, log *zap.Logger) *Importer {
	return &Importer{store: store, geo: geo, log: log}
}

// ValidateAndInsert applies all-or-nothing semantics: any row error aborts
// the entire batch with zero inserts and the full error list. On success the
// inserted events (with assigned ids) come back with a nil error slice.
func (im *Importer) ValidateAndInsert(ctx context.Context, drafts []model.EventDraft) ([]model.Event, []RowError) {
	staged := make([]model.EventDraft, 0, len(drafts))
	var rowErrs []RowError

	// Phase 1: pure validation, no writes. A field failure skips the row's
	// geocode attempt; rows with explicit coordinates skip it too.
	for i, d := range drafts {
		row := i + 1
		if msgs := validateDraft(d); len(msgs) > 0 {
			rowErrs = append(rowErrs, RowError{Row: row, Address: d.Address, Error: strings.Join(msgs, "; ")})
			continue
		}
		if d.Latitude == nil || d.Longitude == nil {
			res, err := im.geo.Geocode(ctx, d.FullAddress())
			if err != nil {
				rowErrs = append(rowErrs, RowError{Row: row, Address: d.Address, Error: err.Error()})
				continue
			}
			if res == nil {
				rowErrs = append(rowErrs, RowError{Row: row, Address: d.Address, Error: "address could not be geocoded"})
				continue
			}
			d.Latitude = &res.Latitude
			d.Longitude = &res.Longitude
		}
		staged = append(staged, d)
	}

	if len(rowErrs) > 0 {
		im.log.Info("bulk import rejected",
			zap.Int("rows", len(drafts)), zap.Int("errors", len(rowErrs)))
		return nil, rowErrs
	}

	// Phase 2: one transaction, all rows or none.
	events, err := im.store.BulkInsert(ctx, staged)
	if err != nil {
		im.log.Error("bulk import insert failed", zap.Error(err))
		return nil, []RowError{{Row: 0, Error: fmt.Sprintf("bulk insert failed: %v", err)}}
	}
	return events, nil
}

// validateDraft checks required fields, date formats and range ordering.
// Returns one message per problem, empty when the row is clean.
func validateDraft(d model.EventDraft) []string {
	var msgs []string

	required := []struct{ name, value string }{
		{"address", d.Address},
		{"city", d.City},
		{"state", d.State},
		{"zip", d.Zip},
		{"event_type", d.EventType},
		{"event_time", d.EventTime},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			msgs = append(msgs, f.name+" is required")
		}
	}

	hasSingle := strings.TrimSpace(d.EventDate) != ""
	hasStart := strings.TrimSpace(d.StartDate) != ""
	hasEnd := strings.TrimSpace(d.EndDate) != ""

	if !hasSingle && !(hasStart && hasEnd) {
		msgs = append(msgs, "either event_date or a start_date/end_date pair is required")
	}
	if hasStart != hasEnd {
		msgs = append(msgs, "start_date and end_date must be supplied together")
	}

	var start, end time.Time
	if hasSingle {
		if _, err := time.Parse(model.DateLayout, d.EventDate); err != nil {
			msgs = append(msgs, "event_date must be in YYYY-MM-DD format")
		}
	}
	if hasStart {
		var err error
		if start, err = time.Parse(model.DateLayout, d.StartDate); err != nil {
			msgs = append(msgs, "start_date must be in YYYY-MM-DD format")
		}
	}
	if hasEnd {
		var err error
		if end, err = time.Parse(model.DateLayout, d.EndDate); err != nil {
			msgs = append(msgs, "end_date must be in YYYY-MM-DD format")
		}
	}
	if hasStart && hasEnd && !start.IsZero() && !end.IsZero() && end.Before(start) {
		msgs = append(msgs, "end_date must not be before start_date")
	}

	return msgs
}
