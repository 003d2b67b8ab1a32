// Package model defines the Event entity and the ephemeral types exchanged
// between the geocoding clients, the repository and the search service.
package model

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used everywhere dates cross a
// package boundary (DB columns, CSV cells, JSON payloads).
const DateLayout = "2006-01-02"

// Event is a row of the events table. An event is scheduled either as a
// single occurrence (EventDate plus a free-text EventTime range such as
// "3pm - 5pm") or as a multi-day range (StartDate/EndDate). Migrated legacy
// rows may carry both; the range wins (see Schedule).
//
// Latitude/Longitude stay nil until the address has been geocoded; an event
// without coordinates cannot take part in distance ranking.
type Event struct {
	ID        uint64   `json:"id"`
	EventDate *string  `json:"event_date"` // "YYYY-MM-DD", nil in range mode
	EventTime *string  `json:"event_time"` // free-text range, e.g. "3pm - 5pm"
	StartDate *string  `json:"start_date"` // "YYYY-MM-DD", nil in single mode
	EndDate   *string  `json:"end_date"`
	EventType string   `json:"event_type"`
	Address   string   `json:"address"`
	Address2  *string  `json:"address2"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Zip       string   `json:"zip"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	// DistanceMiles is the straight-line distance from a reference point.
	// Populated only by distance-ranked queries; never stored.
	DistanceMiles *float64 `json:"distance_miles,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScheduleKind tags the two temporal representations of an event.
type ScheduleKind int

const (
	// ScheduleNone means the row carries no usable date at all.
	ScheduleNone ScheduleKind = iota
	// ScheduleSingle is a one-day event with a free-text time range.
	ScheduleSingle
	// ScheduleRange is a multi-day event spanning [Start, End].
	ScheduleRange
)

// Schedule is the temporal representation of an event resolved into a tagged
// variant, so filtering code branches on Kind exactly once instead of
// re-inspecting four nullable columns.
type Schedule struct {
	Kind      ScheduleKind
	Date      string // single mode
	TimeRange string // single mode, free text
	Start     string // range mode
	End       string // range mode
}

// Schedule resolves the row's nullable date columns into a Schedule. When
// both representations are populated the range takes precedence.
func (e *Event) Schedule() Schedule {
	if e.StartDate != nil && *e.StartDate != "" && e.EndDate != nil && *e.EndDate != "" {
		return Schedule{Kind: ScheduleRange, Start: *e.StartDate, End: *e.EndDate}
	}
	if e.EventDate != nil && *e.EventDate != "" {
		s := Schedule{Kind: ScheduleSingle, Date: *e.EventDate}
		if e.EventTime != nil {
			s.TimeRange = *e.EventTime
		}
		return s
	}
	return Schedule{Kind: ScheduleNone}
}

// HasCoordinates reports whether the event has been geocoded.
func (e *Event) HasCoordinates() bool {
	return e.Latitude != nil && e.Longitude != nil
}

// FullAddress assembles the mailing address used for geocoding lookups.
func (e *Event) FullAddress() string {
	return JoinAddress(e.Address, e.City, e.State, e.Zip)
}

// JoinAddress builds "street, city, state zip" skipping empty parts.
func JoinAddress(street, city, state, zip string) string {
	parts := make([]string, 0, 3)
	if street = strings.TrimSpace(street); street != "" {
		parts = append(parts, street)
	}
	if city = strings.TrimSpace(city); city != "" {
		parts = append(parts, city)
	}
	tail := strings.TrimSpace(strings.TrimSpace(state) + " " + strings.TrimSpace(zip))
	if tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}

// EventDraft carries the caller-supplied fields of an event before it has an
// identity. Used by POST /events and by CSV bulk import. Empty date strings
// mean "not set".
type EventDraft struct {
	EventDate string   `json:"event_date"`
	EventTime string   `json:"event_time"`
	EventType string   `json:"event_type"`
	Address   string   `json:"address"`
	Address2  string   `json:"address2"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Zip       string   `json:"zip"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// FullAddress assembles the draft's mailing address for geocoding.
func (d *EventDraft) FullAddress() string {
	return JoinAddress(d.Address, d.City, d.State, d.Zip)
}

// EventPatch is a partial update: nil fields keep their current value
// (coalesce semantics), non-nil fields overwrite.
type EventPatch struct {
	EventDate *string  `json:"event_date"`
	EventTime *string  `json:"event_time"`
	EventType *string  `json:"event_type"`
	Address   *string  `json:"address"`
	Address2  *string  `json:"address2"`
	City      *string  `json:"city"`
	State     *string  `json:"state"`
	Zip       *string  `json:"zip"`
	StartDate *string  `json:"start_date"`
	EndDate   *string  `json:"end_date"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}
