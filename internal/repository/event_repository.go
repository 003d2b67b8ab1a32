package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"eventfinder/internal/model"
	"eventfinder/internal/schedule"
)

// Geocoder resolves free-text addresses to coordinates. (nil, nil) means the
// address produced zero results.
type Geocoder interface {
	Geocode(ctx context.Context, text string) (*model.GeocodeResult, error)
}

// TimezoneResolver resolves coordinates to a timezone. nil means "fall back
// to UTC"; resolution failures never propagate.
type TimezoneResolver interface {
	ResolveTimezone(ctx context.Context, lat, lon float64) *model.TimezoneResult
}

// searchCandidateLimit caps the SQL-side candidate set before the exact
// client-side temporal re-filter. A performance knob, not a semantic
// invariant; only the final ≤6 result cap is contractual.
const searchCandidateLimit = 100

// EventRepo manages persistence for events. Writes that need coordinates
// geocode synchronously through the injected Geocoder; upcoming-listings
// resolve their reference timezone through the injected TimezoneResolver.
type EventRepo struct {
	db  *sql.DB
	geo Geocoder
	tz  TimezoneResolver
	log *zap.Logger
}

// NewEventRepo constructs an EventRepo.
func NewEventRepo(db *sql.DB, geo Geocoder, tz TimezoneResolver, log *zap.Logger) *EventRepo {
	return &EventRepo{db: db, geo: geo, tz: tz, log: log}
}

// eventColumns is the scan list shared by every SELECT. DATE columns come
// back formatted so the model keeps plain "YYYY-MM-DD" strings.
const eventColumns = `id,
	DATE_FORMAT(event_date, '%Y-%m-%d'), event_time,
	DATE_FORMAT(start_date, '%Y-%m-%d'), DATE_FORMAT(end_date, '%Y-%m-%d'),
	event_type, address, address2, city, state, zip,
	latitude, longitude, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(s rowScanner, extra ...any) (*model.Event, error) {
	var (
		e          model.Event
		eventDate  sql.NullString
		eventTime  sql.NullString
		startDate  sql.NullString
		endDate    sql.NullString
		address2   sql.NullString
		lat, lon   sql.NullFloat64
	)
	dest := []any{
		&e.ID, &eventDate, &eventTime, &startDate, &endDate,
		&e.EventType, &e.Address, &address2, &e.City, &e.State, &e.Zip,
		&lat, &lon, &e.CreatedAt, &e.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	if eventDate.Valid {
		e.EventDate = &eventDate.String
	}
	if eventTime.Valid {
		e.EventTime = &eventTime.String
	}
	if startDate.Valid {
		e.StartDate = &startDate.String
	}
	if endDate.Valid {
		e.EndDate = &endDate.String
	}
	if address2.Valid {
		e.Address2 = &address2.String
	}
	if lat.Valid {
		e.Latitude = &lat.Float64
	}
	if lon.Valid {
		e.Longitude = &lon.Float64
	}
	return &e, nil
}

// resolveTimezoneID picks the reference timezone for temporal filtering: the
// timezone of the reference point when one is given, UTC otherwise or on
// lookup failure.
func (r *EventRepo) resolveTimezoneID(ctx context.Context, lat, lon *float64) string {
	if lat == nil || lon == nil {
		return "UTC"
	}
	if res := r.tz.ResolveTimezone(ctx, *lat, *lon); res != nil && res.TimeZoneID != "" {
		return res.TimeZoneID
	}
	return "UTC"
}

// upcomingPrefilter is the coarse storage-side date gate: range rows survive
// while end_date has not passed, single rows while event_date has not
// passed. The timezone-exact check happens after fetch via
// schedule.EventIsActive; this only trims the obviously-dead rows.
const upcomingPrefilter = `((end_date IS NOT NULL AND end_date >= ?)
	OR (end_date IS NULL AND event_date IS NOT NULL AND event_date >= ?))`

// ListUpcoming returns upcoming events ordered by date then time. When a
// reference point is given its timezone drives the "is this still upcoming"
// check and each event gets its straight-line distance attached.
func (r *EventRepo) ListUpcoming(ctx context.Context, lat, lon *float64) ([]model.Event, error) {
	return r.listUpcoming(ctx, "", lat, lon)
}

// ListUpcomingByType is ListUpcoming constrained to an exact event_type match.
func (r *EventRepo) ListUpcomingByType(ctx context.Context, eventType string, lat, lon *float64) ([]model.Event, error) {
	return r.listUpcoming(ctx, eventType, lat, lon)
}

func (r *EventRepo) listUpcoming(ctx context.Context, eventType string, lat, lon *float64) ([]model.Event, error) {
	tzID := r.resolveTimezoneID(ctx, lat, lon)
	now := time.Now().UTC()
	today := schedule.NowIn(tzID, now).Format(model.DateLayout)

	where := []string{upcomingPrefilter}
	args := []any{today, today}
	if eventType != "" {
		where = append(where, "event_type = ?")
		args = append(args, eventType)
	}

	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY COALESCE(start_date, event_date), event_time`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	defer rows.Close()

	out := make([]model.Event, 0, 32)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		if !schedule.EventIsActive(e, tzID, now) {
			continue
		}
		if lat != nil && lon != nil && e.HasCoordinates() {
			d := schedule.Haversine(*lat, *lon, *e.Latitude, *e.Longitude)
			e.DistanceMiles = &d
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// ListAllForAdmin returns every event, newest first, with no temporal gating.
func (r *EventRepo) ListAllForAdmin(ctx context.Context) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events for admin: %w", err)
	}
	defer rows.Close()

	out := make([]model.Event, 0, 64)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// SearchNearest returns up to searchCandidateLimit geocoded,
// coarsely-upcoming events ordered by great-circle distance from the
// reference point, then by date and time. Distance is computed in SQL with
// the spherical law of cosines (Earth radius 3959 miles) and attached to
// each event. The caller performs the exact temporal re-filter.
func (r *EventRepo) SearchNearest(ctx context.Context, lat, lon float64, tzID string, now time.Time) ([]model.Event, error) {
	today := schedule.NowIn(tzID, now).Format(model.DateLayout)

	query := `SELECT ` + eventColumns + `,
		(3959 * ACOS(
			COS(RADIANS(?)) * COS(RADIANS(latitude)) * COS(RADIANS(longitude) - RADIANS(?))
			+ SIN(RADIANS(?)) * SIN(RADIANS(latitude))
		)) AS distance
		FROM events
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
		  AND ` + upcomingPrefilter + `
		ORDER BY distance, COALESCE(start_date, event_date), event_time
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, lat, lon, lat, today, today, searchCandidateLimit)
	if err != nil {
		return nil, fmt.Errorf("search nearest events: %w", err)
	}
	defer rows.Close()

	out := make([]model.Event, 0, 16)
	for rows.Next() {
		var distance sql.NullFloat64
		e, err := scanEvent(rows, &distance)
		if err != nil {
			return nil, err
		}
		if distance.Valid {
			e.DistanceMiles = &distance.Float64
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// GetByID retrieves one event, ErrEventNotFound when absent.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event %d: %w", id, err)
	}
	return e, nil
}

// Insert creates an event. Drafts without coordinates are geocoded from the
// assembled address first; zero results fail with ErrGeocodeUnresolvable.
// Explicit coordinates skip the lookup entirely.
func (r *EventRepo) Insert(ctx context.Context, d model.EventDraft) (*model.Event, error) {
	if d.Latitude == nil || d.Longitude == nil {
		res, err := r.geo.Geocode(ctx, d.FullAddress())
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, fmt.Errorf("%w: %s", ErrGeocodeUnresolvable, d.FullAddress())
		}
		d.Latitude = &res.Latitude
		d.Longitude = &res.Longitude
	}

	res, err := r.db.ExecContext(ctx, insertSQL, insertArgs(d)...)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

const insertSQL = `INSERT INTO events
	(event_date, event_time, start_date, end_date, event_type,
	 address, address2, city, state, zip, latitude, longitude)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func insertArgs(d model.EventDraft) []any {
	return []any{
		nullDate(d.EventDate), nullStr(d.EventTime),
		nullDate(d.StartDate), nullDate(d.EndDate),
		d.EventType, d.Address, nullStr(d.Address2),
		d.City, d.State, d.Zip, d.Latitude, d.Longitude,
	}
}

// nullDate maps an empty date string to SQL NULL.
func nullDate(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Update applies a partial update with coalesce semantics: only non-nil
// patch fields overwrite. The read-modify-write runs in one transaction with
// the row locked, so a concurrent update cannot interleave between the
// re-geocode and the write.
//
// When any address component changed and no explicit coordinates were
// supplied, the merged address is re-geocoded; zero results hard-fail with
// ErrGeocodeUnresolvable, consistent with Insert. Stale coordinates are
// never kept silently.
func (r *EventRepo) Update(ctx context.Context, id uint64, p model.EventPatch) (*model.Event, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ? FOR UPDATE`
	cur, err := scanEvent(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock event %d: %w", id, err)
	}

	merged, addressChanged := mergePatch(cur, p)

	if p.Latitude != nil && p.Longitude != nil {
		merged.Latitude = p.Latitude
		merged.Longitude = p.Longitude
	} else if addressChanged {
		res, err := r.geo.Geocode(ctx, merged.FullAddress())
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, fmt.Errorf("%w: %s", ErrGeocodeUnresolvable, merged.FullAddress())
		}
		merged.Latitude = &res.Latitude
		merged.Longitude = &res.Longitude
	}

	const upd = `UPDATE events SET
		event_date = ?, event_time = ?, start_date = ?, end_date = ?,
		event_type = ?, address = ?, address2 = ?, city = ?, state = ?, zip = ?,
		latitude = ?, longitude = ?, updated_at = NOW()
		WHERE id = ?`
	_, err = tx.ExecContext(ctx, upd,
		derefOrNil(merged.EventDate), derefOrNil(merged.EventTime),
		derefOrNil(merged.StartDate), derefOrNil(merged.EndDate),
		merged.EventType, merged.Address, derefOrNil(merged.Address2),
		merged.City, merged.State, merged.Zip,
		merged.Latitude, merged.Longitude, id)
	if err != nil {
		return nil, fmt.Errorf("update event %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return r.GetByID(ctx, id)
}

func derefOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// mergePatch overlays non-nil patch fields onto a copy of the current row
// and reports whether any address component changed.
func mergePatch(cur *model.Event, p model.EventPatch) (*model.Event, bool) {
	m := *cur
	changed := false

	setStrPtr := func(dst **string, v *string) {
		if v != nil {
			*dst = v
		}
	}
	setStrPtr(&m.EventDate, p.EventDate)
	setStrPtr(&m.EventTime, p.EventTime)
	setStrPtr(&m.StartDate, p.StartDate)
	setStrPtr(&m.EndDate, p.EndDate)
	if p.EventType != nil {
		m.EventType = *p.EventType
	}

	if p.Address != nil && *p.Address != cur.Address {
		m.Address = *p.Address
		changed = true
	}
	if p.Address2 != nil && (cur.Address2 == nil || *p.Address2 != *cur.Address2) {
		m.Address2 = p.Address2
		changed = true
	}
	if p.City != nil && *p.City != cur.City {
		m.City = *p.City
		changed = true
	}
	if p.State != nil && *p.State != cur.State {
		m.State = *p.State
		changed = true
	}
	if p.Zip != nil && *p.Zip != cur.Zip {
		m.Zip = *p.Zip
		changed = true
	}
	return &m, changed
}

// Delete removes an event permanently. ErrEventNotFound when no row matched.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// BulkInsert writes every draft inside a single transaction: either all rows
// commit or none do. Drafts are expected to already carry coordinates (the
// import validator geocodes during its validation phase).
func (r *EventRepo) BulkInsert(ctx context.Context, drafts []model.EventDraft) ([]model.Event, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin bulk insert: %w", err)
	}
	defer tx.Rollback()

	ids := make([]uint64, 0, len(drafts))
	for i, d := range drafts {
		res, err := tx.ExecContext(ctx, insertSQL, insertArgs(d)...)
		if err != nil {
			return nil, fmt.Errorf("bulk insert row %d: %w", i+1, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint64(id))
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	out := make([]model.Event, 0, len(ids))
	for _, id := range ids {
		e, err := scanEvent(tx.QueryRowContext(ctx, query, id))
		if err != nil {
			return nil, fmt.Errorf("read back event %d: %w", id, err)
		}
		out = append(out, *e)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit bulk insert: %w", err)
	}
	return out, nil
}

// MissingCoordinates lists events that have not been geocoded yet, oldest
// first, for the backfill job.
func (r *EventRepo) MissingCoordinates(ctx context.Context) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
		WHERE latitude IS NULL OR longitude IS NULL
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events missing coordinates: %w", err)
	}
	defer rows.Close()

	out := make([]model.Event, 0, 16)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// SetCoordinates stores backfilled coordinates for one event.
func (r *EventRepo) SetCoordinates(ctx context.Context, id uint64, lat, lon float64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET latitude = ?, longitude = ?, updated_at = NOW() WHERE id = ?`,
		lat, lon, id)
	if err != nil {
		return fmt.Errorf("set coordinates for event %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}
