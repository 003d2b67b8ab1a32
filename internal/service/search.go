// Package service implements the location search orchestration: geocode the
// query, resolve the local timezone, pull distance-ranked candidates from
// storage, re-filter them for exact temporal validity, and enrich the top
// results with driving distances.
package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"eventfinder/internal/model"
	"eventfinder/internal/schedule"
)

// maxResults is the contractual cap on a search response.
const maxResults = 6

// SearchService assembles ranked search results from the geocoder, the
// timezone resolver, the event store and the distance matrix.
type SearchService struct {
	store  CandidateStore
	geo    Geocoder
	tz     TimezoneResolver
	matrix DistanceEstimator
	log    *zap.Logger

	// now is swappable in tests.
	now func() time.Time
}

// NewSearchService constructs a SearchService.
func NewSearchService(store CandidateStore, geo Geocoder, tz TimezoneResolver, matrix DistanceEstimator, log *zap.Logger) *SearchService {
	return &SearchService{
		store:  store,
		geo:    geo,
		tz:     tz,
		matrix: matrix,
		log:    log,
		now:    time.Now,
	}
}

// Search resolves the location query to a reference point and returns up to
// six upcoming events ranked by straight-line distance, each enriched with
// driving distance/duration where the matrix lookup succeeded. An empty
// slice is a valid, non-error outcome.
func (s *SearchService) Search(ctx context.Context, q model.LocationQuery) ([]model.RankedResult, error) {
	target, field, err := pickLocation(q)
	if err != nil {
		return nil, err
	}

	ref, err := s.geo.Geocode(ctx, target)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, &LocationUnresolvableError{Field: field}
	}

	tzID := "UTC"
	if t := s.tz.ResolveTimezone(ctx, ref.Latitude, ref.Longitude); t != nil && t.TimeZoneID != "" {
		tzID = t.TimeZoneID
	}

	now := s.now().UTC()
	candidates, err := s.store.SearchNearest(ctx, ref.Latitude, ref.Longitude, tzID, now)
	if err != nil {
		return nil, err
	}

	// Storage applied only a coarse date prefilter; do the timezone-exact
	// check here and keep the closest survivors.
	kept := make([]model.Event, 0, maxResults)
	for i := range candidates {
		if !schedule.EventIsActive(&candidates[i], tzID, now) {
			continue
		}
		kept = append(kept, candidates[i])
		if len(kept) == maxResults {
			break
		}
	}

	results := make([]model.RankedResult, len(kept))
	for i, e := range kept {
		d := 0.0
		if e.DistanceMiles != nil {
			d = *e.DistanceMiles
		} else if e.HasCoordinates() {
			d = schedule.Haversine(ref.Latitude, ref.Longitude, *e.Latitude, *e.Longitude)
		}
		results[i] = model.RankedResult{Event: e, DistanceMiles: d}
	}

	s.attachDrivingDistances(ctx, ref, results)
	return results, nil
}

// attachDrivingDistances issues one batched distance-matrix call and fills
// in driving meters/seconds for every element whose status is OK. Failures
// degrade: a bad element skips its row, a failed batch leaves all rows
// without driving data. Never an error for the caller.
func (s *SearchService) attachDrivingDistances(ctx context.Context, ref *model.GeocodeResult, results []model.RankedResult) {
	if len(results) == 0 {
		return
	}
	dests := make([][2]float64, len(results))
	for i, r := range results {
		if r.Event.HasCoordinates() {
			dests[i] = [2]float64{*r.Event.Latitude, *r.Event.Longitude}
		}
	}

	elems, err := s.matrix.DistanceMatrix(ctx, ref.Latitude, ref.Longitude, dests)
	if err != nil {
		s.log.Warn("distance matrix lookup failed, returning results without driving data", zap.Error(err))
		return
	}
	for i := range results {
		if i >= len(elems) || elems[i].Status != "OK" {
			continue
		}
		m, sec := elems[i].Meters, elems[i].Seconds
		results[i].DrivingMeters = &m
		results[i].DrivingSeconds = &sec
	}
}

// pickLocation chooses the single query field to geocode, in priority order
// address, zip, city+state.
func pickLocation(q model.LocationQuery) (target, field string, err error) {
	address := strings.TrimSpace(q.Address)
	zip := strings.TrimSpace(q.Zip)
	city := strings.TrimSpace(q.City)
	state := strings.TrimSpace(q.State)

	switch {
	case address != "":
		return address, "address", nil
	case zip != "":
		return zip, "zip code", nil
	case city != "" && state != "":
		return city + ", " + state, "city and state", nil
	default:
		return "", "", ErrMissingLocationInput
	}
}
