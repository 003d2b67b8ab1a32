package service

import (
	"context"
	"time"

	"eventfinder/internal/maps"
	"eventfinder/internal/model"
)

// Geocoder resolves free-text location input to coordinates. (nil, nil)
// means zero results.
type Geocoder interface {
	Geocode(ctx context.Context, text string) (*model.GeocodeResult, error)
}

// TimezoneResolver resolves coordinates to a timezone; nil means fall back
// to UTC.
type TimezoneResolver interface {
	ResolveTimezone(ctx context.Context, lat, lon float64) *model.TimezoneResult
}

// CandidateStore supplies the distance-ranked, coarsely time-filtered
// candidate set from storage.
type CandidateStore interface {
	SearchNearest(ctx context.Context, lat, lon float64, tzID string, now time.Time) ([]model.Event, error)
}

// DistanceEstimator batches one driving distance/duration lookup from the
// origin to every destination.
type DistanceEstimator interface {
	DistanceMatrix(ctx context.Context, originLat, originLon float64, destinations [][2]float64) ([]maps.MatrixElement, error)
}
