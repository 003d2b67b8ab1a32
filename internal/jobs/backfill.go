// Package jobs contains background work: the geocode backfill that fills in
// coordinates for events created or imported before geocoding succeeded.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"eventfinder/internal/model"
	"eventfinder/internal/repository"
)

// BackfillStore is the slice of the repository the backfill needs.
type BackfillStore interface {
	MissingCoordinates(ctx context.Context) ([]model.Event, error)
	SetCoordinates(ctx context.Context, id uint64, lat, lon float64) error
}

// Backfill geocodes events that are missing coordinates. Best-effort per
// row: a row that still cannot be resolved is logged and left for the next
// run.
type Backfill struct {
	Store BackfillStore
	Geo   repository.Geocoder
	Log   *zap.Logger
}

// Run performs one backfill pass and returns how many events were updated.
func (b *Backfill) Run(ctx context.Context) (int, error) {
	events, err := b.Store.MissingCoordinates(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, e := range events {
		res, err := b.Geo.Geocode(ctx, e.FullAddress())
		if err != nil {
			b.Log.Warn("backfill geocode failed",
				zap.Uint64("event_id", e.ID), zap.Error(err))
			continue
		}
		if res == nil {
			b.Log.Warn("backfill address unresolvable",
				zap.Uint64("event_id", e.ID), zap.String("address", e.FullAddress()))
			continue
		}
		if err := b.Store.SetCoordinates(ctx, e.ID, res.Latitude, res.Longitude); err != nil {
			b.Log.Warn("backfill update failed",
				zap.Uint64("event_id", e.ID), zap.Error(err))
			continue
		}
		updated++
	}

	if updated > 0 {
		b.Log.Info("geocode backfill completed",
			zap.Int("updated", updated), zap.Int("pending", len(events)-updated))
	}
	return updated, nil
}

// Schedule registers the backfill on the given cron expression and starts
// the scheduler. The returned cron should be stopped on shutdown.
func (b *Backfill) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := b.Run(ctx); err != nil {
			b.Log.Error("scheduled geocode backfill failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
