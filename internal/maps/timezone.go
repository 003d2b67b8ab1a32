package maps

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"eventfinder/internal/model"
)

type timezoneResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage"`
	TimeZoneID   string `json:"timeZoneId"`
	RawOffset    int    `json:"rawOffset"`
	DstOffset    int    `json:"dstOffset"`
}

// ResolveTimezone looks up the IANA timezone for a coordinate pair.
//
// This is the soft half of the failure asymmetry: a missing credential or any
// upstream problem returns nil (logged, never propagated) and callers fall
// back to UTC. Search can't proceed without a geocoded location, but display
// can proceed with a UTC-default timezone.
func (c *Client) ResolveTimezone(ctx context.Context, lat, lon float64) *model.TimezoneResult {
	if c.apiKey == "" {
		c.log.Warn("Google Maps API key not configured, using UTC for timezone")
		return nil
	}

	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", lat, lon))
	q.Set("timestamp", strconv.FormatInt(time.Now().Unix(), 10))

	var resp timezoneResponse
	if err := c.getJSON(ctx, "/maps/api/timezone/json", q, &resp); err != nil {
		c.log.Warn("timezone lookup failed, using UTC", zap.Error(err))
		return nil
	}
	if resp.Status != "OK" {
		c.log.Warn("timezone API returned non-OK status, using UTC",
			zap.String("status", resp.Status), zap.String("message", resp.ErrorMessage))
		return nil
	}
	return &model.TimezoneResult{
		TimeZoneID: resp.TimeZoneID,
		RawOffset:  resp.RawOffset,
		DstOffset:  resp.DstOffset,
	}
}
