package model

// LocationQuery is the body of POST /events/search. Exactly one of address,
// zip or city+state is used to derive the reference point, in that priority
// order. Never persisted.
type LocationQuery struct {
	Address string `json:"address"`
	Zip     string `json:"zip"`
	City    string `json:"city"`
	State   string `json:"state"`
}

// GeocodeResult is a forward-geocoding hit. Not stored unless copied onto an
// Event.
type GeocodeResult struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address"`
	City             string  `json:"city,omitempty"`
	Zip              string  `json:"zip,omitempty"`
}

// TimezoneResult is a timezone lookup for a coordinate pair.
type TimezoneResult struct {
	TimeZoneID string `json:"time_zone_id"`
	RawOffset  int    `json:"raw_offset"` // seconds from UTC, standard time
	DstOffset  int    `json:"dst_offset"` // seconds of DST shift in effect
}

// RankedResult is one entry of a location search response: the event, its
// straight-line distance from the reference point, and (when the
// distance-matrix lookup succeeded for this row) the driving distance and
// duration.
type RankedResult struct {
	Event          Event   `json:"event"`
	DistanceMiles  float64 `json:"distance_miles"`
	DrivingMeters  *int64  `json:"driving_meters,omitempty"`
	DrivingSeconds *int64  `json:"driving_seconds,omitempty"`
}
