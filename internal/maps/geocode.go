package maps

import (
	"context"
	"fmt"
	"net/url"

	"eventfinder/internal/model"
)

// GeocodingError is a hard geocoding failure: quota exceeded, key rejected,
// malformed request or a network error. Zero results is NOT an error, see
// Geocode.
type GeocodingError struct {
	Status  string // upstream status (OVER_QUERY_LIMIT, REQUEST_DENIED, ...) or "NETWORK"
	Message string
}

func (e *GeocodingError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("geocoding failed (%s): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("geocoding failed (%s)", e.Status)
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		AddressComponents []struct {
			LongName  string   `json:"long_name"`
			ShortName string   `json:"short_name"`
			Types     []string `json:"types"`
		} `json:"address_components"`
	} `json:"results"`
}

// Geocode resolves free-text location input (street address, zip, or
// "city, state") to coordinates.
//
// Returns (nil, nil) when the upstream answers ZERO_RESULTS: the location
// simply could not be resolved and callers must treat that as a user-input
// problem, not a system failure. Every other non-OK outcome returns a
// *GeocodingError that propagates.
func (c *Client) Geocode(ctx context.Context, text string) (*model.GeocodeResult, error) {
	if c.apiKey == "" {
		return nil, &GeocodingError{Status: "MISSING_KEY", Message: "Google Maps API key is not configured"}
	}

	q := url.Values{}
	q.Set("address", text)

	var resp geocodeResponse
	if err := c.getJSON(ctx, "/maps/api/geocode/json", q, &resp); err != nil {
		return nil, &GeocodingError{Status: "NETWORK", Message: err.Error()}
	}

	switch resp.Status {
	case "OK":
		// fall through
	case "ZERO_RESULTS":
		return nil, nil
	case "OVER_QUERY_LIMIT":
		return nil, &GeocodingError{Status: resp.Status, Message: "API quota exceeded, try again later"}
	case "REQUEST_DENIED":
		return nil, &GeocodingError{Status: resp.Status, Message: "request denied, check API key and billing"}
	case "INVALID_REQUEST":
		return nil, &GeocodingError{Status: resp.Status, Message: "invalid request, check the address format"}
	default:
		return nil, &GeocodingError{Status: resp.Status, Message: resp.ErrorMessage}
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	top := resp.Results[0]
	out := &model.GeocodeResult{
		Latitude:         top.Geometry.Location.Lat,
		Longitude:        top.Geometry.Location.Lng,
		FormattedAddress: top.FormattedAddress,
	}
	for _, comp := range top.AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "locality":
				out.City = comp.LongName
			case "postal_code":
				out.Zip = comp.ShortName
			}
		}
	}
	return out, nil
}
