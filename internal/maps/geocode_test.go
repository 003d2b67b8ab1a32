package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func geocodeServer(t *testing.T, body string, calls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			*calls++
		}
		assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestGeocodeOK(t *testing.T) {
	srv := geocodeServer(t, `{
		"status": "OK",
		"results": [{
			"formatted_address": "New York, NY 10001, USA",
			"geometry": {"location": {"lat": 40.7505, "lng": -73.9965}},
			"address_components": [
				{"long_name": "New York", "short_name": "New York", "types": ["locality", "political"]},
				{"long_name": "10001", "short_name": "10001", "types": ["postal_code"]}
			]
		}]
	}`, nil)
	defer srv.Close()

	c := New("testkey", srv.URL, zap.NewNop())
	res, err := c.Geocode(context.Background(), "10001")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.InDelta(t, 40.7505, res.Latitude, 1e-9)
	assert.InDelta(t, -73.9965, res.Longitude, 1e-9)
	assert.Equal(t, "New York, NY 10001, USA", res.FormattedAddress)
	assert.Equal(t, "New York", res.City)
	assert.Equal(t, "10001", res.Zip)
}

func TestGeocodeZeroResultsIsNotAnError(t *testing.T) {
	srv := geocodeServer(t, `{"status": "ZERO_RESULTS", "results": []}`, nil)
	defer srv.Close()

	c := New("testkey", srv.URL, zap.NewNop())
	res, err := c.Geocode(context.Background(), "xyzzy nowhere")
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestGeocodeUpstreamFailuresPropagate(t *testing.T) {
	for _, status := range []string{"OVER_QUERY_LIMIT", "REQUEST_DENIED", "INVALID_REQUEST", "UNKNOWN_ERROR"} {
		srv := geocodeServer(t, `{"status": "`+status+`", "results": []}`, nil)

		c := New("testkey", srv.URL, zap.NewNop())
		res, err := c.Geocode(context.Background(), "anywhere")
		assert.Nil(t, res)
		var geoErr *GeocodingError
		require.ErrorAs(t, err, &geoErr, "status %s", status)
		assert.Equal(t, status, geoErr.Status)

		srv.Close()
	}
}

func TestGeocodeMissingKeyFailsWithoutCalling(t *testing.T) {
	calls := 0
	srv := geocodeServer(t, `{}`, &calls)
	defer srv.Close()

	c := New("", srv.URL, zap.NewNop())
	res, err := c.Geocode(context.Background(), "10001")
	assert.Nil(t, res)
	var geoErr *GeocodingError
	require.ErrorAs(t, err, &geoErr)
	assert.Equal(t, "MISSING_KEY", geoErr.Status)
	assert.Zero(t, calls)
}

func TestGeocodeNetworkFailure(t *testing.T) {
	srv := geocodeServer(t, `{}`, nil)
	srv.Close() // connection refused from here on

	c := New("testkey", srv.URL, zap.NewNop())
	_, err := c.Geocode(context.Background(), "10001")
	var geoErr *GeocodingError
	require.ErrorAs(t, err, &geoErr)
	assert.Equal(t, "NETWORK", geoErr.Status)
}
