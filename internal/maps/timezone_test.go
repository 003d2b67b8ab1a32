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

func TestResolveTimezoneOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/timezone/json", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"timeZoneId": "America/New_York",
			"rawOffset": -18000,
			"dstOffset": 3600
		}`))
	}))
	defer srv.Close()

	c := New("testkey", srv.URL, zap.NewNop())
	res := c.ResolveTimezone(context.Background(), 40.7505, -73.9965)
	require.NotNil(t, res)
	assert.Equal(t, "America/New_York", res.TimeZoneID)
	assert.Equal(t, -18000, res.RawOffset)
	assert.Equal(t, 3600, res.DstOffset)
}

// Timezone lookups soft-degrade: missing key, upstream errors and network
// failures all return nil so the caller falls back to UTC.
func TestResolveTimezoneSoftFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "REQUEST_DENIED"}`))
	}))
	defer srv.Close()

	c := New("testkey", srv.URL, zap.NewNop())
	assert.Nil(t, c.ResolveTimezone(context.Background(), 1, 2))

	noKey := New("", srv.URL, zap.NewNop())
	assert.Nil(t, noKey.ResolveTimezone(context.Background(), 1, 2))

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()
	unreachable := New("testkey", dead.URL, zap.NewNop())
	assert.Nil(t, unreachable.ResolveTimezone(context.Background(), 1, 2))
}
