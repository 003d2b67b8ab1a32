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

func TestDistanceMatrixPerElementStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/distancematrix/json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "driving", q.Get("mode"))
		assert.Contains(t, q.Get("destinations"), "|") // batched in one call
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"rows": [{"elements": [
				{"status": "OK", "distance": {"value": 1931}, "duration": {"value": 300}},
				{"status": "NOT_FOUND"}
			]}]
		}`))
	}))
	defer srv.Close()

	c := New("testkey", srv.URL, zap.NewNop())
	elems, err := c.DistanceMatrix(context.Background(), 40.75, -73.99,
		[][2]float64{{40.76, -73.98}, {0, 0}})
	require.NoError(t, err)
	require.Len(t, elems, 2)

	assert.Equal(t, "OK", elems[0].Status)
	assert.Equal(t, int64(1931), elems[0].Meters)
	assert.Equal(t, int64(300), elems[0].Seconds)
	assert.Equal(t, "NOT_FOUND", elems[1].Status)
}

func TestDistanceMatrixUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "OVER_QUERY_LIMIT", "rows": []}`))
	}))
	defer srv.Close()

	c := New("testkey", srv.URL, zap.NewNop())
	_, err := c.DistanceMatrix(context.Background(), 1, 2, [][2]float64{{3, 4}})
	assert.Error(t, err)
}

func TestDistanceMatrixNoDestinations(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := New("testkey", srv.URL, zap.NewNop())
	elems, err := c.DistanceMatrix(context.Background(), 1, 2, nil)
	assert.NoError(t, err)
	assert.Nil(t, elems)
	assert.Zero(t, calls)
}
