package maps

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// MatrixElement is one origin->destination cell of a distance matrix
// response. Meters and Seconds are meaningful only when Status is "OK";
// callers degrade per element, never per batch.
type MatrixElement struct {
	Status  string
	Meters  int64
	Seconds int64
}

type distanceMatrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int64 `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int64 `json:"value"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// DistanceMatrix issues one batched driving distance/duration lookup from the
// origin to every destination. The returned slice is index-aligned with
// destinations.
func (c *Client) DistanceMatrix(ctx context.Context, originLat, originLon float64, destinations [][2]float64) ([]MatrixElement, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("distance matrix: Google Maps API key is not configured")
	}
	if len(destinations) == 0 {
		return nil, nil
	}

	dests := make([]string, len(destinations))
	for i, d := range destinations {
		dests[i] = fmt.Sprintf("%f,%f", d[0], d[1])
	}

	q := url.Values{}
	q.Set("origins", fmt.Sprintf("%f,%f", originLat, originLon))
	q.Set("destinations", strings.Join(dests, "|"))
	q.Set("mode", "driving")

	var resp distanceMatrixResponse
	if err := c.getJSON(ctx, "/maps/api/distancematrix/json", q, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("distance matrix: upstream status %s", resp.Status)
	}
	if len(resp.Rows) == 0 {
		return nil, fmt.Errorf("distance matrix: empty response")
	}

	elems := make([]MatrixElement, 0, len(destinations))
	for _, e := range resp.Rows[0].Elements {
		elems = append(elems, MatrixElement{
			Status:  e.Status,
			Meters:  e.Distance.Value,
			Seconds: e.Duration.Value,
		})
	}
	return elems, nil
}
