package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"eventfinder/internal/maps"
	"eventfinder/internal/model"
	"eventfinder/internal/service"
)

// SearchHandler exposes the location search endpoint.
type SearchHandler struct {
	Svc *service.SearchService
}

// NewSearchHandler constructs a SearchHandler.
func NewSearchHandler(svc *service.SearchService) *SearchHandler {
	return &SearchHandler{Svc: svc}
}

// Search handles POST /events/search. The body supplies one of address, zip
// or city+state; the response is at most six ranked results. An empty array
// is a valid outcome, not an error.
func (h *SearchHandler) Search(c echo.Context) error {
	var q model.LocationQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	// The search fans out to geocoding, timezone, storage and the distance
	// matrix; give the whole pipeline a generous bound.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 20*time.Second)
	defer cancel()

	results, err := h.Svc.Search(ctx, q)
	if err != nil {
		var unresolvable *service.LocationUnresolvableError
		var geoErr *maps.GeocodingError
		switch {
		case errors.Is(err, service.ErrMissingLocationInput):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.As(err, &unresolvable):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": unresolvable.Error()})
		case errors.As(err, &geoErr):
			return c.JSON(http.StatusBadGateway, echo.Map{"error": geoErr.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
		}
	}
	return c.JSON(http.StatusOK, results)
}
