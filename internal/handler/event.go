package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"eventfinder/internal/maps"
	"eventfinder/internal/model"
	"eventfinder/internal/repository"
)

const dbTimeout = 5 * time.Second

// EventHandler bundles dependencies for the public event endpoints.
type EventHandler struct {
	Repo *repository.EventRepo
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(repo *repository.EventRepo) *EventHandler {
	return &EventHandler{Repo: repo}
}

// latLonParams reads the optional ?lat=&lon= reference point. Both must
// parse for the point to count; a half-supplied pair is ignored.
func latLonParams(c echo.Context) (lat, lon *float64) {
	latStr, lonStr := c.QueryParam("lat"), c.QueryParam("lon")
	if latStr == "" || lonStr == "" {
		return nil, nil
	}
	la, err1 := strconv.ParseFloat(latStr, 64)
	lo, err2 := strconv.ParseFloat(lonStr, 64)
	if err1 != nil || err2 != nil {
		return nil, nil
	}
	return &la, &lo
}

// List handles GET /events: upcoming events, optionally with distances from
// a caller-supplied reference point.
func (h *EventHandler) List(c echo.Context) error {
	lat, lon := latLonParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	events, err := h.Repo.ListUpcoming(ctx, lat, lon)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch events"})
	}
	return c.JSON(http.StatusOK, events)
}

// ListByType handles GET /events/type/:eventType.
func (h *EventHandler) ListByType(c echo.Context) error {
	eventType := c.Param("eventType")
	lat, lon := latLonParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	events, err := h.Repo.ListUpcomingByType(ctx, eventType, lat, lon)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch events"})
	}
	return c.JSON(http.StatusOK, events)
}

// Create handles POST /events. Drafts without explicit coordinates are
// geocoded synchronously before the insert.
func (h *EventHandler) Create(c echo.Context) error {
	var draft model.EventDraft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	// Geocoding can take a moment on top of the insert itself.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	event, err := h.Repo.Insert(ctx, draft)
	if err != nil {
		return writeEventError(c, err)
	}
	return c.JSON(http.StatusCreated, event)
}

// Update handles PUT /events/:id with coalesce semantics: only supplied
// fields overwrite.
func (h *EventHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var patch model.EventPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	event, err := h.Repo.Update(ctx, id, patch)
	if err != nil {
		return writeEventError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

// Delete handles DELETE /events/:id. Deletion is physical.
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Repo.Delete(ctx, id); err != nil {
		return writeEventError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// writeEventError maps repository and upstream errors to HTTP responses.
func writeEventError(c echo.Context, err error) error {
	var geoErr *maps.GeocodingError
	switch {
	case errors.Is(err, repository.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	case errors.Is(err, repository.ErrGeocodeUnresolvable):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.As(err, &geoErr):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": geoErr.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "request failed"})
	}
}
