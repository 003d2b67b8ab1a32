package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"eventfinder/internal/config"
	"eventfinder/internal/importer"
	"eventfinder/internal/jobs"
	"eventfinder/internal/repository"
	"eventfinder/internal/utils"
)

// AdminHandler bundles dependencies for the admin endpoints: login, the
// unfiltered event list, CSV bulk upload and the on-demand geocode backfill.
type AdminHandler struct {
	Cfg      config.Config
	Repo     *repository.EventRepo
	Importer *importer.Importer
	Backfill *jobs.Backfill
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(cfg config.Config, repo *repository.EventRepo, imp *importer.Importer, backfill *jobs.Backfill) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Repo: repo, Importer: imp, Backfill: backfill}
}

type loginReq struct {
	Password string `json:"password"`
}

// Login handles POST /events/admin/login: the supplied password is checked
// against the configured secret and a session token for the admin routes is
// issued on success.
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !utils.VerifyAdminPassword(h.Cfg.AdminPassword, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid password"})
	}

	tok, err := utils.NewAdminToken(h.Cfg.JWTSecret, h.Cfg.AdminTokenTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"token":   tok.Token,
		"expires": tok.Exp,
	})
}

// ListAll handles GET /events/admin/all: every event, newest first, no
// temporal gating.
func (h *AdminHandler) ListAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	events, err := h.Repo.ListAllForAdmin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch events"})
	}
	return c.JSON(http.StatusOK, events)
}

// BulkUpload handles POST /events/admin/bulk-upload: parses the multipart
// "csvFile" attachment and runs the all-or-nothing validate-then-insert
// routine. Any row error rejects the whole batch with per-row details.
func (h *AdminHandler) BulkUpload(c echo.Context) error {
	fh, err := c.FormFile("csvFile")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no CSV file provided"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read CSV file"})
	}
	defer f.Close()

	drafts, err := importer.ParseCSV(f)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if len(drafts) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "CSV file contains no rows"})
	}

	// Every row gets geocoded during validation; budget accordingly.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Minute)
	defer cancel()

	events, rowErrs := h.Importer.ValidateAndInsert(ctx, drafts)
	if len(rowErrs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "validation errors found",
			"details": rowErrs,
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"events":  events,
	})
}

// UpdateGeocoding handles POST /events/admin/update-geocoding: an on-demand
// run of the coordinate backfill that otherwise runs on the cron schedule.
func (h *AdminHandler) UpdateGeocoding(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Minute)
	defer cancel()

	updated, err := h.Backfill.Run(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "geocoding update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "updated": updated})
}
