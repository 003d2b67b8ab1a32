package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventfinder/internal/config"
	"eventfinder/internal/middleware"
)

func loginRequest(t *testing.T, h *AdminHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/events/admin/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Login(e.NewContext(req, rec)))
	return rec
}

func TestAdminLogin(t *testing.T) {
	cfg := config.Config{
		AdminPassword:    "s3cret",
		JWTSecret:        "signing-key",
		AdminTokenTTLMin: 60,
	}
	h := NewAdminHandler(cfg, nil, nil, nil)

	rec := loginRequest(t, h, `{"password":"s3cret"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token"`)
	assert.Contains(t, rec.Body.String(), `"success":true`)

	rec = loginRequest(t, h, `{"password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminLoginTokenOpensProtectedRoutes(t *testing.T) {
	cfg := config.Config{
		AdminPassword:    "s3cret",
		JWTSecret:        "signing-key",
		AdminTokenTTLMin: 60,
	}
	h := NewAdminHandler(cfg, nil, nil, nil)

	rec := loginRequest(t, h, `{"password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	e := echo.New()
	e.GET("/events/admin/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	}, middleware.AdminAuth(cfg.JWTSecret))

	req := httptest.NewRequest(http.MethodGet, "/events/admin/ping", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+resp.Token)
	out := httptest.NewRecorder()
	e.ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)

	// No token, or a token signed with another key, is rejected.
	bare := httptest.NewRequest(http.MethodGet, "/events/admin/ping", nil)
	out = httptest.NewRecorder()
	e.ServeHTTP(out, bare)
	assert.Equal(t, http.StatusUnauthorized, out.Code)
}
