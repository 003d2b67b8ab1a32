// Package router registers the HTTP routes of the events API.
package router

import (
	"github.com/labstack/echo/v4"

	"eventfinder/internal/handler"
	"eventfinder/internal/middleware"
)

// RegisterRoutes wires all endpoints onto the Echo instance. The rate
// limiter guards the two abuse-prone endpoints (search fans out to paid
// upstream APIs, login invites brute force); the admin group requires the
// token issued by Login.
func RegisterRoutes(e *echo.Echo, events *handler.EventHandler, search *handler.SearchHandler, admin *handler.AdminHandler, limiter echo.MiddlewareFunc, jwtSecret string) {
	e.GET("/healthz", handler.Health)

	g := e.Group("/events")
	g.GET("", events.List)
	g.GET("/type/:eventType", events.ListByType)
	g.POST("/search", search.Search, limiter)
	g.POST("", events.Create)
	g.PUT("/:id", events.Update)
	g.DELETE("/:id", events.Delete)

	g.POST("/admin/login", admin.Login, limiter)

	protected := g.Group("/admin", middleware.AdminAuth(jwtSecret))
	protected.GET("/all", admin.ListAll)
	protected.POST("/bulk-upload", admin.BulkUpload)
	protected.POST("/update-geocoding", admin.UpdateGeocoding)
}
