package router

import (
	"github.com/labstack/echo/v4"

	"github.com/kinolib/movie-storefront/internal/handler"
	"github.com/kinolib/movie-storefront/internal/middleware"
)

// RegisterAdmin registers the dashboard and record-management endpoints.
// All routes require a valid session with the ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string, tracker middleware.ActivityToucher) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
		middleware.TrackActivity(tracker),
	)
	g.GET("/stats", h.Stats)
	g.GET("/users", h.ListUsers)
	g.GET("/movies", h.ListMovies)
	g.POST("/movies", h.CreateMovie)
}
