package router

import (
	"github.com/labstack/echo/v4"

	"github.com/kinolib/movie-storefront/internal/handler"
	"github.com/kinolib/movie-storefront/internal/middleware"
)

// RegisterLibrary registers the authenticated storefront endpoints:
// purchasing a movie and listing the caller's library.  Both roles may
// purchase.  Every request through this group updates the user's
// last-activity marker after the response is written.
func RegisterLibrary(e *echo.Echo, h *handler.LibraryHandler, jwtSecret string, tracker middleware.ActivityToucher) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("USER", "ADMIN"),
		middleware.TrackActivity(tracker),
	)
	g.POST("/movies/:id/purchase", h.Purchase)
	g.GET("/my-library", h.MyLibrary)
}
