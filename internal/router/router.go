// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kinolib/movie-storefront/internal/config"
	"github.com/kinolib/movie-storefront/internal/handler"
	"github.com/kinolib/movie-storefront/internal/middleware"
)

// RegisterPublic registers routes that do not require authentication:
// the health check, the cooldown page, and the browsable catalog.  The
// catalog listing sits behind the Redis response cache; rdb may be nil,
// which disables caching.
func RegisterPublic(e *echo.Echo, cat *handler.CatalogHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)
	e.GET(handler.TooFastPath, handler.TooFast)

	cache := middleware.NewRedisCache(cacheCfg, rdb)
	e.GET("/v1/movies", cat.List, cache)
	e.GET("/v1/movies/:id", cat.Get, cache)
}

// RegisterAuth registers the authentication endpoints.  Register and
// login consult the rate limiter inside the workflow and redirect to the
// cooldown page on denial; refresh and logout only touch the token store.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	// Protected identity endpoint.
	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}
