package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/kinolib/movie-storefront/internal/config"
	"github.com/kinolib/movie-storefront/internal/database"
	"github.com/kinolib/movie-storefront/internal/handler"
	"github.com/kinolib/movie-storefront/internal/queue"
	"github.com/kinolib/movie-storefront/internal/ratelimit"
	"github.com/kinolib/movie-storefront/internal/repository"
	"github.com/kinolib/movie-storefront/internal/router"
	"github.com/kinolib/movie-storefront/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env vars directly

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database open: %v", err)
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("database migrate: %v", err)
	}

	// Redis backs the auth rate limiter and the catalog cache.  A nil
	// client disables both and the server keeps working.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	limiter := ratelimit.New(config.LoadRateLimitConfig(), rdb)

	users := repository.NewUserRepo(db)
	movies := repository.NewMovieRepo(db)
	purchases := repository.NewPurchaseRepo(db)
	tokens := repository.NewTokenRepo(db)

	auth := service.NewAuth(service.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
		BcryptCost:     cfg.BcryptCost,
	}, users, tokens, limiter, queue.Publish)
	purchaseSvc := service.NewPurchases(movies, purchases, queue.Publish)
	tracker := service.NewActivityTracker(users)

	// Onboarding consumer runs for the lifetime of the process and
	// reconnects on broker failures.
	go func() {
		if err := queue.StartOnboardingConsumer(); err != nil {
			log.Printf("onboarding consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterPublic(e, handler.NewCatalogHandler(movies), config.LoadCacheConfig(), rdb)
	router.RegisterAuth(e, handler.NewAuthHandler(auth, users, tokens, cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays), cfg.JWTSecret)
	router.RegisterLibrary(e, handler.NewLibraryHandler(purchaseSvc, purchases), cfg.JWTSecret, tracker)
	router.RegisterAdmin(e, handler.NewAdminHandler(users, movies, purchases), cfg.JWTSecret, tracker)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
