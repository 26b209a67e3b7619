package middleware

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// ActivityToucher records a user visit.  Implemented by
// service.ActivityTracker.
type ActivityToucher interface {
	Touch(ctx context.Context, userID string) error
}

// TrackActivity returns a middleware that updates the authenticated
// user's last-activity marker after the response has been written.  The
// hook is registered via Response().After so it cannot delay the visible
// render, runs with a detached context because the request context is
// done by then, and swallows its own failures: activity tracking must
// never break a page.
func TrackActivity(tracker ActivityToucher) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := UserID(c)
			if uid != "" {
				c.Response().After(func() {
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := tracker.Touch(ctx, uid); err != nil {
						log.Printf("activity: touch failed for user %s: %v", uid, err)
					}
				})
			}
			return next(c)
		}
	}
}
