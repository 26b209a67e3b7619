package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/kinolib/movie-storefront/internal/model"
)

// ActivityStore is the slice of the user repository the tracker needs.
type ActivityStore interface {
	GetByID(ctx context.Context, id string) (model.User, error)
	TouchActivity(ctx context.Context, id string, day time.Time) error
}

// ActivityTracker records a "last active today" marker for authenticated
// users.  It runs after the response is flushed and must never influence
// the page the user just received.
type ActivityTracker struct {
	users ActivityStore
	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewActivityTracker(users ActivityStore) *ActivityTracker {
	return &ActivityTracker{users: users, Now: time.Now}
}

// Touch updates the user's last activity date to today, at most once per
// UTC calendar day.  A missing user is a no-op; the session may outlive
// the account.
func (t *ActivityTracker) Touch(ctx context.Context, userID string) error {
	user, err := t.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}

	today := t.Now().UTC()
	if user.LastActivityDate != nil && sameDay(*user.LastActivityDate, today) {
		return nil
	}
	return t.users.TouchActivity(ctx, userID, today)
}

// sameDay compares two instants at calendar-day granularity in UTC.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
