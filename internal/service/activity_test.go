package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinolib/movie-storefront/internal/model"
)

type fakeActivityStore struct {
	users   map[string]model.User
	touches []time.Time
}

func (f *fakeActivityStore) GetByID(ctx context.Context, id string) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeActivityStore) TouchActivity(ctx context.Context, id string, day time.Time) error {
	u := f.users[id]
	d := day
	u.LastActivityDate = &d
	f.users[id] = u
	f.touches = append(f.touches, day)
	return nil
}

func trackerAt(store *fakeActivityStore, now time.Time) *ActivityTracker {
	tr := NewActivityTracker(store)
	tr.Now = func() time.Time { return now }
	return tr
}

func TestTouch_FirstActivityWrites(t *testing.T) {
	store := &fakeActivityStore{users: map[string]model.User{"u1": {ID: "u1"}}}
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

	require.NoError(t, trackerAt(store, now).Touch(context.Background(), "u1"))
	assert.Len(t, store.touches, 1)
}

func TestTouch_SameDayIsNoOp(t *testing.T) {
	morning := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	store := &fakeActivityStore{users: map[string]model.User{
		"u1": {ID: "u1", LastActivityDate: &morning},
	}}

	require.NoError(t, trackerAt(store, evening).Touch(context.Background(), "u1"))
	assert.Empty(t, store.touches)
}

func TestTouch_NextDayWritesAgain(t *testing.T) {
	yesterday := time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)
	today := time.Date(2025, 3, 10, 0, 30, 0, 0, time.UTC)
	store := &fakeActivityStore{users: map[string]model.User{
		"u1": {ID: "u1", LastActivityDate: &yesterday},
	}}

	require.NoError(t, trackerAt(store, today).Touch(context.Background(), "u1"))
	assert.Len(t, store.touches, 1)
}

func TestTouch_TwiceSameDayWritesOnce(t *testing.T) {
	store := &fakeActivityStore{users: map[string]model.User{"u1": {ID: "u1"}}}
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	tr := trackerAt(store, now)

	require.NoError(t, tr.Touch(context.Background(), "u1"))
	require.NoError(t, tr.Touch(context.Background(), "u1"))
	assert.Len(t, store.touches, 1, "second touch on the same day is absorbed")
}

func TestTouch_MissingUserIsNoOp(t *testing.T) {
	store := &fakeActivityStore{users: map[string]model.User{}}
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

	assert.NoError(t, trackerAt(store, now).Touch(context.Background(), "ghost"))
	assert.Empty(t, store.touches)
}
