package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinolib/movie-storefront/internal/model"
	"github.com/kinolib/movie-storefront/internal/repository"
)

type fakeMovieStore struct {
	movies map[string]model.Movie
}

func (f *fakeMovieStore) GetByID(ctx context.Context, id string) (model.Movie, error) {
	m, ok := f.movies[id]
	if !ok {
		return model.Movie{}, sql.ErrNoRows
	}
	return m, nil
}

type fakePurchaseStore struct {
	owned   map[string]model.Purchase // key: userID+"/"+movieID
	created []model.Purchase

	findErr   error
	createErr error
}

func newFakePurchaseStore() *fakePurchaseStore {
	return &fakePurchaseStore{owned: map[string]model.Purchase{}}
}

func (f *fakePurchaseStore) Find(ctx context.Context, userID, movieID string) (model.Purchase, error) {
	if f.findErr != nil {
		return model.Purchase{}, f.findErr
	}
	p, ok := f.owned[userID+"/"+movieID]
	if !ok {
		return model.Purchase{}, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakePurchaseStore) Create(ctx context.Context, p *model.Purchase) error {
	if f.createErr != nil {
		return f.createErr
	}
	p.ID = "p1"
	f.owned[p.UserID+"/"+p.MovieID] = *p
	f.created = append(f.created, *p)
	return nil
}

func oneMovieStore() *fakeMovieStore {
	return &fakeMovieStore{movies: map[string]model.Movie{
		"m1": {ID: "m1", Title: "The Matrix"},
	}}
}

func TestPurchaseMovie_Success(t *testing.T) {
	store := newFakePurchaseStore()
	svc := NewPurchases(oneMovieStore(), store, nil)

	res := svc.PurchaseMovie(context.Background(), "u1", "m1", nil)
	require.True(t, res.Success)
	assert.Empty(t, res.Error)

	require.Len(t, store.created, 1)
	p := store.created[0]
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "m1", p.MovieID)
	assert.Equal(t, 0.0, p.Price, "omitted price defaults to a free add")
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, model.PurchaseCompleted, p.Status)

	// The purchase is findable afterwards.
	found, err := store.Find(context.Background(), "u1", "m1")
	require.NoError(t, err)
	assert.Equal(t, "p1", found.ID)
}

func TestPurchaseMovie_SuppliedPrice(t *testing.T) {
	store := newFakePurchaseStore()
	svc := NewPurchases(oneMovieStore(), store, nil)

	price := 12.99
	res := svc.PurchaseMovie(context.Background(), "u1", "m1", &price)
	require.True(t, res.Success)
	assert.Equal(t, 12.99, store.created[0].Price)
}

func TestPurchaseMovie_MovieNotFound(t *testing.T) {
	store := newFakePurchaseStore()
	svc := NewPurchases(oneMovieStore(), store, nil)

	res := svc.PurchaseMovie(context.Background(), "u1", "no-such-movie", nil)
	assert.False(t, res.Success)
	assert.Equal(t, "Movie not found", res.Error)
	assert.Empty(t, store.created)
}

func TestPurchaseMovie_AlreadyOwned(t *testing.T) {
	store := newFakePurchaseStore()
	store.owned["u1/m1"] = model.Purchase{ID: "p0", UserID: "u1", MovieID: "m1"}
	svc := NewPurchases(oneMovieStore(), store, nil)

	res := svc.PurchaseMovie(context.Background(), "u1", "m1", nil)
	assert.False(t, res.Success)
	assert.Equal(t, "You have already added this movie to your library", res.Error)
	assert.Empty(t, store.created, "no second insert")
}

func TestPurchaseMovie_DuplicateRace(t *testing.T) {
	// Find sees nothing but the insert hits the unique key: the caller
	// gets the same already-owned message as the pre-checked path.
	store := newFakePurchaseStore()
	store.createErr = repository.ErrAlreadyOwned
	svc := NewPurchases(oneMovieStore(), store, nil)

	res := svc.PurchaseMovie(context.Background(), "u1", "m1", nil)
	assert.False(t, res.Success)
	assert.Equal(t, "You have already added this movie to your library", res.Error)
}

func TestPurchaseMovie_InsertFailureIsGeneric(t *testing.T) {
	store := newFakePurchaseStore()
	store.createErr = errors.New("deadlock found when trying to get lock")
	svc := NewPurchases(oneMovieStore(), store, nil)

	res := svc.PurchaseMovie(context.Background(), "u1", "m1", nil)
	assert.False(t, res.Success)
	assert.Equal(t, "An error occurred while adding the movie to your library", res.Error)
	assert.NotContains(t, res.Error, "deadlock")
}
