package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/kinolib/movie-storefront/internal/model"
	"github.com/kinolib/movie-storefront/internal/queue"
	"github.com/kinolib/movie-storefront/internal/repository"
)

// MovieStore is the slice of the movie repository the purchase workflow
// needs.
type MovieStore interface {
	GetByID(ctx context.Context, id string) (model.Movie, error)
}

// PurchaseStore finds and inserts purchase rows.
type PurchaseStore interface {
	Find(ctx context.Context, userID, movieID string) (model.Purchase, error)
	Create(ctx context.Context, p *model.Purchase) error
}

// Purchases implements the purchase-admission workflow.
type Purchases struct {
	movies    MovieStore
	purchases PurchaseStore
	publish   PublishFunc
}

func NewPurchases(movies MovieStore, purchases PurchaseStore, publish PublishFunc) *Purchases {
	return &Purchases{movies: movies, purchases: purchases, publish: publish}
}

// PurchaseResult is the uniform outcome of PurchaseMovie.
type PurchaseResult struct {
	Success  bool
	Error    string
	Purchase model.Purchase
}

const (
	msgMovieNotFound = "Movie not found"
	msgAlreadyOwned  = "You have already added this movie to your library"
	msgPurchaseFail  = "An error occurred while adding the movie to your library"
)

// PurchaseMovie adds a movie to the user's library.
//
// The existing-purchase check is only the friendly path: two concurrent
// calls can both pass it, so the insert itself relies on the unique
// (user_id, movie_id) key and a constraint rejection is reported the same
// way as a pre-checked duplicate.  price may be nil for a free library
// add (stored as 0 USD).
func (s *Purchases) PurchaseMovie(ctx context.Context, userID, movieID string, price *float64) PurchaseResult {
	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PurchaseResult{Error: msgMovieNotFound}
		}
		log.Printf("purchase: movie lookup failed: %v", err)
		return PurchaseResult{Error: msgPurchaseFail}
	}

	if _, err := s.purchases.Find(ctx, userID, movieID); err == nil {
		return PurchaseResult{Error: msgAlreadyOwned}
	} else if !errors.Is(err, sql.ErrNoRows) {
		log.Printf("purchase: existing purchase lookup failed: %v", err)
		return PurchaseResult{Error: msgPurchaseFail}
	}

	p := model.Purchase{
		UserID:   userID,
		MovieID:  movieID,
		Currency: "USD",
		Status:   model.PurchaseCompleted,
	}
	if price != nil {
		p.Price = *price
	}
	if err := s.purchases.Create(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrAlreadyOwned) {
			// Lost the race: someone inserted between the check and now.
			return PurchaseResult{Error: msgAlreadyOwned}
		}
		log.Printf("purchase: insert failed: %v", err)
		return PurchaseResult{Error: msgPurchaseFail}
	}

	s.publishCompleted(p, movie.Title)
	return PurchaseResult{Success: true, Purchase: p}
}

func (s *Purchases) publishCompleted(p model.Purchase, title string) {
	if s.publish == nil {
		return
	}
	ev := queue.PurchaseCompletedEvent{
		PurchaseID:  p.ID,
		UserID:      p.UserID,
		MovieID:     p.MovieID,
		MovieTitle:  title,
		Price:       p.Price,
		Currency:    p.Currency,
		PurchasedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.publish(ctx, queue.PurchaseCompletedQueue, ev); err != nil {
			log.Printf("purchase: event publish failed: %v", err)
		}
	}()
}
