package model

import "time"

// Purchase status values stored in purchases.purchase_status.
const (
	PurchasePending   = "PENDING"
	PurchaseCompleted = "COMPLETED"
	PurchaseRefunded  = "REFUNDED"
)

// Purchase records a movie added to a user's library.  The pair
// (UserID, MovieID) is unique: a user holds at most one purchase record
// per movie, enforced by a key at the storage layer.  Purchase rows are
// only ever inserted, never updated or deleted.
//
// Fields:
//  ID           – CHAR(36) UUID primary key.
//  UserID       – purchasing user.
//  MovieID      – purchased movie.
//  Price        – decimal price; 0 for a free library add.
//  Currency     – ISO currency code, "USD" by default.
//  Status       – PENDING, COMPLETED or REFUNDED.
//  PurchaseDate – when the purchase was made.
//  CreatedAt    – creation timestamp.
type Purchase struct {
	ID           string    // purchases.id
	UserID       string    // purchases.user_id
	MovieID      string    // purchases.movie_id
	Price        float64   // purchases.price (DECIMAL(10,2))
	Currency     string    // purchases.currency
	Status       string    // purchases.purchase_status
	PurchaseDate time.Time // purchases.purchase_date
	CreatedAt    time.Time // purchases.created_at
}
