// Package queue defines message payloads exchanged over the message broker
// together with their publisher and background consumer.
package queue

// UserRegisteredEvent is published after a successful sign-up.  It carries
// enough information for the onboarding consumer to greet the user without
// querying the primary database.  Delivery is best effort: a lost event
// never rolls back the account.
type UserRegisteredEvent struct {
	UserID       string `json:"user_id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	RegisteredAt string `json:"registered_at"`
}

// PurchaseCompletedEvent is published when a movie is added to a user's
// library.
type PurchaseCompletedEvent struct {
	PurchaseID  string  `json:"purchase_id"`
	UserID      string  `json:"user_id"`
	MovieID     string  `json:"movie_id"`
	MovieTitle  string  `json:"movie_title"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	PurchasedAt string  `json:"purchased_at"`
}
