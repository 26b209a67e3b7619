package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/kinolib/movie-storefront/internal/model"
)

// PurchaseRepo provides access to the 'purchases' table.  Purchase rows
// are insert-only; duplicate (user, movie) pairs are rejected by the
// uq_purchases_user_movie key.
type PurchaseRepo struct{ DB *sql.DB }

func NewPurchaseRepo(db *sql.DB) *PurchaseRepo { return &PurchaseRepo{DB: db} }

const purchaseColumns = "id,user_id,movie_id,price,currency,purchase_status,purchase_date,created_at"

// Create inserts a purchase with a generated UUID and populates the
// record with the stored row.  A duplicate-key rejection from the unique
// (user_id, movie_id) constraint is translated to ErrAlreadyOwned so the
// workflow never sees a raw driver error for the concurrent-purchase race.
func (r *PurchaseRepo) Create(ctx context.Context, p *model.Purchase) error {
	p.ID = uuid.NewString()
	if p.Currency == "" {
		p.Currency = "USD"
	}
	if p.Status == "" {
		p.Status = model.PurchaseCompleted
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO purchases (id, user_id, movie_id, price, currency, purchase_status) VALUES (?,?,?,?,?,?)",
		p.ID, p.UserID, p.MovieID, p.Price, p.Currency, p.Status)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrAlreadyOwned
		}
		return err
	}
	stored, err := r.Find(ctx, p.UserID, p.MovieID)
	if err != nil {
		return err
	}
	*p = stored
	return nil
}

// Find returns the purchase for a (user, movie) pair.  sql.ErrNoRows is
// returned when the user does not own the movie.
func (r *PurchaseRepo) Find(ctx context.Context, userID, movieID string) (model.Purchase, error) {
	var p model.Purchase
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+purchaseColumns+" FROM purchases WHERE user_id=? AND movie_id=? LIMIT 1",
		userID, movieID).
		Scan(&p.ID, &p.UserID, &p.MovieID, &p.Price, &p.Currency, &p.Status,
			&p.PurchaseDate, &p.CreatedAt)
	return p, err
}

// LibraryItem pairs a purchase with the movie it refers to, for the
// "my library" listing.
type LibraryItem struct {
	Purchase model.Purchase
	Movie    model.Movie
}

// ListByUser returns all purchases of a user joined with their movies,
// newest purchase first.
func (r *PurchaseRepo) ListByUser(ctx context.Context, userID string) ([]LibraryItem, error) {
	const q = `SELECT p.id, p.user_id, p.movie_id, p.price, p.currency, p.purchase_status, p.purchase_date, p.created_at,
                      m.id, m.title, m.director, m.genre, m.rating, m.description, m.cover_color, m.cover_url, m.summary, m.created_at
               FROM purchases p
               JOIN movies m ON m.id = p.movie_id
               WHERE p.user_id = ?
               ORDER BY p.purchase_date DESC`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []LibraryItem
	for rows.Next() {
		var it LibraryItem
		if err := rows.Scan(
			&it.Purchase.ID, &it.Purchase.UserID, &it.Purchase.MovieID, &it.Purchase.Price,
			&it.Purchase.Currency, &it.Purchase.Status, &it.Purchase.PurchaseDate, &it.Purchase.CreatedAt,
			&it.Movie.ID, &it.Movie.Title, &it.Movie.Director, &it.Movie.Genre, &it.Movie.Rating,
			&it.Movie.Description, &it.Movie.CoverColor, &it.Movie.CoverURL, &it.Movie.Summary, &it.Movie.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Count returns the total number of purchases.
func (r *PurchaseRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM purchases").Scan(&n)
	return n, err
}

// TotalRevenue sums the price of COMPLETED purchases.
func (r *PurchaseRepo) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(price), 0) FROM purchases WHERE purchase_status=?",
		model.PurchaseCompleted).Scan(&total)
	return total, err
}
