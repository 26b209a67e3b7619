package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinolib/movie-storefront/internal/model"
)

func purchaseRows(id string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "movie_id", "price", "currency", "purchase_status",
		"purchase_date", "created_at",
	}).AddRow(id, "u1", "m1", 9.99, "USD", "COMPLETED", now, now)
}

func TestPurchaseRepo_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPurchaseRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO purchases")).
		WithArgs(sqlmock.AnyArg(), "u1", "m1", 9.99, "USD", model.PurchaseCompleted).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM purchases WHERE user_id=? AND movie_id=?")).
		WithArgs("u1", "m1").
		WillReturnRows(purchaseRows("p1"))

	p := model.Purchase{UserID: "u1", MovieID: "m1", Price: 9.99}
	require.NoError(t, repo.Create(context.Background(), &p))
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "USD", p.Currency, "currency defaulted on insert")
	assert.Equal(t, model.PurchaseCompleted, p.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepo_CreateDuplicatePair(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPurchaseRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO purchases")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'u1-m1' for key 'uq_purchases_user_movie'"))

	p := model.Purchase{UserID: "u1", MovieID: "m1"}
	err := repo.Create(context.Background(), &p)
	assert.ErrorIs(t, err, ErrAlreadyOwned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepo_FindNotOwned(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPurchaseRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM purchases WHERE user_id=? AND movie_id=?")).
		WithArgs("u1", "m1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "u1", "m1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPurchaseRepo_TotalRevenue(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPurchaseRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(price), 0) FROM purchases WHERE purchase_status=?")).
		WithArgs(model.PurchaseCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(129.87))

	total, err := repo.TotalRevenue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 129.87, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepo_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPurchaseRepo(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"p.id", "p.user_id", "p.movie_id", "p.price", "p.currency", "p.purchase_status", "p.purchase_date", "p.created_at",
		"m.id", "m.title", "m.director", "m.genre", "m.rating", "m.description", "m.cover_color", "m.cover_url", "m.summary", "m.created_at",
	}).AddRow(
		"p1", "u1", "m1", 9.99, "USD", "COMPLETED", now, now,
		"m1", "The Matrix", "Wachowski Sisters", "Sci-Fi", 4.5, "A hacker learns the truth.", "#1c1f40", "https://img.example.com/matrix.png", "Down the rabbit hole.", now,
	)
	mock.ExpectQuery(regexp.QuoteMeta("JOIN movies m ON m.id = p.movie_id")).
		WithArgs("u1").
		WillReturnRows(rows)

	items, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].Purchase.ID)
	assert.Equal(t, "The Matrix", items[0].Movie.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
