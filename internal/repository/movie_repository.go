package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/kinolib/movie-storefront/internal/model"
)

// MovieRepo provides access to the 'movies' table.  Movies are created by
// admins and read by the public catalog; there is no update or delete path.
type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

const movieColumns = "id,title,director,genre,rating,description,cover_color,cover_url,summary,created_at"

// Create inserts a movie with a generated UUID and populates the record
// with the stored row.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	m.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO movies (id, title, director, genre, rating, description, cover_color, cover_url, summary) VALUES (?,?,?,?,?,?,?,?,?)",
		m.ID, m.Title, m.Director, m.Genre, m.Rating, m.Description, m.CoverColor, m.CoverURL, m.Summary)
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = stored
	return nil
}

// GetByID fetches a movie by id.  sql.ErrNoRows is returned when the
// movie does not exist.
func (r *MovieRepo) GetByID(ctx context.Context, id string) (model.Movie, error) {
	var m model.Movie
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+movieColumns+" FROM movies WHERE id=? LIMIT 1", id).
		Scan(&m.ID, &m.Title, &m.Director, &m.Genre, &m.Rating, &m.Description,
			&m.CoverColor, &m.CoverURL, &m.Summary, &m.CreatedAt)
	return m, err
}

// List returns movies ordered newest first.  A non-positive limit returns
// the whole catalog, which is what the storefront home page fetches before
// filtering client-side.
func (r *MovieRepo) List(ctx context.Context, limit int) ([]model.Movie, error) {
	q := "SELECT " + movieColumns + " FROM movies ORDER BY created_at DESC"
	args := []interface{}{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []model.Movie
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Director, &m.Genre, &m.Rating,
			&m.Description, &m.CoverColor, &m.CoverURL, &m.Summary, &m.CreatedAt); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// Count returns the total number of movies.
func (r *MovieRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&n)
	return n, err
}
