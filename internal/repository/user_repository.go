package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kinolib/movie-storefront/internal/model"
)

// UserRepo provides access to the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,full_name,email,password_hash,role,status,last_activity_date,created_at,updated_at"

// Create inserts a user with a generated UUID, default role USER and
// status PENDING, and returns the stored row.  The password must already
// be hashed by the caller.
func (r *UserRepo) Create(ctx context.Context, fullName, email, passwordHash string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, full_name, email, password_hash) VALUES (?,?,?,?)",
		id, fullName, email, passwordHash)
	if err != nil {
		if isDuplicateKey(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// TouchActivity sets last_activity_date to the given day.  The activity
// tracker calls this at most once per user per calendar day.
func (r *UserRepo) TouchActivity(ctx context.Context, id string, day time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET last_activity_date=? WHERE id=?",
		day.UTC().Format("2006-01-02"), id)
	return err
}

// Count returns the total number of users.
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

// List returns all users ordered newest first, for the admin users table.
func (r *UserRepo) List(ctx context.Context, limit int) ([]model.User, error) {
	q := "SELECT " + userColumns + " FROM users ORDER BY created_at DESC"
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

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	return scanUser(row)
}

func scanUser(s rowScanner) (model.User, error) {
	var (
		u        model.User
		activity sql.NullTime
	)
	err := s.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role,
		&u.Status, &activity, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if activity.Valid {
		t := activity.Time
		u.LastActivityDate = &t
	}
	return u, nil
}
