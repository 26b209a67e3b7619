// Package service implements the storefront workflows: sign-up/sign-in,
// purchase admission and activity tracking.  Services accept small
// interfaces over the repositories so tests can substitute fakes, and
// every entry point catches unexpected failures at its boundary: callers
// only ever see user-safe messages.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/kinolib/movie-storefront/internal/model"
	"github.com/kinolib/movie-storefront/internal/queue"
	"github.com/kinolib/movie-storefront/internal/repository"
	"github.com/kinolib/movie-storefront/internal/utils"
)

// ErrRateLimited signals that the limiter denied the action.  It is the
// one failure that does not produce a structured result: the handler
// translates it into a redirect to the cooldown page, and no state is
// written.
var ErrRateLimited = errors.New("rate limited")

// UserStore is the slice of the user repository the auth workflow needs.
type UserStore interface {
	Create(ctx context.Context, fullName, email, passwordHash string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// TokenStore persists refresh token digests.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error
}

// Limiter answers allow/deny for a client key (the caller's IP).
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// PublishFunc sends an event to a named queue.  Failures are the
// publisher's problem; workflows fire and forget.
type PublishFunc func(ctx context.Context, queueName string, event interface{}) error

// AuthConfig carries the knobs the auth workflow needs from the app config.
type AuthConfig struct {
	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
}

// Auth orchestrates sign-up and sign-in.
type Auth struct {
	cfg     AuthConfig
	users   UserStore
	tokens  TokenStore
	limiter Limiter
	publish PublishFunc
}

func NewAuth(cfg AuthConfig, users UserStore, tokens TokenStore, limiter Limiter, publish PublishFunc) *Auth {
	return &Auth{cfg: cfg, users: users, tokens: tokens, limiter: limiter, publish: publish}
}

// SignUpParams are the validated inputs to SignUp.
type SignUpParams struct {
	FullName string
	Email    string
	Password string
}

// Validate enforces the sign-up preconditions: name at least 3 runes,
// well-formed email, password at least 8 characters.
func (p SignUpParams) Validate() error {
	if len(strings.TrimSpace(p.FullName)) < 3 {
		return fmt.Errorf("full name must be at least 3 characters")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(p.Email)); err != nil {
		return fmt.Errorf("invalid email address")
	}
	if len(p.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// AuthResult is the uniform outcome of both auth workflows.  Error is a
// user-safe message; internal errors never surface here.
type AuthResult struct {
	Success bool
	Error   string
	User    model.User
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// SignUp creates an account and immediately signs it in.
//
// The limiter is consulted first, keyed by the caller's IP; a denial
// returns ErrRateLimited before anything is written.  A duplicate email
// fails without writes.  The onboarding event is published fire-and-forget
// after the insert: losing it never rolls back the account.  If the
// trailing sign-in fails the account still exists; this inconsistency is
// accepted and reported as such.
func (a *Auth) SignUp(ctx context.Context, p SignUpParams, clientIP string) (AuthResult, error) {
	if !a.limiter.Allow(ctx, clientIP) {
		return AuthResult{}, ErrRateLimited
	}

	email := strings.ToLower(strings.TrimSpace(p.Email))

	if _, err := a.users.GetByEmail(ctx, email); err == nil {
		return AuthResult{Error: "User already exists."}, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		log.Printf("auth: sign-up lookup failed: %v", err)
		return AuthResult{Error: "Something went wrong during sign up."}, nil
	}

	hash, err := utils.HashPassword(p.Password, a.cfg.BcryptCost)
	if err != nil {
		log.Printf("auth: hash password failed: %v", err)
		return AuthResult{Error: "Something went wrong during sign up."}, nil
	}

	user, err := a.users.Create(ctx, strings.TrimSpace(p.FullName), email, hash)
	if err != nil {
		// The unique email key may fire between the check and the insert.
		if errors.Is(err, repository.ErrEmailExists) {
			return AuthResult{Error: "User already exists."}, nil
		}
		log.Printf("auth: create user failed: %v", err)
		return AuthResult{Error: "Something went wrong during sign up."}, nil
	}

	a.publishRegistered(user)

	res, err := a.SignIn(ctx, email, p.Password, clientIP)
	if err != nil || !res.Success {
		return AuthResult{User: user, Error: "Account created but sign-in failed."}, nil
	}
	return res, nil
}

// SignIn verifies credentials and issues a session (access JWT plus a
// rotating refresh token).  Absent users and wrong passwords produce the
// same generic message so callers cannot probe which emails exist.
func (a *Auth) SignIn(ctx context.Context, email, password, clientIP string) (AuthResult, error) {
	if !a.limiter.Allow(ctx, clientIP) {
		return AuthResult{}, ErrRateLimited
	}

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AuthResult{Error: "Invalid credentials"}, nil
		}
		log.Printf("auth: sign-in lookup failed: %v", err)
		return AuthResult{Error: "Something went wrong during sign in."}, nil
	}
	if !utils.VerifyPassword(user.PasswordHash, password) {
		return AuthResult{Error: "Invalid credentials"}, nil
	}

	access, err := utils.NewAccessToken(a.cfg.JWTSecret, user.ID, user.FullName, user.Role, a.cfg.AccessTTLMin)
	if err != nil {
		log.Printf("auth: issue access token failed: %v", err)
		return AuthResult{Error: "Something went wrong during sign in."}, nil
	}
	refresh, err := utils.NewRefreshToken(a.cfg.RefreshTTLDays)
	if err != nil {
		log.Printf("auth: issue refresh token failed: %v", err)
		return AuthResult{Error: "Something went wrong during sign in."}, nil
	}
	if err := a.tokens.StoreRefresh(ctx, user.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		log.Printf("auth: store refresh token failed: %v", err)
		return AuthResult{Error: "Something went wrong during sign in."}, nil
	}

	return AuthResult{Success: true, User: user, Access: access, Refresh: refresh}, nil
}

// publishRegistered fires the onboarding event without blocking the
// request.  The detached context outlives the HTTP request on purpose.
func (a *Auth) publishRegistered(user model.User) {
	if a.publish == nil {
		return
	}
	ev := queue.UserRegisteredEvent{
		UserID:       user.ID,
		FullName:     user.FullName,
		Email:        user.Email,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.publish(ctx, queue.UserRegisteredQueue, ev); err != nil {
			log.Printf("auth: onboarding event publish failed: %v", err)
		}
	}()
}
