// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as the
// workflow services to distinguish between failure scenarios without
// parsing driver error strings themselves.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when inserting a user whose email address
// already has an account.
var ErrEmailExists = errors.New("email already exists")

// ErrAlreadyOwned is returned when inserting a purchase for a
// (user, movie) pair that already holds one.  The unique key on
// purchases(user_id, movie_id) raises this even when two requests pass
// the existence pre-check concurrently.
var ErrAlreadyOwned = errors.New("movie already in library")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (code 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
