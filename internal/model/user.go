package model

import "time"

// Role values stored in users.role.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Status values stored in users.status.  New accounts start as PENDING
// and are moved to APPROVED or REJECTED by an admin.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// User represents an account record as stored in the `users` table.
// Each field corresponds to a column in the database.  Handlers define
// separate response types with JSON tags; this struct is used by the
// repository and service layers only.
//
// Fields:
//  ID               – CHAR(36) UUID primary key.
//  FullName         – display name shown in the session and admin tables.
//  Email            – unique email address (lower-cased before storage).
//  PasswordHash     – bcrypt hashed password.
//  Role             – USER or ADMIN.
//  Status           – PENDING, APPROVED or REJECTED.
//  LastActivityDate – day of the user's most recent visit (nil until first
//                     tracked visit; day granularity, UTC).
//  CreatedAt        – timestamp of creation.
//  UpdatedAt        – timestamp of last update.
type User struct {
	ID               string     // users.id
	FullName         string     // users.full_name
	Email            string     // users.email
	PasswordHash     string     // users.password_hash
	Role             string     // users.role
	Status           string     // users.status
	LastActivityDate *time.Time // users.last_activity_date (nullable DATE)
	CreatedAt        time.Time  // users.created_at
	UpdatedAt        time.Time  // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    string     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
