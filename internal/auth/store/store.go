package store

import (
	"context"
	"errors"
	"time"

	"github.com/lanternsec/authd/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, the
// in-memory fake) implement this. Sub-repositories keep concerns tidy and let
// services depend on exactly the operations they use.
type Store interface {
	Users() Users
	Sessions() Sessions
	Tokens() Tokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns nil
	// and rolling back otherwise. Preferred over Tx for multi-step writes
	// that must be atomic (e.g. the password reset cascade).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the store connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is the login lookup; email is matched exactly as stored.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// UpdatePasswordHash overwrites the password hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// SetVerified flips the email-verified flag.
	SetVerified(ctx context.Context, userID string) error

	// UpdateName replaces the display name.
	UpdateName(ctx context.Context, userID, name string) error

	// UpdateMFASecret stores a pending TOTP secret (nil clears it).
	UpdateMFASecret(ctx context.Context, userID string, secret *string) error

	// EnableMFA records the activation timestamp; DisableMFA clears both the
	// timestamp and the secret.
	EnableMFA(ctx context.Context, userID string, at time.Time) error
	DisableMFA(ctx context.Context, userID string) error

	// ListUsers returns all users ordered by creation (newest first).
	ListUsers(ctx context.Context) ([]domain.User, error)

	// DeleteUser cascades to sessions and redeemable tokens (per schema).
	DeleteUser(ctx context.Context, userID string) error
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error

	GetSessionByID(ctx context.Context, id string) (domain.Session, error)

	// GetSessionByRefreshSelector returns the session holding the selector,
	// revoked or not. Distinguishing revoked matches from absent ones is the
	// caller's job (replay detection).
	GetSessionByRefreshSelector(ctx context.Context, selector string) (domain.Session, error)

	// RotateSession atomically overwrites the refresh selector/hash and
	// expiry. The update is conditioned on revoked = false at write time, so
	// a session revoked after the lookup cannot be resurrected; returns
	// ErrNotFound when the condition no longer holds.
	RotateSession(ctx context.Context, sessionID, selector, hash string, expiresAt time.Time) error

	// RevokeSession sets revoked/revoked_at. Idempotent: revoking an already
	// revoked session is a no-op, unknown ids return ErrNotFound.
	RevokeSession(ctx context.Context, sessionID string, at time.Time) error

	// RevokeAllForUser bulk-revokes every non-revoked session of a user.
	RevokeAllForUser(ctx context.Context, userID string, at time.Time) error

	// ListActiveByUser returns the user's non-revoked, unexpired sessions.
	ListActiveByUser(ctx context.Context, userID string) ([]domain.Session, error)

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context) error
}

type Tokens interface {
	CreateToken(ctx context.Context, t domain.RedeemableToken) error

	// GetUnusedTokenBySelector returns the not-yet-consumed token holding the
	// selector for the given purpose. Expired rows are still returned so the
	// caller can distinguish TokenExpired from TokenNotFound and garbage
	// collect them.
	GetUnusedTokenBySelector(ctx context.Context, purpose domain.Purpose, selector string) (domain.RedeemableToken, error)

	// ConsumeToken sets used_at, conditioned on used_at IS NULL. Exactly one
	// of any number of concurrent callers wins; losers get ErrNotFound.
	ConsumeToken(ctx context.Context, id string, at time.Time) error

	// DeleteToken removes a token row (expiry cleanup, mail compensation).
	DeleteToken(ctx context.Context, id string) error

	// DeleteExpiredTokens is housekeeping.
	DeleteExpiredTokens(ctx context.Context) error
}
