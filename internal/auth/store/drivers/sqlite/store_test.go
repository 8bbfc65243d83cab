package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lanternsec/authd/internal/auth/domain"
	"github.com/lanternsec/authd/internal/auth/store"
	"github.com/stretchr/testify/require"
)

var _ store.Store = (*Store)(nil)

func newStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st *Store, id, email string) {
	t.Helper()

	now := time.Now().UTC()
	require.NoError(t, st.Users().CreateUser(context.Background(), domain.User{
		ID: id, Email: email, PasswordHash: "hash", Role: domain.RoleUser,
		CreatedAt: now, UpdatedAt: now,
	}))
}

func TestUniqueEmailViolation(t *testing.T) {
	st := newStore(t)
	seedUser(t, st, "u1", "dup@x.com")

	now := time.Now().UTC()
	err := st.Users().CreateUser(context.Background(), domain.User{
		ID: "u2", Email: "dup@x.com", PasswordHash: "hash", Role: domain.RoleUser,
		CreatedAt: now, UpdatedAt: now,
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestRevokeSessionIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	seedUser(t, st, "u1", "a@x.com")

	now := time.Now().UTC()
	require.NoError(t, st.Sessions().CreateSession(ctx, domain.Session{
		ID: "s1", UserID: "u1", RefreshSelector: "sel", RefreshHash: "h",
		ExpiresAt: now.Add(time.Hour), CreatedAt: now, UpdatedAt: now,
	}))

	require.NoError(t, st.Sessions().RevokeSession(ctx, "s1", now))
	require.NoError(t, st.Sessions().RevokeSession(ctx, "s1", now))
	require.ErrorIs(t, st.Sessions().RevokeSession(ctx, "missing", now), store.ErrNotFound)

	s, err := st.Sessions().GetSessionByID(ctx, "s1")
	require.NoError(t, err)
	require.True(t, s.Revoked)
	require.NotNil(t, s.RevokedAt)
}

func TestRotateConditionedOnNotRevoked(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	seedUser(t, st, "u1", "a@x.com")

	now := time.Now().UTC()
	require.NoError(t, st.Sessions().CreateSession(ctx, domain.Session{
		ID: "s1", UserID: "u1", RefreshSelector: "sel", RefreshHash: "h",
		ExpiresAt: now.Add(time.Hour), CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, st.Sessions().RevokeSession(ctx, "s1", now))

	err := st.Sessions().RotateSession(ctx, "s1", "sel2", "h2", now.Add(time.Hour))
	require.ErrorIs(t, err, store.ErrNotFound)

	// The revoked session kept its old selector; nothing was resurrected.
	s, err := st.Sessions().GetSessionByID(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "sel", s.RefreshSelector)
	require.True(t, s.Revoked)
}

func TestForeignKeyCascade(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	seedUser(t, st, "u1", "a@x.com")

	now := time.Now().UTC()
	require.NoError(t, st.Sessions().CreateSession(ctx, domain.Session{
		ID: "s1", UserID: "u1", RefreshSelector: "sel", RefreshHash: "h",
		ExpiresAt: now.Add(time.Hour), CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, st.Tokens().CreateToken(ctx, domain.RedeemableToken{
		ID: "t1", UserID: "u1", Purpose: domain.PurposeEmailVerify,
		Selector: "tok", SecretHash: "h", ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	}))

	require.NoError(t, st.Users().DeleteUser(ctx, "u1"))

	_, err := st.Sessions().GetSessionByID(ctx, "s1")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Tokens().GetUnusedTokenBySelector(ctx, domain.PurposeEmailVerify, "tok")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestConsumeTokenConditional(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	seedUser(t, st, "u1", "a@x.com")

	now := time.Now().UTC()
	require.NoError(t, st.Tokens().CreateToken(ctx, domain.RedeemableToken{
		ID: "t1", UserID: "u1", Purpose: domain.PurposeEmailVerify,
		Selector: "tok", SecretHash: "h", ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	}))

	require.NoError(t, st.Tokens().ConsumeToken(ctx, "t1", now))
	require.ErrorIs(t, st.Tokens().ConsumeToken(ctx, "t1", now), store.ErrNotFound)

	// A consumed token no longer matches the unused lookup.
	_, err := st.Tokens().GetUnusedTokenBySelector(ctx, domain.PurposeEmailVerify, "tok")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	sentinel := errors.New("boom")
	err := st.WithTx(ctx, func(tx store.Tx) error {
		now := time.Now().UTC()
		if err := tx.Users().CreateUser(ctx, domain.User{
			ID: "u1", Email: "tx@x.com", PasswordHash: "h", Role: domain.RoleUser,
			CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, err = st.Users().GetUserByEmail(ctx, "tx@x.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}
