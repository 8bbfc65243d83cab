package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lanternsec/authd/internal/auth/domain"
	"github.com/lanternsec/authd/internal/auth/store"
	"github.com/stretchr/testify/require"
)

var _ store.Store = (*Store)(nil)

func TestConsumeTokenSingleWinner(t *testing.T) {
	ctx := context.Background()
	st := NewStore()

	now := time.Now().UTC()
	require.NoError(t, st.Users().CreateUser(ctx, domain.User{ID: "u1", Email: "u1@x.com"}))
	require.NoError(t, st.Tokens().CreateToken(ctx, domain.RedeemableToken{
		ID: "t1", UserID: "u1", Purpose: domain.PurposeEmailVerify,
		Selector: "sel", SecretHash: "hash", ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	}))

	const attempts = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := st.Tokens().ConsumeToken(ctx, "t1", time.Now().UTC()); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, wins)
}

func TestRotateFailsOnRevokedSession(t *testing.T) {
	ctx := context.Background()
	st := NewStore()

	now := time.Now().UTC()
	require.NoError(t, st.Users().CreateUser(ctx, domain.User{ID: "u1", Email: "u1@x.com"}))
	require.NoError(t, st.Sessions().CreateSession(ctx, domain.Session{
		ID: "s1", UserID: "u1", RefreshSelector: "sel", RefreshHash: "hash",
		ExpiresAt: now.Add(time.Hour), CreatedAt: now, UpdatedAt: now,
	}))

	require.NoError(t, st.Sessions().RevokeSession(ctx, "s1", now))
	err := st.Sessions().RotateSession(ctx, "s1", "sel2", "hash2", now.Add(time.Hour))
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	st := NewStore()

	now := time.Now().UTC()
	require.NoError(t, st.Users().CreateUser(ctx, domain.User{ID: "u1", Email: "u1@x.com"}))
	require.NoError(t, st.Sessions().CreateSession(ctx, domain.Session{
		ID: "s1", UserID: "u1", RefreshSelector: "sel", RefreshHash: "h",
		ExpiresAt: now.Add(time.Hour), CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, st.Tokens().CreateToken(ctx, domain.RedeemableToken{
		ID: "t1", UserID: "u1", Purpose: domain.PurposePasswordReset,
		Selector: "sel", SecretHash: "h", ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	}))

	require.NoError(t, st.Users().DeleteUser(ctx, "u1"))

	_, err := st.Sessions().GetSessionByID(ctx, "s1")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Tokens().GetUnusedTokenBySelector(ctx, domain.PurposePasswordReset, "sel")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestListUsersNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := NewStore()

	// ULIDs are lexicographically ordered by creation time; plain letters
	// stand in for them here.
	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, st.Users().CreateUser(ctx, domain.User{ID: id, Email: id + "@x.com"}))
	}

	users, err := st.Users().ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.Equal(t, "c", users[0].ID)
	require.Equal(t, "b", users[1].ID)
	require.Equal(t, "a", users[2].ID)
}

func TestDuplicateEmailRejected(t *testing.T) {
	ctx := context.Background()
	st := NewStore()

	require.NoError(t, st.Users().CreateUser(ctx, domain.User{ID: "u1", Email: "dup@x.com"}))
	err := st.Users().CreateUser(ctx, domain.User{ID: "u2", Email: "dup@x.com"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}
