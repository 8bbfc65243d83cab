package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lanternsec/authd/internal/auth/domain"
	"github.com/lanternsec/authd/pkg/idx"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, env *testEnv, email string) domain.User {
	t.Helper()

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: "unused",
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, env.store.Users().CreateUser(context.Background(), user))
	return user
}

func TestRedeemRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := createTestUser(t, env, "redeem@example.com")

	_, secret, err := env.redeem.Issue(ctx, user.ID, domain.PurposeEmailVerify, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, secret)

	subject, err := env.redeem.Redeem(ctx, domain.PurposeEmailVerify, secret)
	require.NoError(t, err)
	require.Equal(t, user.ID, subject)
}

func TestRedeemIsSingleUse(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := createTestUser(t, env, "once@example.com")

	_, secret, err := env.redeem.Issue(ctx, user.ID, domain.PurposePasswordReset, time.Hour)
	require.NoError(t, err)

	_, err = env.redeem.Redeem(ctx, domain.PurposePasswordReset, secret)
	require.NoError(t, err)

	_, err = env.redeem.Redeem(ctx, domain.PurposePasswordReset, secret)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRedeemConcurrentExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := createTestUser(t, env, "race@example.com")

	_, secret, err := env.redeem.Issue(ctx, user.ID, domain.PurposeEmailVerify, time.Hour)
	require.NoError(t, err)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.redeem.Redeem(ctx, domain.PurposeEmailVerify, secret)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else {
				failures++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, successes)
	require.Equal(t, attempts-1, failures)
}

func TestRedeemExpiredThenGone(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := createTestUser(t, env, "expired@example.com")

	_, secret, err := env.redeem.Issue(ctx, user.ID, domain.PurposeEmailVerify, 50*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	_, err = env.redeem.Redeem(ctx, domain.PurposeEmailVerify, secret)
	require.ErrorIs(t, err, ErrTokenExpired)

	// The expired record was deleted on detection.
	_, err = env.redeem.Redeem(ctx, domain.PurposeEmailVerify, secret)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRedeemRejectsWrongSecrets(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := createTestUser(t, env, "wrong@example.com")

	_, secret, err := env.redeem.Issue(ctx, user.ID, domain.PurposeEmailVerify, time.Hour)
	require.NoError(t, err)

	t.Run("malformed", func(t *testing.T) {
		_, err := env.redeem.Redeem(ctx, domain.PurposeEmailVerify, "not-a-secret")
		require.ErrorIs(t, err, ErrTokenNotFound)
	})

	t.Run("wrong purpose", func(t *testing.T) {
		_, err := env.redeem.Redeem(ctx, domain.PurposePasswordReset, secret)
		require.ErrorIs(t, err, ErrTokenNotFound)
	})

	t.Run("valid selector, wrong verifier", func(t *testing.T) {
		_, other, err := env.redeem.Issue(ctx, user.ID, domain.PurposeEmailVerify, time.Hour)
		require.NoError(t, err)

		// Stitch the first secret's selector onto the second's verifier.
		forged := secret[:16] + other[16:]
		_, err = env.redeem.Redeem(ctx, domain.PurposeEmailVerify, forged)
		require.ErrorIs(t, err, ErrTokenNotFound)
	})
}

func TestRedeemWrongVerifierHidesExpiry(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := createTestUser(t, env, "oracle@example.com")

	_, secret, err := env.redeem.Issue(ctx, user.ID, domain.PurposeEmailVerify, 50*time.Millisecond)
	require.NoError(t, err)
	_, other, err := env.redeem.Issue(ctx, user.ID, domain.PurposeEmailVerify, time.Hour)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	// A wrong verifier on an expired record reads the same as an absent one,
	// never as expired.
	forged := secret[:16] + other[16:]
	_, err = env.redeem.Redeem(ctx, domain.PurposeEmailVerify, forged)
	require.ErrorIs(t, err, ErrTokenNotFound)

	// And the forged attempt left the record in place: the holder of the real
	// secret still learns it expired.
	_, err = env.redeem.Redeem(ctx, domain.PurposeEmailVerify, secret)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestRedeemToleratesMultipleOutstandingTokens(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := createTestUser(t, env, "multi@example.com")

	_, first, err := env.redeem.Issue(ctx, user.ID, domain.PurposeEmailVerify, time.Hour)
	require.NoError(t, err)
	_, second, err := env.redeem.Issue(ctx, user.ID, domain.PurposeEmailVerify, time.Hour)
	require.NoError(t, err)

	// Both are live; each redeems exactly once, independently.
	_, err = env.redeem.Redeem(ctx, domain.PurposeEmailVerify, second)
	require.NoError(t, err)
	_, err = env.redeem.Redeem(ctx, domain.PurposeEmailVerify, first)
	require.NoError(t, err)
	_, err = env.redeem.Redeem(ctx, domain.PurposeEmailVerify, first)
	require.ErrorIs(t, err, ErrTokenNotFound)
}
