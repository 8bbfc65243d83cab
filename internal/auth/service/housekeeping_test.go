package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/lanternsec/authd/internal/auth/domain"
	"github.com/lanternsec/authd/internal/auth/store"
	"github.com/lanternsec/authd/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingSweepsExpiredRows(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := createTestUser(t, env, "sweep@example.com")

	past := time.Now().UTC().Add(-time.Hour)

	expiredSession := domain.Session{
		ID: idx.New().String(), UserID: user.ID,
		RefreshSelector: "dead-selector", RefreshHash: "hash",
		ExpiresAt: past, CreatedAt: past, UpdatedAt: past,
	}
	require.NoError(t, env.store.Sessions().CreateSession(ctx, expiredSession))

	expiredToken := domain.RedeemableToken{
		ID: idx.New().String(), UserID: user.ID,
		Purpose: domain.PurposeEmailVerify, Selector: "dead-token", SecretHash: "hash",
		ExpiresAt: past, CreatedAt: past,
	}
	require.NoError(t, env.store.Tokens().CreateToken(ctx, expiredToken))

	liveSession, _, err := env.sessions.Issue(ctx, user.ID, "", "")
	require.NoError(t, err)

	hk := NewHousekeepingService(env.store, slog.Default(), time.Hour)
	hk.sweep()

	_, err = env.store.Sessions().GetSessionByID(ctx, expiredSession.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = env.store.Tokens().GetUnusedTokenBySelector(ctx, domain.PurposeEmailVerify, "dead-token")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = env.store.Sessions().GetSessionByID(ctx, liveSession.ID)
	require.NoError(t, err)
}

func TestHousekeepingStartStop(t *testing.T) {
	env := newTestEnv(t)

	hk := NewHousekeepingService(env.store, slog.Default(), 10*time.Millisecond)
	hk.Start()
	time.Sleep(30 * time.Millisecond)
	hk.Stop()
}
