package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRefreshRotatesPair(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	user, pair, err := env.users.Register(ctx, "refresh@x.com", "", "password1", "", "")
	require.NoError(t, err)

	next, err := env.tokens.Refresh(ctx, pair.RefreshToken, "", "")
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, next.RefreshToken)
	require.NotEmpty(t, next.AccessToken)

	// The presented secret died with the rotation.
	_, err = env.tokens.Refresh(ctx, pair.RefreshToken, "", "")
	require.ErrorIs(t, err, ErrUnauthorized)

	// The rotated secret keeps working and carries the same user.
	claims, err := env.tokens.Signer.Verifier("authd-test").Verify(next.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)

	again, err := env.tokens.Refresh(ctx, next.RefreshToken, "", "")
	require.NoError(t, err)
	require.NotEmpty(t, again.AccessToken)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.tokens.Refresh(ctx, "definitely-not-a-refresh-token", "", "")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAccessTokenClaims(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	user, pair, err := env.users.Register(ctx, "claims@x.com", "", "password1", "", "")
	require.NoError(t, err)

	claims, err := env.tokens.Signer.Verifier("authd-test").Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
	require.Equal(t, user.Role, claims.Role)
	require.NotEmpty(t, claims.SID)
}
