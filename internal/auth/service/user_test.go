package service

import (
	"context"
	"testing"
	"time"

	"github.com/lanternsec/authd/internal/auth/domain"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	user, pair, err := env.users.Register(ctx, "a@x.com", "Alice", "password1", "127.0.0.1", "cli")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", user.Email)
	require.Equal(t, domain.RoleUser, user.Role)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	_, loginPair, err := env.users.Login(ctx, "a@x.com", "password1", "", "", "")
	require.NoError(t, err)
	require.NotEmpty(t, loginPair.AccessToken)

	_, _, err = env.users.Login(ctx, "a@x.com", "wrong", "", "", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, _, err := env.users.Login(ctx, "ghost@x.com", "whatever", "", "", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, _, err := env.users.Register(ctx, "dup@x.com", "", "password1", "", "")
	require.NoError(t, err)

	_, _, err = env.users.Register(ctx, "DUP@x.com", "", "password2", "", "")
	require.ErrorIs(t, err, ErrEmailInUse)
}

func TestRegisteredPasswordIsHashed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	user, _, err := env.users.Register(ctx, "hashed@x.com", "", "password1", "", "")
	require.NoError(t, err)

	stored, err := env.store.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotEqual(t, "password1", stored.PasswordHash)
	require.Contains(t, stored.PasswordHash, "$argon2id$")
}

func TestLoginWithTOTP(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	user, _, err := env.users.Register(ctx, "mfa@x.com", "", "password1", "", "")
	require.NoError(t, err)

	secret, url, err := env.mfa.Enroll(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, secret)
	require.Contains(t, url, "otpauth://")

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, env.mfa.Activate(ctx, user.ID, code))

	// Password alone no longer logs in.
	_, _, err = env.users.Login(ctx, "mfa@x.com", "password1", "", "", "")
	require.ErrorIs(t, err, ErrMFARequired)

	_, _, err = env.users.Login(ctx, "mfa@x.com", "password1", "000000", "", "")
	require.ErrorIs(t, err, ErrInvalidOTP)

	code, err = totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	_, pair, err := env.users.Login(ctx, "mfa@x.com", "password1", code, "", "")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)

	// Disabling requires a valid code, then password alone works again.
	require.ErrorIs(t, env.mfa.Disable(ctx, user.ID, "000000"), ErrInvalidOTP)
	code, err = totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, env.mfa.Disable(ctx, user.ID, code))

	_, _, err = env.users.Login(ctx, "mfa@x.com", "password1", "", "", "")
	require.NoError(t, err)
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	user, pair, err := env.users.Register(ctx, "gone@x.com", "", "password1", "", "")
	require.NoError(t, err)

	require.NoError(t, env.users.DeleteUser(ctx, "admin-1", user.ID))
	require.ErrorIs(t, env.users.DeleteUser(ctx, "admin-1", user.ID), ErrUserNotFound)

	// The session went with the user.
	_, err = env.sessions.FindActiveByRefreshSecret(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)
}
