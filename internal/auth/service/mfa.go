package service

import (
	"context"
	"errors"
	"time"

	"github.com/lanternsec/authd/internal/auth/audit"
	"github.com/lanternsec/authd/internal/auth/domain"
	"github.com/lanternsec/authd/internal/auth/store"

	"github.com/pquerna/otp/totp"
)

// MFAService manages optional TOTP second factors. Enrollment stages a
// secret; only after the user proves possession with a first valid code does
// login start requiring one.
type MFAService struct {
	Store  store.Store
	Audit  audit.Sink
	Issuer string
}

// Enroll generates a fresh TOTP secret for the user and returns it along
// with the otpauth:// provisioning URL. Re-enrolling before activation
// replaces the staged secret.
func (s *MFAService) Enroll(ctx context.Context, userID string) (secret, url string, err error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return "", "", err
	}
	if user.MFAEnabled() {
		return "", "", ErrMFAAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Email,
	})
	if err != nil {
		return "", "", err
	}

	secret = key.Secret()
	if err := s.Store.Users().UpdateMFASecret(ctx, userID, &secret); err != nil {
		return "", "", err
	}
	return secret, key.URL(), nil
}

// Activate turns the staged secret live once the user presents a valid code.
func (s *MFAService) Activate(ctx context.Context, userID, code string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.MFAEnabled() {
		return ErrMFAAlreadyEnabled
	}
	if user.MFASecret == nil {
		return ErrMFANotEnrolled
	}
	if !totp.Validate(code, *user.MFASecret) {
		return ErrInvalidOTP
	}

	now := time.Now().UTC()
	if err := s.Store.Users().EnableMFA(ctx, userID, now); err != nil {
		return err
	}
	s.record(ctx, audit.Entry{Action: "mfa.enabled", ActorID: userID, At: now})
	return nil
}

// Disable removes the second factor. A valid current code is required so a
// hijacked access token alone cannot strip MFA.
func (s *MFAService) Disable(ctx context.Context, userID, code string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.MFAEnabled() || user.MFASecret == nil {
		return ErrMFANotEnrolled
	}
	if !totp.Validate(code, *user.MFASecret) {
		return ErrInvalidOTP
	}

	if err := s.Store.Users().DisableMFA(ctx, userID); err != nil {
		return err
	}
	s.record(ctx, audit.Entry{Action: "mfa.disabled", ActorID: userID, At: time.Now().UTC()})
	return nil
}

func (s *MFAService) getUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}

func (s *MFAService) record(ctx context.Context, e audit.Entry) {
	if s.Audit == nil {
		return
	}
	s.Audit.Record(ctx, e)
}
