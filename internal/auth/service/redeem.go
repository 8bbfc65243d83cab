package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lanternsec/authd/internal/auth/domain"
	"github.com/lanternsec/authd/internal/auth/store"
	"github.com/lanternsec/authd/pkg/cryptox"
	"github.com/lanternsec/authd/pkg/idx"
	"github.com/lanternsec/authd/pkg/slogx"
)

const (
	DefaultEmailVerifyTTL   = 24 * time.Hour
	DefaultPasswordResetTTL = 1 * time.Hour
)

// RedeemService owns single-use secrets: issue one bound to a user and a
// purpose, later redeem it exactly once. Secrets are selector.verifier pairs;
// the selector is stored plaintext for indexed lookup, the verifier only as a
// salted hash.
type RedeemService struct {
	Store  store.Store
	Hasher cryptox.Hasher
}

// Issue mints a fresh secret for the user and persists its record. The
// returned plaintext secret exists nowhere else; it is the caller's job to
// deliver it and to call Compensate if delivery fails.
func (s *RedeemService) Issue(ctx context.Context, userID string, purpose domain.Purpose, ttl time.Duration) (domain.RedeemableToken, string, error) {
	secret, err := cryptox.GenerateSecret()
	if err != nil {
		return domain.RedeemableToken{}, "", err
	}
	selector, verifier, err := cryptox.SplitSecret(secret)
	if err != nil {
		return domain.RedeemableToken{}, "", err
	}
	hash, err := s.Hasher.Hash(verifier)
	if err != nil {
		return domain.RedeemableToken{}, "", err
	}

	now := time.Now().UTC()
	token := domain.RedeemableToken{
		ID:         idx.New().String(),
		UserID:     userID,
		Purpose:    purpose,
		Selector:   selector,
		SecretHash: hash,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
	}
	if err := s.Store.Tokens().CreateToken(ctx, token); err != nil {
		return domain.RedeemableToken{}, "", err
	}
	return token, secret, nil
}

// Redeem consumes a presented secret and returns the owning user id.
//
// Failure modes:
//   - ErrTokenNotFound: malformed secret, unknown selector, or verifier
//     mismatch. Deliberately indistinct so a guesser learns nothing, which is
//     why the verifier is checked before the expiry branch: a wrong verifier
//     never reveals whether the matching record has expired.
//   - ErrTokenExpired: a verified secret whose record's expiry has passed.
//     The record is deleted on detection, so a retry with the same secret
//     reports ErrTokenNotFound.
//   - ErrTokenAlreadyUsed: another redemption won the conditional consume.
//
// Consumption is a conditional update on used_at, so of N concurrent calls
// presenting the same secret exactly one succeeds.
func (s *RedeemService) Redeem(ctx context.Context, purpose domain.Purpose, presented string) (string, error) {
	return s.redeem(ctx, s.Store, purpose, presented)
}

// redeem is Redeem against an explicit store handle, so callers composing
// redemption with further writes can pass their transaction instead.
func (s *RedeemService) redeem(ctx context.Context, st store.Store, purpose domain.Purpose, presented string) (string, error) {
	selector, verifier, err := cryptox.SplitSecret(presented)
	if err != nil {
		return "", ErrTokenNotFound
	}

	token, err := st.Tokens().GetUnusedTokenBySelector(ctx, purpose, selector)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrTokenNotFound
		}
		return "", err
	}

	if err := s.Hasher.Verify(verifier, token.SecretHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return "", ErrTokenNotFound
		}
		return "", err
	}

	now := time.Now().UTC()
	if now.After(token.ExpiresAt) {
		if err := st.Tokens().DeleteToken(ctx, token.ID); err != nil {
			slogx.FromContext(ctx).Warn("failed to delete expired token",
				slog.String("token_id", token.ID), slog.Any("error", err))
		}
		return "", ErrTokenExpired
	}

	if err := st.Tokens().ConsumeToken(ctx, token.ID, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrTokenAlreadyUsed
		}
		return "", err
	}
	return token.UserID, nil
}

// Compensate removes an issued token whose secret could not be delivered,
// so an undeliverable secret is never left redeemable.
func (s *RedeemService) Compensate(ctx context.Context, tokenID string) {
	if err := s.Store.Tokens().DeleteToken(ctx, tokenID); err != nil {
		slogx.FromContext(ctx).Warn("failed to compensate undelivered token",
			slog.String("token_id", tokenID), slog.Any("error", err))
	}
}
