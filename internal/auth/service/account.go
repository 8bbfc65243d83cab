package service

import (
	"context"
	"errors"
	"time"

	"github.com/lanternsec/authd/internal/auth/audit"
	"github.com/lanternsec/authd/internal/auth/domain"
	"github.com/lanternsec/authd/internal/auth/events"
	"github.com/lanternsec/authd/internal/auth/mail"
	"github.com/lanternsec/authd/internal/auth/store"
	"github.com/lanternsec/authd/pkg/cryptox"
)

// AccountService runs the email verification and password reset flows:
// issue a single-use secret, mail it, redeem it later with its cascading
// side effects.
type AccountService struct {
	Store  store.Store
	Redeem *RedeemService
	Mailer mail.Mailer
	Events events.Emitter
	Audit  audit.Sink

	AppURL    string
	VerifyTTL time.Duration
	ResetTTL  time.Duration
}

func (s *AccountService) verifyTTL() time.Duration {
	if s.VerifyTTL > 0 {
		return s.VerifyTTL
	}
	return DefaultEmailVerifyTTL
}

func (s *AccountService) resetTTL() time.Duration {
	if s.ResetTTL > 0 {
		return s.ResetTTL
	}
	return DefaultPasswordResetTTL
}

// RequestEmailVerification issues a verification secret and mails it. If the
// mail cannot be sent the secret is deleted again and ErrDeliveryFailure is
// returned, so no live secret exists that the user can never receive.
func (s *AccountService) RequestEmailVerification(ctx context.Context, userID string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.Verified {
		return nil
	}

	token, secret, err := s.Redeem.Issue(ctx, user.ID, domain.PurposeEmailVerify, s.verifyTTL())
	if err != nil {
		return err
	}

	msg := mail.VerifyEmailMessage(user.Email, s.AppURL, secret)
	if err := s.Mailer.Send(ctx, msg); err != nil {
		s.Redeem.Compensate(ctx, token.ID)
		return errors.Join(ErrDeliveryFailure, err)
	}

	s.record(ctx, audit.Entry{Action: "email_verify.requested", ActorID: user.ID, Subject: user.Email, At: time.Now().UTC()})
	return nil
}

// ConfirmEmailVerification redeems a verification secret and marks the owner
// verified. Redemption and the flag flip commit together: a failed write
// rolls the consume back, so the secret stays redeemable and a retry works.
func (s *AccountService) ConfirmEmailVerification(ctx context.Context, secret string) error {
	var userID string
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		uid, err := s.Redeem.redeem(ctx, tx, domain.PurposeEmailVerify, secret)
		if err != nil {
			return err
		}
		if err := tx.Users().SetVerified(ctx, uid); err != nil {
			return err
		}
		userID = uid
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(ctx, events.UserVerified, userID, nil)
	s.record(ctx, audit.Entry{Action: "email_verify.confirmed", ActorID: userID, At: time.Now().UTC()})
	return nil
}

// RequestPasswordReset issues a reset secret and mails it to the given
// address. An unknown address is a silent success so the endpoint cannot be
// used to enumerate accounts; a delivery failure for a known address is
// ErrDeliveryFailure with the secret compensated away.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	token, secret, err := s.Redeem.Issue(ctx, user.ID, domain.PurposePasswordReset, s.resetTTL())
	if err != nil {
		return err
	}

	msg := mail.PasswordResetMessage(user.Email, s.AppURL, secret)
	if err := s.Mailer.Send(ctx, msg); err != nil {
		s.Redeem.Compensate(ctx, token.ID)
		return errors.Join(ErrDeliveryFailure, err)
	}

	s.record(ctx, audit.Entry{Action: "password_reset.requested", ActorID: user.ID, Subject: user.Email, At: time.Now().UTC()})
	return nil
}

// ConfirmPasswordReset redeems a reset secret, overwrites the password hash
// and revokes every existing session of the user, so no login made with the
// old password survives the reset. The three writes run in one transaction:
// a failure anywhere rolls everything back, leaving the secret unconsumed and
// the reset retryable rather than half-applied.
func (s *AccountService) ConfirmPasswordReset(ctx context.Context, secret, newPassword string) error {
	// Hashing is deliberately expensive; do it before the transaction opens.
	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	var userID string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		uid, err := s.Redeem.redeem(ctx, tx, domain.PurposePasswordReset, secret)
		if err != nil {
			return err
		}
		if err := tx.Users().UpdatePasswordHash(ctx, uid, hash); err != nil {
			return err
		}
		if err := tx.Sessions().RevokeAllForUser(ctx, uid, time.Now().UTC()); err != nil {
			return err
		}
		userID = uid
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(ctx, events.UserPasswordChanged, userID, nil)
	s.emit(ctx, events.SessionRevoked, userID, map[string]string{"scope": "all"})
	s.record(ctx, audit.Entry{Action: "password_reset.confirmed", ActorID: userID, At: time.Now().UTC()})
	return nil
}

func (s *AccountService) emit(ctx context.Context, name, userID string, meta map[string]string) {
	if s.Events == nil {
		return
	}
	s.Events.Emit(ctx, events.Event{Name: name, UserID: userID, At: time.Now().UTC(), Meta: meta})
}

func (s *AccountService) record(ctx context.Context, e audit.Entry) {
	if s.Audit == nil {
		return
	}
	s.Audit.Record(ctx, e)
}
