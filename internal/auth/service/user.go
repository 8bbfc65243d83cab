package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lanternsec/authd/internal/auth/audit"
	"github.com/lanternsec/authd/internal/auth/domain"
	"github.com/lanternsec/authd/internal/auth/events"
	"github.com/lanternsec/authd/internal/auth/store"
	"github.com/lanternsec/authd/pkg/cryptox"
	"github.com/lanternsec/authd/pkg/idx"

	"github.com/pquerna/otp/totp"
)

// UserService handles registration, login, and user administration.
type UserService struct {
	Store  store.Store
	Tokens *TokenService
	Events events.Emitter
	Audit  audit.Sink
}

// Register creates the user and logs them straight in, returning the new
// user plus their first token pair. Conflicting emails report ErrEmailInUse.
func (s *UserService) Register(ctx context.Context, email, name, password, ip, device string) (domain.User, domain.TokenPair, error) {
	email = NormalizeEmail(email)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, domain.TokenPair{}, ErrEmailInUse
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	s.emit(ctx, events.UserCreated, user.ID, nil)
	s.record(ctx, audit.Entry{Action: "user.register", ActorID: user.ID, Subject: email, IP: ip, At: now})

	pair, err := s.Tokens.IssuePair(ctx, user, ip, device)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}
	return user, pair, nil
}

// Login verifies the credentials and opens a session. Unknown email and wrong
// password both report ErrInvalidCredentials so callers cannot probe which
// accounts exist. Users with TOTP enabled must also present a valid code.
func (s *UserService) Login(ctx context.Context, email, password, otpCode, ip, device string) (domain.User, domain.TokenPair, error) {
	email = NormalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			s.record(ctx, audit.Entry{Action: "user.login.failed", Subject: email, IP: ip, At: time.Now().UTC()})
			return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	if user.MFAEnabled() {
		if otpCode == "" {
			return domain.User{}, domain.TokenPair{}, ErrMFARequired
		}
		if user.MFASecret == nil || !totp.Validate(otpCode, *user.MFASecret) {
			s.record(ctx, audit.Entry{Action: "user.login.otp_failed", ActorID: user.ID, IP: ip, At: time.Now().UTC()})
			return domain.User{}, domain.TokenPair{}, ErrInvalidOTP
		}
	}

	pair, err := s.Tokens.IssuePair(ctx, user, ip, device)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	s.record(ctx, audit.Entry{Action: "user.login", ActorID: user.ID, IP: ip, At: time.Now().UTC()})
	return user, pair, nil
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}

// UpdateName replaces the user's display name and returns the updated record.
func (s *UserService) UpdateName(ctx context.Context, userID, name string) (domain.User, error) {
	if err := s.Store.Users().UpdateName(ctx, userID, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return s.GetUserByID(ctx, userID)
}

// ListUsers returns every user, newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// DeleteUser removes the user; sessions and outstanding tokens cascade.
func (s *UserService) DeleteUser(ctx context.Context, actorID, userID string) error {
	if err := s.Store.Users().DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.record(ctx, audit.Entry{Action: "user.delete", ActorID: actorID, Subject: userID, At: time.Now().UTC()})
	return nil
}

// NormalizeEmail folds an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) emit(ctx context.Context, name, userID string, meta map[string]string) {
	if s.Events == nil {
		return
	}
	s.Events.Emit(ctx, events.Event{Name: name, UserID: userID, At: time.Now().UTC(), Meta: meta})
}

func (s *UserService) record(ctx context.Context, e audit.Entry) {
	if s.Audit == nil {
		return
	}
	s.Audit.Record(ctx, e)
}
