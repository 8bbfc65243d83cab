package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lanternsec/authd/internal/auth/domain"
	"github.com/lanternsec/authd/internal/auth/events"
	"github.com/lanternsec/authd/internal/auth/store"
	"github.com/lanternsec/authd/pkg/cryptox"
	"github.com/lanternsec/authd/pkg/idx"
	"github.com/lanternsec/authd/pkg/jwtx"
	"github.com/lanternsec/authd/pkg/slogx"
)

// SessionService owns refresh-token lineages. Each session holds the hash of
// its current refresh secret; rotation overwrites it, revocation ends it.
type SessionService struct {
	Store      store.Store
	Hasher     cryptox.Hasher
	Events     events.Emitter
	RefreshTTL time.Duration
}

func (s *SessionService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}

// Issue creates a new session for the user and returns it with the plaintext
// refresh secret, which is never persisted.
func (s *SessionService) Issue(ctx context.Context, userID, ip, device string) (domain.Session, string, error) {
	secret, err := cryptox.GenerateSecret()
	if err != nil {
		return domain.Session{}, "", err
	}
	selector, verifier, err := cryptox.SplitSecret(secret)
	if err != nil {
		return domain.Session{}, "", err
	}
	hash, err := s.Hasher.Hash(verifier)
	if err != nil {
		return domain.Session{}, "", err
	}

	now := time.Now().UTC()
	session := domain.Session{
		ID:              idx.New().String(),
		UserID:          userID,
		RefreshSelector: selector,
		RefreshHash:     hash,
		IP:              ip,
		Device:          device,
		ExpiresAt:       now.Add(s.refreshTTL()),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Store.Sessions().CreateSession(ctx, session); err != nil {
		return domain.Session{}, "", err
	}

	s.emit(ctx, events.SessionCreated, userID, map[string]string{"session_id": session.ID})
	return session, secret, nil
}

// FindActiveByRefreshSecret resolves a presented refresh secret to its live
// session. A secret that verifies against a revoked session is a replay: the
// previous holder rotated it away or the user logged out, yet someone still
// presents it. Every session of that user is revoked and ErrSessionRevoked
// is returned. All other failures are a uniform ErrUnauthorized.
func (s *SessionService) FindActiveByRefreshSecret(ctx context.Context, presented string) (domain.Session, error) {
	selector, verifier, err := cryptox.SplitSecret(presented)
	if err != nil {
		return domain.Session{}, ErrUnauthorized
	}

	session, err := s.Store.Sessions().GetSessionByRefreshSelector(ctx, selector)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrUnauthorized
		}
		return domain.Session{}, err
	}

	if err := s.Hasher.Verify(verifier, session.RefreshHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return domain.Session{}, ErrUnauthorized
		}
		return domain.Session{}, err
	}

	now := time.Now().UTC()
	if session.Revoked {
		slogx.FromContext(ctx).Warn("refresh secret replay against revoked session",
			slog.String("session_id", session.ID), slog.String("user_id", session.UserID))
		if err := s.RevokeAllForUser(ctx, session.UserID); err != nil {
			return domain.Session{}, err
		}
		return domain.Session{}, ErrSessionRevoked
	}
	if now.After(session.ExpiresAt) {
		return domain.Session{}, ErrUnauthorized
	}
	return session, nil
}

// Rotate replaces the session's refresh secret and pushes out its expiry,
// returning the new plaintext secret. The update is conditioned on the
// session still being non-revoked at write time, so a concurrent revocation
// wins and the rotation fails with ErrUnauthorized.
func (s *SessionService) Rotate(ctx context.Context, sessionID string) (string, error) {
	secret, err := cryptox.GenerateSecret()
	if err != nil {
		return "", err
	}
	selector, verifier, err := cryptox.SplitSecret(secret)
	if err != nil {
		return "", err
	}
	hash, err := s.Hasher.Hash(verifier)
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().UTC().Add(s.refreshTTL())
	if err := s.Store.Sessions().RotateSession(ctx, sessionID, selector, hash, expiresAt); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}
	return secret, nil
}

// Revoke ends a single session. Revoking an already-revoked session is a
// no-op success; an unknown id reports ErrSessionNotFound.
func (s *SessionService) Revoke(ctx context.Context, sessionID string) error {
	session, err := s.Store.Sessions().GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	if err := s.Store.Sessions().RevokeSession(ctx, sessionID, time.Now().UTC()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	s.emit(ctx, events.SessionRevoked, session.UserID, map[string]string{"session_id": sessionID})
	return nil
}

// RevokeAllForUser ends every active session the user has.
func (s *SessionService) RevokeAllForUser(ctx context.Context, userID string) error {
	if err := s.Store.Sessions().RevokeAllForUser(ctx, userID, time.Now().UTC()); err != nil {
		return err
	}
	s.emit(ctx, events.SessionRevoked, userID, map[string]string{"scope": "all"})
	return nil
}

// ListActive returns the user's live sessions, newest first.
func (s *SessionService) ListActive(ctx context.Context, userID string) ([]domain.Session, error) {
	return s.Store.Sessions().ListActiveByUser(ctx, userID)
}

func (s *SessionService) emit(ctx context.Context, name, userID string, meta map[string]string) {
	if s.Events == nil {
		return
	}
	s.Events.Emit(ctx, events.Event{Name: name, UserID: userID, At: time.Now().UTC(), Meta: meta})
}
