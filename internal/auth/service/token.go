package service

import (
	"context"
	"errors"
	"time"

	"github.com/lanternsec/authd/internal/auth/domain"
	"github.com/lanternsec/authd/internal/auth/store"
	"github.com/lanternsec/authd/pkg/jwtx"
)

// TokenService signs access tokens and runs the refresh grant on top of
// SessionService.
type TokenService struct {
	Signer    *jwtx.Signer
	Sessions  *SessionService
	Store     store.Store
	Issuer    string
	AccessTTL time.Duration
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

// IssuePair opens a fresh session for the user and returns the signed access
// token together with the session's refresh secret.
func (s *TokenService) IssuePair(ctx context.Context, user domain.User, ip, device string) (domain.TokenPair, error) {
	session, refreshSecret, err := s.Sessions.Issue(ctx, user.ID, ip, device)
	if err != nil {
		return domain.TokenPair{}, err
	}
	access, err := s.signAccess(user, session.ID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refreshSecret,
		TokenType:    "Bearer",
		ExpiresIn:    s.accessTTL(),
	}, nil
}

// Refresh exchanges a presented refresh secret for a new pair. The matched
// session is rotated, so the presented secret is dead after this returns.
func (s *TokenService) Refresh(ctx context.Context, presented, ip, device string) (domain.TokenPair, error) {
	session, err := s.Sessions.FindActiveByRefreshSecret(ctx, presented)
	if err != nil {
		return domain.TokenPair{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrUnauthorized
		}
		return domain.TokenPair{}, err
	}

	newSecret, err := s.Sessions.Rotate(ctx, session.ID)
	if err != nil {
		return domain.TokenPair{}, err
	}

	access, err := s.signAccess(user, session.ID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: newSecret,
		TokenType:    "Bearer",
		ExpiresIn:    s.accessTTL(),
	}, nil
}

func (s *TokenService) signAccess(user domain.User, sessionID string) (string, error) {
	claims := jwtx.NewAccessClaims(user.ID, user.Role, sessionID, s.Issuer, s.accessTTL(), time.Now().UTC())
	return s.Signer.Sign(claims)
}
