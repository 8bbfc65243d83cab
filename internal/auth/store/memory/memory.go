// Package memory provides an in-memory store.Store for tests. Conditional
// updates take the same single-winner shape as the sqlite driver, guarded by
// a mutex instead of SQL, so concurrency tests exercise real contention.
// WithTx runs the callback under the write lock; rollback is not simulated.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lanternsec/authd/internal/auth/domain"
	"github.com/lanternsec/authd/internal/auth/store"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]*domain.User
	sessions map[string]*domain.Session
	tokens   map[string]*domain.RedeemableToken
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*domain.User),
		sessions: make(map[string]*domain.Session),
		tokens:   make(map[string]*domain.RedeemableToken),
	}
}

func (s *Store) Users() store.Users       { return (*usersRepo)(s) }
func (s *Store) Sessions() store.Sessions { return (*sessionsRepo)(s) }
func (s *Store) Tokens() store.Tokens     { return (*tokensRepo)(s) }

func (s *Store) ApplyMigrations() error         { return nil }
func (s *Store) Close() error                   { return nil }
func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	return &memTx{Store: s}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return fn(&memTx{Store: s})
}

type memTx struct {
	*Store
}

func (t *memTx) Commit() error   { return nil }
func (t *memTx) Rollback() error { return nil }

type usersRepo Store

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email {
			return store.ErrAlreadyExists
		}
	}
	if _, ok := r.users[u.ID]; ok {
		return store.ErrAlreadyExists
	}
	clone := u
	r.users[u.ID] = &clone
	return nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return *u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return r.mutate(userID, func(u *domain.User) {
		u.PasswordHash = newHash
	})
}

func (r *usersRepo) UpdateName(ctx context.Context, userID, name string) error {
	return r.mutate(userID, func(u *domain.User) {
		u.Name = name
	})
}

func (r *usersRepo) SetVerified(ctx context.Context, userID string) error {
	return r.mutate(userID, func(u *domain.User) {
		u.Verified = true
	})
}

func (r *usersRepo) UpdateMFASecret(ctx context.Context, userID string, secret *string) error {
	return r.mutate(userID, func(u *domain.User) {
		u.MFASecret = secret
	})
}

func (r *usersRepo) EnableMFA(ctx context.Context, userID string, at time.Time) error {
	return r.mutate(userID, func(u *domain.User) {
		u.MFAEnabledAt = &at
	})
}

func (r *usersRepo) DisableMFA(ctx context.Context, userID string) error {
	return r.mutate(userID, func(u *domain.User) {
		u.MFAEnabledAt = nil
		u.MFASecret = nil
	})
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	// ULIDs sort by creation time, so id descending is newest first.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return store.ErrNotFound
	}
	delete(r.users, userID)

	// Cascade, like the sqlite schema's ON DELETE CASCADE.
	for id, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, id)
		}
	}
	for id, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *usersRepo) mutate(userID string, fn func(*domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

type sessionsRepo Store

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.ID]; ok {
		return store.ErrAlreadyExists
	}
	clone := s
	r.sessions[s.ID] = &clone
	return nil
}

func (r *sessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, store.ErrNotFound
	}
	return *s, nil
}

func (r *sessionsRepo) GetSessionByRefreshSelector(ctx context.Context, selector string) (domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sessions {
		if s.RefreshSelector == selector {
			return *s, nil
		}
	}
	return domain.Session{}, store.ErrNotFound
}

func (r *sessionsRepo) RotateSession(ctx context.Context, sessionID, selector, hash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok || s.Revoked {
		return store.ErrNotFound
	}
	s.RefreshSelector = selector
	s.RefreshHash = hash
	s.ExpiresAt = expiresAt
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, sessionID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return store.ErrNotFound
	}
	if s.Revoked {
		return nil
	}
	s.Revoked = true
	s.RevokedAt = &at
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *sessionsRepo) RevokeAllForUser(ctx context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		if s.UserID == userID && !s.Revoked {
			rt := at
			s.Revoked = true
			s.RevokedAt = &rt
			s.UpdatedAt = time.Now().UTC()
		}
	}
	return nil
}

func (r *sessionsRepo) ListActiveByUser(ctx context.Context, userID string) ([]domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now().UTC()
	var out []domain.Session
	for _, s := range r.sessions {
		if s.UserID == userID && s.Active(now) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, s := range r.sessions {
		if !s.ExpiresAt.After(now) {
			delete(r.sessions, id)
		}
	}
	return nil
}

type tokensRepo Store

func (r *tokensRepo) CreateToken(ctx context.Context, t domain.RedeemableToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[t.ID]; ok {
		return store.ErrAlreadyExists
	}
	clone := t
	r.tokens[t.ID] = &clone
	return nil
}

func (r *tokensRepo) GetUnusedTokenBySelector(ctx context.Context, purpose domain.Purpose, selector string) (domain.RedeemableToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tokens {
		if t.Purpose == purpose && t.Selector == selector && t.UsedAt == nil {
			return *t, nil
		}
	}
	return domain.RedeemableToken{}, store.ErrNotFound
}

func (r *tokensRepo) ConsumeToken(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[id]
	if !ok || t.UsedAt != nil {
		return store.ErrNotFound
	}
	t.UsedAt = &at
	return nil
}

func (r *tokensRepo) DeleteToken(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, id)
	return nil
}

func (r *tokensRepo) DeleteExpiredTokens(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, t := range r.tokens {
		if !t.ExpiresAt.After(now) {
			delete(r.tokens, id)
		}
	}
	return nil
}
