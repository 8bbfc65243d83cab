package domain

import "time"

// Session is one active refresh-token lineage for a user. The refresh secret
// itself is never stored: only its selector (plaintext, indexed) and the
// Argon2id hash of its verifier. Rotation overwrites both in place, so the
// previous secret becomes permanently unverifiable.
type Session struct {
	ID               string
	UserID           string
	RefreshSelector  string // lookup half of the current refresh secret
	RefreshHash      string // hash of the verifier half
	IP               string // optional request context
	Device           string // optional request context
	ExpiresAt        time.Time
	Revoked          bool
	RevokedAt        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Active reports whether the session can still match a refresh lookup.
func (s Session) Active(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}
