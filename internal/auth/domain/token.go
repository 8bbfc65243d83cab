package domain

import "time"

// Purpose discriminates what a redeemable token authorizes.
type Purpose string

const (
	PurposeEmailVerify   Purpose = "email_verify"
	PurposePasswordReset Purpose = "password_reset"
)

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	return p == PurposeEmailVerify || p == PurposePasswordReset
}

// RedeemableToken is one outstanding single-use secret-backed action. Several
// unused rows may exist for the same (user, purpose) when the user requests
// repeatedly; each has its own selector so any of them can be redeemed, once.
type RedeemableToken struct {
	ID         string
	UserID     string
	Purpose    Purpose
	Selector   string // plaintext lookup half, indexed
	SecretHash string // argon2id hash of the verifier half
	ExpiresAt  time.Time
	UsedAt     *time.Time
	CreatedAt  time.Time
}

// TokenPair is what authentication flows hand back: a signed short-lived
// access token plus the opaque refresh secret.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type,omitempty"` // "Bearer"
	ExpiresIn    time.Duration `json:"expires_in"`           // access token lifetime
}
