package domain

import "time"

// Roles assignable to users. Kept as plain strings in storage and claims.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the aggregate root. Sessions and redeemable tokens hang off it via
// foreign keys and are deleted with it.
type User struct {
	ID           string
	Email        string // unique, case-folded at the service boundary
	Name         string // optional display name
	PasswordHash string // argon2id PHC encoded
	Role         string
	Verified     bool       // email ownership proven
	MFASecret    *string    // TOTP secret (nullable, base32 encoded)
	MFAEnabledAt *time.Time // set once the first TOTP code verified
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MFAEnabled reports whether login requires a TOTP code.
func (u User) MFAEnabled() bool { return u.MFAEnabledAt != nil }
