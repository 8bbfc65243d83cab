package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailInUse         = errors.New("email_in_use")

	ErrTokenNotFound    = errors.New("token_not_found")
	ErrTokenExpired     = errors.New("token_expired")
	ErrTokenAlreadyUsed = errors.New("token_already_used")

	ErrUnauthorized    = errors.New("unauthorized")
	ErrSessionNotFound = errors.New("session_not_found")
	// ErrSessionRevoked means the presented refresh secret matched a revoked
	// session. That only happens when a rotated-away or logged-out secret is
	// replayed, so the whole session family gets revoked before this returns.
	ErrSessionRevoked = errors.New("session_revoked")

	ErrDeliveryFailure = errors.New("delivery_failure")

	ErrMFARequired       = errors.New("mfa_required")
	ErrInvalidOTP        = errors.New("invalid_otp")
	ErrMFAAlreadyEnabled = errors.New("mfa_already_enabled")
	ErrMFANotEnrolled    = errors.New("mfa_not_enrolled")

	ErrUserNotFound = errors.New("user_not_found")
)
