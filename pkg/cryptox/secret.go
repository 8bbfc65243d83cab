package cryptox

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Opaque secrets are issued as two hex-encoded halves joined by a dot:
//
//	<selector>.<verifier>
//
// The selector is a random lookup id stored in plaintext and indexed, so a
// presented secret can be found in O(1) instead of scanning every outstanding
// hash. The verifier is the actual proof of possession and is only ever stored
// as a salted Argon2id hash. Knowing a selector gives an attacker nothing to
// guess against except the expensive hash.
const (
	// SelectorSize is the selector length in bytes before hex encoding.
	SelectorSize = 8
	// VerifierSize is the verifier length in bytes before hex encoding.
	// 32 bytes keeps collision probability cryptographically negligible.
	VerifierSize = 32
)

// ErrMalformedSecret reports a presented secret that does not parse as
// selector.verifier. Callers should treat it the same as "no match".
var ErrMalformedSecret = errors.New("cryptox: malformed secret")

// GenerateSecret creates a new random selector.verifier secret.
func GenerateSecret() (string, error) {
	buf := make([]byte, SelectorSize+VerifierSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: generate secret: %w", err)
	}
	selector := hex.EncodeToString(buf[:SelectorSize])
	verifier := hex.EncodeToString(buf[SelectorSize:])
	return selector + "." + verifier, nil
}

// SplitSecret separates a presented secret into its selector and verifier
// halves, validating shape only. It never touches storage.
func SplitSecret(secret string) (selector, verifier string, err error) {
	selector, verifier, ok := strings.Cut(strings.TrimSpace(secret), ".")
	if !ok {
		return "", "", ErrMalformedSecret
	}
	if len(selector) != SelectorSize*2 || len(verifier) != VerifierSize*2 {
		return "", "", ErrMalformedSecret
	}
	if _, err := hex.DecodeString(selector); err != nil {
		return "", "", ErrMalformedSecret
	}
	if _, err := hex.DecodeString(verifier); err != nil {
		return "", "", ErrMalformedSecret
	}
	return selector, verifier, nil
}

// Hasher hashes and verifies secret verifiers with a tunable Argon2id cost.
// The zero value uses DefaultParams.
//
// Verify is constant-effort per call (the full key derivation always runs) but
// not constant-time across different candidate records; the selector lookup
// removes the need to compare one secret against many hashes.
type Hasher struct {
	Params Params
}

// Hash returns the PHC-encoded Argon2id hash of a verifier.
func (h Hasher) Hash(verifier string) (string, error) {
	return hashPHC(verifier, h.Params)
}

// Verify compares a presented verifier against a stored hash. Returns
// ErrMismatch when the verifier does not match.
func (h Hasher) Verify(verifier, encodedHash string) error {
	return verifyPHC(verifier, encodedHash)
}
