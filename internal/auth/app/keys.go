package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lanternsec/authd/pkg/jwtx"
)

const signingKID = "authd-ed25519"

// initSigner loads the Ed25519 signing key from disk when configured, or
// generates an ephemeral one. Ephemeral keys invalidate outstanding access
// tokens on restart; refresh secrets survive either way.
func initSigner(cfg Config, logger *slog.Logger) (*jwtx.Signer, error) {
	if cfg.SigningKeyFile == "" {
		logger.Warn("no signing key configured, generating an ephemeral one")
		return jwtx.GenerateSigner(signingKID)
	}

	pemKey, err := os.ReadFile(cfg.SigningKeyFile)
	if err != nil {
		return nil, fmt.Errorf("read signing key %s: %w", cfg.SigningKeyFile, err)
	}

	signer, err := jwtx.NewSigner(signingKID, pemKey)
	if err != nil {
		return nil, fmt.Errorf("parse signing key %s: %w", cfg.SigningKeyFile, err)
	}

	logger.Info("signing key loaded", "path", cfg.SigningKeyFile)
	return signer, nil
}
