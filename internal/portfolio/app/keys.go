package app

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/devfolio/devfolio/pkg/jwtx"
)

// loadOrGenerateSigner loads the Ed25519 session-signing key from a PKCS8
// PEM file, generating and persisting one on first boot. The kid is derived
// from the public key so it stays stable across restarts.
func loadOrGenerateSigner(path string) (*jwtx.Signer, error) {
	path = filepath.Clean(path)

	pemBytes, err := os.ReadFile(path)
	if err == nil {
		return jwtx.NewSignerFromPEM(kidFromPEM(pemBytes), pemBytes)
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read token key: %w", err)
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate token key: %w", err)
	}

	pemBytes, err = jwtx.MarshalPKCS8PEM(priv)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create key directory: %w", err)
	}
	if err := os.WriteFile(path, pemBytes, 0600); err != nil {
		return nil, fmt.Errorf("persist token key: %w", err)
	}

	return jwtx.NewSignerFromPEM(kidFromPEM(pemBytes), pemBytes)
}

func kidFromPEM(pemBytes []byte) string {
	sum := sha256.Sum256(pemBytes)
	return hex.EncodeToString(sum[:8])
}
