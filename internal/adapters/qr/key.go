package qr

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	signingKeySize = 32
	signingKeyInfo = "member-identity-token/v1"
)

// DeriveSigningKey stretches the configured secret into a dedicated HS256 key so the raw
// secret is never used directly for signing.
func DeriveSigningKey(secret, salt string) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("identity token secret is empty")
	}
	r := hkdf.New(sha256.New, []byte(secret), []byte(salt), []byte(signingKeyInfo))
	key := make([]byte, signingKeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive signing key: %w", err)
	}
	return key, nil
}
