// Package token generates opaque bearer values and the digests used to store them.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// SessionIDBytes is the entropy of a session identifier.
const SessionIDBytes = 32

// GenerateOpaque returns n random bytes, base64url without padding.
func GenerateOpaque(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Digest is sha256(s) in base64url without padding. Raw identifiers are
// never used as store keys; their digest is.
func Digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
