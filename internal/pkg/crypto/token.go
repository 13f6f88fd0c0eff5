// Package crypto provides credential and token utilities for the recipe
// service.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// TokenLength is the length of a plaintext bearer token in characters.
// Tokens are 20 random bytes rendered as 40 hex characters.
const TokenLength = 40

// GenerateToken generates a random opaque bearer token.
// Example: "9944b09199c62bcf9418ad846dd0e4bbdfc6ee4b"
func GenerateToken() (string, error) {
	raw := make([]byte, TokenLength/2)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(raw), nil
}

// DigestToken returns the hex-encoded SHA-256 digest of a plaintext token.
// Only digests are stored; the plaintext leaves the process exactly once,
// in the issue response.
func DigestToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateTokenFormat checks that a string looks like a token we issued.
// Used to reject junk before hitting the store.
func ValidateTokenFormat(token string) bool {
	if len(token) != TokenLength {
		return false
	}
	for _, c := range token {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}
