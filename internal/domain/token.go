// Package domain contains the core business entities for the recipe service.
package domain

import (
	"time"
)

// Token represents an opaque bearer token issued for API authentication.
// Only the SHA-256 digest of the token is stored; the plaintext is returned
// to the client once at issue time and never persisted.
type Token struct {
	// ID is the unique identifier for the token record.
	ID int64 `json:"id"`

	// UserID is the ID of the user this token authenticates.
	UserID int64 `json:"user_id"`

	// Digest is the hex-encoded SHA-256 of the plaintext token.
	Digest string `json:"-"`

	// ExpiresAt is the optional expiration time.
	// If nil, the token does not expire.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// CreatedAt is the timestamp when the token was issued.
	CreatedAt time.Time `json:"created_at"`

	// LastUsedAt is the timestamp when the token last authenticated a request.
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// NewToken creates a new Token record for a user.
// A zero ttl produces a non-expiring token.
func NewToken(userID int64, digest string, ttl time.Duration) *Token {
	t := &Token{
		UserID:    userID,
		Digest:    digest,
		CreatedAt: time.Now().UTC(),
	}
	if ttl > 0 {
		exp := t.CreatedAt.Add(ttl)
		t.ExpiresAt = &exp
	}
	return t
}

// IsValid returns true if the token can still authenticate requests.
func (t *Token) IsValid() bool {
	if t.ExpiresAt == nil {
		return true
	}
	return time.Now().UTC().Before(*t.ExpiresAt)
}
