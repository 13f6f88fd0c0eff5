// Package domain contains the core business entities for the recipe service.
// These are pure Go structs with no external dependencies, representing
// users and the catalog objects they own.
package domain

import (
	"strings"
	"time"
)

// User represents a registered account in the system.
// Users own tags, ingredients and recipes; ownership is assigned at
// creation time and never reassigned.
type User struct {
	// ID is the unique identifier for the user (auto-generated).
	ID int64 `json:"id"`

	// Email is the unique login identifier, stored normalized to lowercase.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never exposed in API responses.
	PasswordHash string `json:"-"`

	// Name is the optional display name.
	Name string `json:"name,omitempty"`

	// IsStaff indicates whether the user can access administrative surfaces.
	IsStaff bool `json:"is_staff"`

	// IsSuperuser indicates whether the user has all permissions.
	IsSuperuser bool `json:"is_superuser"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User with default flags.
// The email is normalized via NormalizeEmail.
func NewUser(email, passwordHash, name string) *User {
	now := time.Now().UTC()
	return &User{
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewSuperuser creates a new User with staff and superuser flags set.
func NewSuperuser(email, passwordHash string) *User {
	u := NewUser(email, passwordHash, "")
	u.IsStaff = true
	u.IsSuperuser = true
	return u
}

// NormalizeEmail lowercases an email address for storage and comparison.
// Uniqueness is case-insensitive, so every path that accepts an email
// must go through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
