// Package domain contains the core business entities for the recipe service.
package domain

// Tag labels recipes for filtering (e.g. "vegan", "dessert").
// A tag belongs to exactly one user and can be attached to many of that
// user's recipes.
type Tag struct {
	// ID is the unique identifier for the tag (auto-generated).
	ID int64 `json:"id"`

	// UserID is the ID of the owning user. Set once at creation.
	UserID int64 `json:"-"`

	// Name is the tag text. Must be non-empty.
	Name string `json:"name"`
}

// NewTag creates a tag owned by the given user.
func NewTag(userID int64, name string) *Tag {
	return &Tag{UserID: userID, Name: name}
}
