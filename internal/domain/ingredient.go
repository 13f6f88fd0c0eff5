// Package domain contains the core business entities for the recipe service.
package domain

// Ingredient is a named component of recipes (e.g. "cucumber").
// Same ownership shape as Tag: one owner, many-to-many with that owner's
// recipes.
type Ingredient struct {
	// ID is the unique identifier for the ingredient (auto-generated).
	ID int64 `json:"id"`

	// UserID is the ID of the owning user. Set once at creation.
	UserID int64 `json:"-"`

	// Name is the ingredient text. Must be non-empty.
	Name string `json:"name"`
}

// NewIngredient creates an ingredient owned by the given user.
func NewIngredient(userID int64, name string) *Ingredient {
	return &Ingredient{UserID: userID, Name: name}
}
