// Package domain contains the core business entities for the recipe service.
package domain

import (
	"time"
)

// Recipe is the central catalog entity. A recipe belongs to exactly one
// user and references sets of that user's tags and ingredients.
type Recipe struct {
	// ID is the unique identifier for the recipe (auto-generated).
	ID int64 `json:"id"`

	// UserID is the ID of the owning user. Set once at creation.
	UserID int64 `json:"-"`

	// Title is the recipe title. Must be non-empty.
	Title string `json:"title"`

	// TimeMinutes is the preparation time. Must be positive.
	TimeMinutes int `json:"time_minutes"`

	// Price is the cost, bounded to 5 total digits with 2 decimal places.
	Price Price `json:"price"`

	// Link is an optional external URL for the recipe.
	Link string `json:"link"`

	// ImagePath is the blob-store path of the uploaded image, empty when
	// no image has been uploaded.
	ImagePath string `json:"-"`

	// Tags are the attached tags. Populated with full objects on detail
	// reads; on writes only the IDs matter.
	Tags []*Tag `json:"-"`

	// Ingredients are the attached ingredients, same shape as Tags.
	Ingredients []*Ingredient `json:"-"`

	// CreatedAt is the timestamp when the recipe was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the recipe was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRecipe creates a recipe owned by the given user.
func NewRecipe(userID int64, title string, timeMinutes int, price Price) *Recipe {
	now := time.Now().UTC()
	return &Recipe{
		UserID:      userID,
		Title:       title,
		TimeMinutes: timeMinutes,
		Price:       price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TagIDs returns the IDs of the attached tags.
func (r *Recipe) TagIDs() []int64 {
	ids := make([]int64, len(r.Tags))
	for i, t := range r.Tags {
		ids[i] = t.ID
	}
	return ids
}

// IngredientIDs returns the IDs of the attached ingredients.
func (r *Recipe) IngredientIDs() []int64 {
	ids := make([]int64, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ids[i] = ing.ID
	}
	return ids
}

// HasImage reports whether an image has been uploaded for the recipe.
func (r *Recipe) HasImage() bool {
	return r.ImagePath != ""
}
