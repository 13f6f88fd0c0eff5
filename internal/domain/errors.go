// Package domain contains the core business entities for the recipe service.
package domain

import (
	"errors"
)

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, network, etc.).
//
// Ownership note: accessing another user's tag, ingredient or recipe
// surfaces as the same not-found error as a nonexistent id. There is
// deliberately no "forbidden" variant, so the existence of a foreign
// resource cannot be inferred from the error kind.

var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates a user with the same email exists.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials indicates authentication failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenNotFound indicates the bearer token is unknown or expired.
	ErrTokenNotFound = errors.New("token not found")

	// ErrTagNotFound indicates the tag does not exist for the caller.
	ErrTagNotFound = errors.New("tag not found")

	// ErrIngredientNotFound indicates the ingredient does not exist for the caller.
	ErrIngredientNotFound = errors.New("ingredient not found")

	// ErrRecipeNotFound indicates the recipe does not exist for the caller.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrRecipeHasNoImage indicates no image has been uploaded for the recipe.
	ErrRecipeHasNoImage = errors.New("recipe has no image")

	// ErrInvalidPrice indicates a price outside the fixed-precision bounds.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrNotAnImage indicates an upload payload that does not decode as an image.
	ErrNotAnImage = errors.New("payload is not a valid image")

	// ErrImageNotFound indicates the stored image blob is missing.
	ErrImageNotFound = errors.New("image not found")
)
