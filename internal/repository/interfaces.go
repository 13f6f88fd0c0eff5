// Package repository defines data access interfaces for the recipe service.
// These interfaces abstract database operations, allowing for different
// implementations (PostgreSQL, SQLite) while keeping the service layer clean.
//
// Ownership scoping is part of the contract, not a convention: every read
// or write on an owned entity takes the owner's user ID, and a row that
// exists but belongs to someone else is reported with the entity's
// not-found sentinel from the domain package, exactly like a row that
// does not exist.
package repository

import (
	"context"

	"github.com/rashid54/recipe-app-api/internal/domain"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create creates a new user. Fails with domain.ErrUserAlreadyExists
	// when the (normalized) email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by normalized email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update updates an existing user.
	Update(ctx context.Context, user *domain.User) error

	// ExistsByEmail checks if a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// TokenRepository defines the interface for bearer token data access.
// Tokens are stored by digest only.
type TokenRepository interface {
	// Create persists a newly issued token.
	Create(ctx context.Context, token *domain.Token) error

	// GetByDigest retrieves a token by its SHA-256 digest.
	GetByDigest(ctx context.Context, digest string) (*domain.Token, error)

	// UpdateLastUsed updates the last_used_at timestamp.
	UpdateLastUsed(ctx context.Context, id int64) error

	// DeleteByDigest revokes a single token.
	DeleteByDigest(ctx context.Context, digest string) error

	// DeleteByUserID revokes all tokens of a user.
	// Returns the number of tokens removed.
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)

	// DeleteExpired removes all expired tokens.
	DeleteExpired(ctx context.Context) (int64, error)
}

// LabelListOptions contains filters for listing tags or ingredients.
type LabelListOptions struct {
	// AssignedOnly narrows the listing to labels referenced by at least
	// one recipe. The reference check is owner-agnostic on the recipe
	// side; the listing itself is always owner-scoped.
	AssignedOnly bool
}

// LabelRepository defines owner-scoped data access for the two label-shaped
// entities, Tag and Ingredient. The ownership policy is implemented once;
// each entity gets its own instantiation over its table and join table.
//
// List results are ordered by name, descending.
type LabelRepository[T any] interface {
	// Create persists a new label. The owner comes from the label itself.
	Create(ctx context.Context, label *T) error

	// GetByID retrieves a label owned by ownerID. A label owned by anyone
	// else surfaces as the entity's not-found error.
	GetByID(ctx context.Context, ownerID, id int64) (*T, error)

	// List returns the owner's labels, ordered by name descending.
	List(ctx context.Context, ownerID int64, opts LabelListOptions) ([]*T, error)

	// Update updates the label's name. Scoped to the label's owner.
	Update(ctx context.Context, label *T) error

	// Delete removes a label owned by ownerID and detaches it from any
	// recipes referencing it.
	Delete(ctx context.Context, ownerID, id int64) error
}

// RecipeRepository defines owner-scoped data access for recipes.
type RecipeRepository interface {
	// Create persists a new recipe together with its tag and ingredient
	// associations.
	Create(ctx context.Context, recipe *domain.Recipe, tagIDs, ingredientIDs []int64) error

	// GetByID retrieves a recipe owned by ownerID with its tags and
	// ingredients populated. A recipe owned by anyone else surfaces as
	// domain.ErrRecipeNotFound.
	GetByID(ctx context.Context, ownerID, id int64) (*domain.Recipe, error)

	// List returns the owner's recipes ordered by id descending, with
	// tags and ingredients populated.
	List(ctx context.Context, ownerID int64) ([]*domain.Recipe, error)

	// Update persists changed scalar fields and, when the replace flags
	// are set, replaces the corresponding association set wholesale.
	Update(ctx context.Context, recipe *domain.Recipe, tagIDs, ingredientIDs []int64, replaceTags, replaceIngredients bool) error

	// SetImagePath records the stored image reference on a recipe.
	SetImagePath(ctx context.Context, ownerID, id int64, path string) error

	// Delete removes a recipe owned by ownerID. Associations are
	// detached, not deleted.
	Delete(ctx context.Context, ownerID, id int64) error
}

// Repositories holds all repository instances for one database backend.
type Repositories struct {
	User       UserRepository
	Token      TokenRepository
	Tag        LabelRepository[domain.Tag]
	Ingredient LabelRepository[domain.Ingredient]
	Recipe     RecipeRepository
}

// DatabaseHealth is implemented by both database backends and consumed by
// the health endpoint.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Close() error
}
