package postgres

import (
	"github.com/rashid54/recipe-app-api/internal/repository"
)

// NewRepositories creates the full repository set backed by PostgreSQL.
func NewRepositories(db *DB) *repository.Repositories {
	return &repository.Repositories{
		User:       NewUserRepository(db),
		Token:      NewTokenRepository(db),
		Tag:        NewTagRepository(db),
		Ingredient: NewIngredientRepository(db),
		Recipe:     NewRecipeRepository(db),
	}
}
