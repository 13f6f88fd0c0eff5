package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rashid54/recipe-app-api/internal/domain"
	"github.com/rashid54/recipe-app-api/internal/repository"
)

// recipeRepository implements repository.RecipeRepository for PostgreSQL.
type recipeRepository struct {
	db *DB
}

// NewRecipeRepository creates a new PostgreSQL recipe repository.
func NewRecipeRepository(db *DB) repository.RecipeRepository {
	return &recipeRepository{db: db}
}

// Create persists a new recipe with its associations.
func (r *recipeRepository) Create(ctx context.Context, recipe *domain.Recipe, tagIDs, ingredientIDs []int64) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO recipes (user_id, title, time_minutes, price_cents, link, image_path, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`

		err := tx.QueryRow(ctx, query,
			recipe.UserID,
			recipe.Title,
			recipe.TimeMinutes,
			int64(recipe.Price),
			recipe.Link,
			recipe.ImagePath,
			recipe.CreatedAt,
			recipe.UpdatedAt,
		).Scan(&recipe.ID)
		if err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}

		if err := insertJoins(ctx, tx, "recipe_tags", "tag_id", recipe.ID, tagIDs); err != nil {
			return err
		}
		return insertJoins(ctx, tx, "recipe_ingredients", "ingredient_id", recipe.ID, ingredientIDs)
	})
}

// GetByID retrieves a recipe owned by ownerID with associations populated.
func (r *recipeRepository) GetByID(ctx context.Context, ownerID, id int64) (*domain.Recipe, error) {
	query := `
		SELECT id, user_id, title, time_minutes, price_cents, link, image_path, created_at, updated_at
		FROM recipes
		WHERE id = $1 AND user_id = $2
	`

	recipe, err := scanRecipe(r.db.Pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	if err := r.loadAssociations(ctx, []*domain.Recipe{recipe}); err != nil {
		return nil, err
	}

	return recipe, nil
}

// List returns the owner's recipes ordered by id descending.
func (r *recipeRepository) List(ctx context.Context, ownerID int64) ([]*domain.Recipe, error) {
	query := `
		SELECT id, user_id, title, time_minutes, price_cents, link, image_path, created_at, updated_at
		FROM recipes
		WHERE user_id = $1
		ORDER BY id DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*domain.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}

	if err := r.loadAssociations(ctx, recipes); err != nil {
		return nil, err
	}

	return recipes, nil
}

// Update persists changed scalar fields and optionally replaces the
// association sets wholesale (full-update semantics).
func (r *recipeRepository) Update(ctx context.Context, recipe *domain.Recipe, tagIDs, ingredientIDs []int64, replaceTags, replaceIngredients bool) error {
	recipe.UpdatedAt = time.Now().UTC()

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE recipes
			SET title = $1, time_minutes = $2, price_cents = $3, link = $4, updated_at = $5
			WHERE id = $6 AND user_id = $7
		`

		result, err := tx.Exec(ctx, query,
			recipe.Title,
			recipe.TimeMinutes,
			int64(recipe.Price),
			recipe.Link,
			recipe.UpdatedAt,
			recipe.ID,
			recipe.UserID,
		)
		if err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}

		if result.RowsAffected() == 0 {
			return domain.ErrRecipeNotFound
		}

		if replaceTags {
			if err := replaceJoins(ctx, tx, "recipe_tags", "tag_id", recipe.ID, tagIDs); err != nil {
				return err
			}
		}
		if replaceIngredients {
			if err := replaceJoins(ctx, tx, "recipe_ingredients", "ingredient_id", recipe.ID, ingredientIDs); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetImagePath records the stored image reference on a recipe.
func (r *recipeRepository) SetImagePath(ctx context.Context, ownerID, id int64, path string) error {
	query := `UPDATE recipes SET image_path = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`

	result, err := r.db.Pool.Exec(ctx, query, path, time.Now().UTC(), id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to set recipe image: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecipeNotFound
	}
	return nil
}

// Delete removes a recipe owned by ownerID. Join rows cascade away.
func (r *recipeRepository) Delete(ctx context.Context, ownerID, id int64) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecipeNotFound
	}
	return nil
}

// scanner covers both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecipe(s scanner) (*domain.Recipe, error) {
	recipe := &domain.Recipe{}
	var priceCents int64

	err := s.Scan(
		&recipe.ID,
		&recipe.UserID,
		&recipe.Title,
		&recipe.TimeMinutes,
		&priceCents,
		&recipe.Link,
		&recipe.ImagePath,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	recipe.Price = domain.Price(priceCents)

	return recipe, nil
}

// loadAssociations populates Tags and Ingredients for a batch of recipes
// with one query per association table.
func (r *recipeRepository) loadAssociations(ctx context.Context, recipes []*domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Recipe, len(recipes))
	ids := make([]int64, 0, len(recipes))
	for _, recipe := range recipes {
		recipe.Tags = []*domain.Tag{}
		recipe.Ingredients = []*domain.Ingredient{}
		byID[recipe.ID] = recipe
		ids = append(ids, recipe.ID)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT rt.recipe_id, t.id, t.user_id, t.name
		FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id = ANY($1)
		ORDER BY t.name DESC
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to load recipe tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID int64
		tag := &domain.Tag{}
		if err := rows.Scan(&recipeID, &tag.ID, &tag.UserID, &tag.Name); err != nil {
			return fmt.Errorf("failed to scan recipe tag: %w", err)
		}
		byID[recipeID].Tags = append(byID[recipeID].Tags, tag)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating recipe tags: %w", err)
	}

	ingRows, err := r.db.Pool.Query(ctx, `
		SELECT ri.recipe_id, i.id, i.user_id, i.name
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ANY($1)
		ORDER BY i.name DESC
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	defer ingRows.Close()

	for ingRows.Next() {
		var recipeID int64
		ing := &domain.Ingredient{}
		if err := ingRows.Scan(&recipeID, &ing.ID, &ing.UserID, &ing.Name); err != nil {
			return fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		byID[recipeID].Ingredients = append(byID[recipeID].Ingredients, ing)
	}
	return ingRows.Err()
}

func insertJoins(ctx context.Context, tx pgx.Tx, table, column string, recipeID int64, ids []int64) error {
	for _, id := range ids {
		query := fmt.Sprintf(`INSERT INTO %s (recipe_id, %s) VALUES ($1, $2)`, table, column)
		if _, err := tx.Exec(ctx, query, recipeID, id); err != nil {
			return fmt.Errorf("failed to attach %s: %w", column, err)
		}
	}
	return nil
}

func replaceJoins(ctx context.Context, tx pgx.Tx, table, column string, recipeID int64, ids []int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE recipe_id = $1`, table)
	if _, err := tx.Exec(ctx, query, recipeID); err != nil {
		return fmt.Errorf("failed to detach %s: %w", column, err)
	}
	return insertJoins(ctx, tx, table, column, recipeID, ids)
}

// Ensure recipeRepository implements repository.RecipeRepository.
var _ repository.RecipeRepository = (*recipeRepository)(nil)
