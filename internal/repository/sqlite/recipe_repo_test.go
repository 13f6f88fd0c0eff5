package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rashid54/recipe-app-api/internal/domain"
)

func TestRecipeRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	tagRepo := NewTagRepository(db)
	ingRepo := NewIngredientRepository(db)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "test@example.com")

	tag := domain.NewTag(user.ID, "Vegan")
	require.NoError(t, tagRepo.Create(ctx, tag))
	ingredient := domain.NewIngredient(user.ID, "Cucumber")
	require.NoError(t, ingRepo.Create(ctx, ingredient))

	recipe := domain.NewRecipe(user.ID, "Avocado toast", 10, 2389)
	recipe.Link = "https://example.com/toast"
	require.NoError(t, repo.Create(ctx, recipe, []int64{tag.ID}, []int64{ingredient.ID}))
	require.NotZero(t, recipe.ID)

	got, err := repo.GetByID(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	require.Equal(t, "Avocado toast", got.Title)
	require.Equal(t, 10, got.TimeMinutes)
	require.EqualValues(t, 2389, got.Price)
	require.Equal(t, "https://example.com/toast", got.Link)
	require.Len(t, got.Tags, 1)
	require.Equal(t, tag.ID, got.Tags[0].ID)
	require.Len(t, got.Ingredients, 1)
	require.Equal(t, ingredient.ID, got.Ingredients[0].ID)
}

func TestRecipeRepository_OwnerScoping(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	intruder := createTestUser(t, db, "intruder@example.com")

	recipe := domain.NewRecipe(owner.ID, "Toast", 10, 550)
	require.NoError(t, repo.Create(ctx, recipe, nil, nil))

	_, err := repo.GetByID(ctx, intruder.ID, recipe.ID)
	require.ErrorIs(t, err, domain.ErrRecipeNotFound)

	foreign := domain.NewRecipe(intruder.ID, "Stolen", 1, 0)
	foreign.ID = recipe.ID
	require.ErrorIs(t, repo.Update(ctx, foreign, nil, nil, false, false), domain.ErrRecipeNotFound)
	require.ErrorIs(t, repo.SetImagePath(ctx, intruder.ID, recipe.ID, "x"), domain.ErrRecipeNotFound)
	require.ErrorIs(t, repo.Delete(ctx, intruder.ID, recipe.ID), domain.ErrRecipeNotFound)

	recipes, err := repo.List(ctx, intruder.ID)
	require.NoError(t, err)
	require.Empty(t, recipes)
}

func TestRecipeRepository_ListOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "test@example.com")

	first := domain.NewRecipe(user.ID, "First", 5, 100)
	require.NoError(t, repo.Create(ctx, first, nil, nil))
	second := domain.NewRecipe(user.ID, "Second", 5, 100)
	require.NoError(t, repo.Create(ctx, second, nil, nil))

	recipes, err := repo.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	// Newest first.
	require.Equal(t, second.ID, recipes[0].ID)
	require.Equal(t, first.ID, recipes[1].ID)
}

func TestRecipeRepository_Update(t *testing.T) {
	db := newTestDB(t)
	tagRepo := NewTagRepository(db)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "test@example.com")

	tag := domain.NewTag(user.ID, "Vegan")
	require.NoError(t, tagRepo.Create(ctx, tag))
	other := domain.NewTag(user.ID, "Dessert")
	require.NoError(t, tagRepo.Create(ctx, other))

	recipe := domain.NewRecipe(user.ID, "Toast", 10, 550)
	require.NoError(t, repo.Create(ctx, recipe, []int64{tag.ID}, nil))

	t.Run("scalar update keeps associations", func(t *testing.T) {
		recipe.Title = "Better toast"
		recipe.Price = 600
		require.NoError(t, repo.Update(ctx, recipe, nil, nil, false, false))

		got, err := repo.GetByID(ctx, user.ID, recipe.ID)
		require.NoError(t, err)
		require.Equal(t, "Better toast", got.Title)
		require.EqualValues(t, 600, got.Price)
		require.Len(t, got.Tags, 1)
	})

	t.Run("replace swaps the association set", func(t *testing.T) {
		require.NoError(t, repo.Update(ctx, recipe, []int64{other.ID}, nil, true, false))

		got, err := repo.GetByID(ctx, user.ID, recipe.ID)
		require.NoError(t, err)
		require.Len(t, got.Tags, 1)
		require.Equal(t, other.ID, got.Tags[0].ID)
	})

	t.Run("replace with empty set clears", func(t *testing.T) {
		require.NoError(t, repo.Update(ctx, recipe, nil, nil, true, false))

		got, err := repo.GetByID(ctx, user.ID, recipe.ID)
		require.NoError(t, err)
		require.Empty(t, got.Tags)
	})
}

func TestRecipeRepository_SetImagePath(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "test@example.com")

	recipe := domain.NewRecipe(user.ID, "Toast", 10, 550)
	require.NoError(t, repo.Create(ctx, recipe, nil, nil))

	require.NoError(t, repo.SetImagePath(ctx, user.ID, recipe.ID, "recipe/abc.png"))

	got, err := repo.GetByID(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	require.Equal(t, "recipe/abc.png", got.ImagePath)
	require.True(t, got.HasImage())
}

func TestRecipeRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	tagRepo := NewTagRepository(db)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "test@example.com")

	tag := domain.NewTag(user.ID, "Vegan")
	require.NoError(t, tagRepo.Create(ctx, tag))

	recipe := domain.NewRecipe(user.ID, "Toast", 10, 550)
	require.NoError(t, repo.Create(ctx, recipe, []int64{tag.ID}, nil))

	require.NoError(t, repo.Delete(ctx, user.ID, recipe.ID))

	_, err := repo.GetByID(ctx, user.ID, recipe.ID)
	require.ErrorIs(t, err, domain.ErrRecipeNotFound)

	// The tag itself survives, only the join row is gone.
	_, err = tagRepo.GetByID(ctx, user.ID, tag.ID)
	require.NoError(t, err)

	var joins int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipe_tags WHERE recipe_id = ?`, recipe.ID).Scan(&joins))
	require.Zero(t, joins)
}
