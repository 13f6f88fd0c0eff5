package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rashid54/recipe-app-api/internal/domain"
	"github.com/rashid54/recipe-app-api/internal/repository"
)

func TestLabelRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "test@example.com")

	tag := domain.NewTag(user.ID, "Vegan")
	require.NoError(t, repo.Create(ctx, tag))
	require.NotZero(t, tag.ID)

	got, err := repo.GetByID(ctx, user.ID, tag.ID)
	require.NoError(t, err)
	require.Equal(t, "Vegan", got.Name)
	require.Equal(t, user.ID, got.UserID)
}

func TestLabelRepository_OwnerScoping(t *testing.T) {
	db := newTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	intruder := createTestUser(t, db, "intruder@example.com")

	tag := domain.NewTag(owner.ID, "Vegan")
	require.NoError(t, repo.Create(ctx, tag))

	// A foreign row and a missing row are indistinguishable.
	_, err := repo.GetByID(ctx, intruder.ID, tag.ID)
	require.ErrorIs(t, err, domain.ErrTagNotFound)
	_, err = repo.GetByID(ctx, owner.ID, 9999)
	require.ErrorIs(t, err, domain.ErrTagNotFound)

	foreign := domain.NewTag(intruder.ID, "Stolen")
	foreign.ID = tag.ID
	require.ErrorIs(t, repo.Update(ctx, foreign), domain.ErrTagNotFound)
	require.ErrorIs(t, repo.Delete(ctx, intruder.ID, tag.ID), domain.ErrTagNotFound)

	tags, err := repo.List(ctx, intruder.ID, repository.LabelListOptions{})
	require.NoError(t, err)
	require.Empty(t, tags)
}

func TestLabelRepository_ListOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "test@example.com")

	for _, name := range []string{"Breakfast", "Vegan", "Dessert"} {
		require.NoError(t, repo.Create(ctx, domain.NewTag(user.ID, name)))
	}

	tags, err := repo.List(ctx, user.ID, repository.LabelListOptions{})
	require.NoError(t, err)
	require.Len(t, tags, 3)

	// Name descending.
	require.Equal(t, "Vegan", tags[0].Name)
	require.Equal(t, "Dessert", tags[1].Name)
	require.Equal(t, "Breakfast", tags[2].Name)
}

func TestLabelRepository_ListAssignedOnly(t *testing.T) {
	db := newTestDB(t)
	tagRepo := NewTagRepository(db)
	recipeRepo := NewRecipeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "test@example.com")

	assigned := domain.NewTag(user.ID, "Vegan")
	require.NoError(t, tagRepo.Create(ctx, assigned))
	unassigned := domain.NewTag(user.ID, "Dessert")
	require.NoError(t, tagRepo.Create(ctx, unassigned))

	recipe := domain.NewRecipe(user.ID, "Toast", 10, 550)
	require.NoError(t, recipeRepo.Create(ctx, recipe, []int64{assigned.ID}, nil))

	tags, err := tagRepo.List(ctx, user.ID, repository.LabelListOptions{AssignedOnly: true})
	require.NoError(t, err)
	require.Len(t, tags, 1)
	require.Equal(t, assigned.ID, tags[0].ID)
}

func TestLabelRepository_ListAssignedOnly_AnyRecipeOwner(t *testing.T) {
	db := newTestDB(t)
	tagRepo := NewTagRepository(db)
	recipeRepo := NewRecipeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "test@example.com")
	other := createTestUser(t, db, "other@example.com")

	tag := domain.NewTag(user.ID, "Vegan")
	require.NoError(t, tagRepo.Create(ctx, tag))

	// Assignment counts no matter which user owns the referencing recipe.
	recipe := domain.NewRecipe(other.ID, "Toast", 10, 550)
	require.NoError(t, recipeRepo.Create(ctx, recipe, []int64{tag.ID}, nil))

	tags, err := tagRepo.List(ctx, user.ID, repository.LabelListOptions{AssignedOnly: true})
	require.NoError(t, err)
	require.Len(t, tags, 1)
	require.Equal(t, tag.ID, tags[0].ID)
}

func TestLabelRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "test@example.com")

	tag := domain.NewTag(user.ID, "Vegan")
	require.NoError(t, repo.Create(ctx, tag))

	tag.Name = "Vegetarian"
	require.NoError(t, repo.Update(ctx, tag))

	got, err := repo.GetByID(ctx, user.ID, tag.ID)
	require.NoError(t, err)
	require.Equal(t, "Vegetarian", got.Name)
}

func TestLabelRepository_DeleteDetachesRecipes(t *testing.T) {
	db := newTestDB(t)
	tagRepo := NewTagRepository(db)
	recipeRepo := NewRecipeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "test@example.com")

	tag := domain.NewTag(user.ID, "Vegan")
	require.NoError(t, tagRepo.Create(ctx, tag))

	recipe := domain.NewRecipe(user.ID, "Toast", 10, 550)
	require.NoError(t, recipeRepo.Create(ctx, recipe, []int64{tag.ID}, nil))

	require.NoError(t, tagRepo.Delete(ctx, user.ID, tag.ID))

	// The recipe survives, the attachment does not.
	got, err := recipeRepo.GetByID(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	require.Empty(t, got.Tags)
}

func TestIngredientRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewIngredientRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "test@example.com")
	other := createTestUser(t, db, "other@example.com")

	ingredient := domain.NewIngredient(user.ID, "Cucumber")
	require.NoError(t, repo.Create(ctx, ingredient))

	got, err := repo.GetByID(ctx, user.ID, ingredient.ID)
	require.NoError(t, err)
	require.Equal(t, "Cucumber", got.Name)

	_, err = repo.GetByID(ctx, other.ID, ingredient.ID)
	require.ErrorIs(t, err, domain.ErrIngredientNotFound)
}
