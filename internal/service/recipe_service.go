package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"path"
	"strings"

	// Registered decoders bound the accepted upload formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog"

	"github.com/rashid54/recipe-app-api/internal/domain"
	"github.com/rashid54/recipe-app-api/internal/repository"
	"github.com/rashid54/recipe-app-api/internal/storage"
)

// RecipeService handles recipe operations, including attachment of the
// caller's tags and ingredients and image upload.
type RecipeService struct {
	recipeRepo     repository.RecipeRepository
	tagRepo        repository.LabelRepository[domain.Tag]
	ingredientRepo repository.LabelRepository[domain.Ingredient]
	images         storage.Backend
	logger         zerolog.Logger
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	tagRepo repository.LabelRepository[domain.Tag],
	ingredientRepo repository.LabelRepository[domain.Ingredient],
	images storage.Backend,
	logger zerolog.Logger,
) *RecipeService {
	return &RecipeService{
		recipeRepo:     recipeRepo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		images:         images,
		logger:         logger.With().Str("service", "recipe").Logger(),
	}
}

// CreateRecipeInput contains the data needed to create a recipe.
type CreateRecipeInput struct {
	Title         string
	TimeMinutes   int
	Price         domain.Price
	Link          string
	TagIDs        []int64
	IngredientIDs []int64
}

// Create makes a new recipe owned by ownerID. Referenced tags and
// ingredients must belong to the same owner; anything else resolves as
// not found.
func (s *RecipeService) Create(ctx context.Context, ownerID int64, input CreateRecipeInput) (*domain.Recipe, error) {
	if err := validateRecipeFields(input.Title, input.TimeMinutes); err != nil {
		return nil, err
	}

	tagIDs := dedupeIDs(input.TagIDs)
	ingredientIDs := dedupeIDs(input.IngredientIDs)

	tags, err := s.resolveTags(ctx, ownerID, tagIDs)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.resolveIngredients(ctx, ownerID, ingredientIDs)
	if err != nil {
		return nil, err
	}

	recipe := domain.NewRecipe(ownerID, input.Title, input.TimeMinutes, input.Price)
	recipe.Link = input.Link
	recipe.Tags = tags
	recipe.Ingredients = ingredients

	if err := s.recipeRepo.Create(ctx, recipe, tagIDs, ingredientIDs); err != nil {
		s.logger.Error().Err(err).Int64("user_id", ownerID).Msg("failed to create recipe")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().
		Int64("user_id", ownerID).
		Int64("recipe_id", recipe.ID).
		Msg("recipe created")

	return recipe, nil
}

// Get retrieves one of the owner's recipes with associations populated.
func (s *RecipeService) Get(ctx context.Context, ownerID, id int64) (*domain.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		s.logger.Error().Err(err).Int64("user_id", ownerID).Int64("recipe_id", id).Msg("failed to get recipe")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return recipe, nil
}

// List returns the owner's recipes, newest first.
func (s *RecipeService) List(ctx context.Context, ownerID int64) ([]*domain.Recipe, error) {
	recipes, err := s.recipeRepo.List(ctx, ownerID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", ownerID).Msg("failed to list recipes")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if recipes == nil {
		recipes = []*domain.Recipe{}
	}
	return recipes, nil
}

// UpdateRecipeInput contains the fields an update may change. Nil
// pointers leave the field untouched; a full update sets every pointer,
// clearing link and associations when the request omitted them.
type UpdateRecipeInput struct {
	Title         *string
	TimeMinutes   *int
	Price         *domain.Price
	Link          *string
	TagIDs        *[]int64
	IngredientIDs *[]int64
}

// Update applies an update to one of the owner's recipes.
func (s *RecipeService) Update(ctx context.Context, ownerID, id int64, input UpdateRecipeInput) (*domain.Recipe, error) {
	recipe, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		recipe.Title = *input.Title
	}
	if input.TimeMinutes != nil {
		recipe.TimeMinutes = *input.TimeMinutes
	}
	if input.Price != nil {
		recipe.Price = *input.Price
	}
	if input.Link != nil {
		recipe.Link = *input.Link
	}

	if err := validateRecipeFields(recipe.Title, recipe.TimeMinutes); err != nil {
		return nil, err
	}

	tagIDs := recipe.TagIDs()
	replaceTags := input.TagIDs != nil
	if replaceTags {
		tagIDs = dedupeIDs(*input.TagIDs)
		tags, err := s.resolveTags(ctx, ownerID, tagIDs)
		if err != nil {
			return nil, err
		}
		recipe.Tags = tags
	}

	ingredientIDs := recipe.IngredientIDs()
	replaceIngredients := input.IngredientIDs != nil
	if replaceIngredients {
		ingredientIDs = dedupeIDs(*input.IngredientIDs)
		ingredients, err := s.resolveIngredients(ctx, ownerID, ingredientIDs)
		if err != nil {
			return nil, err
		}
		recipe.Ingredients = ingredients
	}

	if err := s.recipeRepo.Update(ctx, recipe, tagIDs, ingredientIDs, replaceTags, replaceIngredients); err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		s.logger.Error().Err(err).Int64("user_id", ownerID).Int64("recipe_id", id).Msg("failed to update recipe")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().
		Int64("user_id", ownerID).
		Int64("recipe_id", id).
		Msg("recipe updated")

	return recipe, nil
}

// Delete removes one of the owner's recipes. The image blob, if any, is
// cleaned up best-effort; a failed blob delete is logged, not surfaced.
func (s *RecipeService) Delete(ctx context.Context, ownerID, id int64) error {
	recipe, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.recipeRepo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) {
			return domain.ErrRecipeNotFound
		}
		s.logger.Error().Err(err).Int64("user_id", ownerID).Int64("recipe_id", id).Msg("failed to delete recipe")
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if recipe.HasImage() {
		if err := s.images.Delete(ctx, recipe.ImagePath); err != nil {
			s.logger.Warn().Err(err).Str("image", recipe.ImagePath).Msg("failed to delete recipe image blob")
		}
	}

	s.logger.Info().Int64("user_id", ownerID).Int64("recipe_id", id).Msg("recipe deleted")
	return nil
}

// UploadImage validates and stores an image for one of the owner's
// recipes, replacing any previous image.
func (s *RecipeService) UploadImage(ctx context.Context, ownerID, id int64, filename string, r io.Reader) (*domain.Recipe, error) {
	recipe, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read image upload")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// Validation happens before any write: a payload that does not decode
	// as an image never reaches the blob store.
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, domain.ErrNotAnImage
	}

	key := storage.ImageKey(filename)
	if err := s.images.Store(ctx, key, bytes.NewReader(data)); err != nil {
		s.logger.Error().Err(err).Int64("recipe_id", id).Msg("failed to store recipe image")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := s.recipeRepo.SetImagePath(ctx, ownerID, id, key); err != nil {
		if cleanupErr := s.images.Delete(ctx, key); cleanupErr != nil {
			s.logger.Warn().Err(cleanupErr).Str("image", key).Msg("failed to clean up orphaned image blob")
		}
		if errors.Is(err, domain.ErrRecipeNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		s.logger.Error().Err(err).Int64("recipe_id", id).Msg("failed to record recipe image")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// The previous image, if any, is now unreferenced.
	if recipe.HasImage() && recipe.ImagePath != key {
		if err := s.images.Delete(ctx, recipe.ImagePath); err != nil {
			s.logger.Warn().Err(err).Str("image", recipe.ImagePath).Msg("failed to delete replaced image blob")
		}
	}

	recipe.ImagePath = key

	s.logger.Info().
		Int64("user_id", ownerID).
		Int64("recipe_id", id).
		Str("image", key).
		Msg("recipe image uploaded")

	return recipe, nil
}

// GetImage opens the stored image of one of the owner's recipes.
// The caller must close the returned reader.
func (s *RecipeService) GetImage(ctx context.Context, ownerID, id int64) (io.ReadCloser, string, error) {
	recipe, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, "", err
	}

	if !recipe.HasImage() {
		return nil, "", domain.ErrRecipeHasNoImage
	}

	reader, err := s.images.Retrieve(ctx, recipe.ImagePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", domain.ErrImageNotFound
		}
		s.logger.Error().Err(err).Str("image", recipe.ImagePath).Msg("failed to retrieve recipe image")
		return nil, "", fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return reader, imageContentType(recipe.ImagePath), nil
}

// resolveTags loads each referenced tag through the owner-scoped lookup,
// so a foreign or unknown id fails as tag-not-found.
func (s *RecipeService) resolveTags(ctx context.Context, ownerID int64, ids []int64) ([]*domain.Tag, error) {
	tags := make([]*domain.Tag, 0, len(ids))
	for _, tagID := range ids {
		tag, err := s.tagRepo.GetByID(ctx, ownerID, tagID)
		if err != nil {
			if errors.Is(err, domain.ErrTagNotFound) {
				return nil, domain.ErrTagNotFound
			}
			s.logger.Error().Err(err).Int64("tag_id", tagID).Msg("failed to resolve tag")
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// dedupeIDs drops repeated ids, keeping first-seen order. A payload may
// name the same association twice; each join row is written once.
func dedupeIDs(ids []int64) []int64 {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// resolveIngredients mirrors resolveTags for ingredients.
func (s *RecipeService) resolveIngredients(ctx context.Context, ownerID int64, ids []int64) ([]*domain.Ingredient, error) {
	ingredients := make([]*domain.Ingredient, 0, len(ids))
	for _, ingredientID := range ids {
		ingredient, err := s.ingredientRepo.GetByID(ctx, ownerID, ingredientID)
		if err != nil {
			if errors.Is(err, domain.ErrIngredientNotFound) {
				return nil, domain.ErrIngredientNotFound
			}
			s.logger.Error().Err(err).Int64("ingredient_id", ingredientID).Msg("failed to resolve ingredient")
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, nil
}

// validateRecipeFields enforces the scalar constraints shared by create
// and update.
func validateRecipeFields(title string, timeMinutes int) error {
	if strings.TrimSpace(title) == "" {
		return NewValidationError("title", "this field may not be blank")
	}
	if timeMinutes <= 0 {
		return NewValidationError("time_minutes", "must be a positive integer")
	}
	return nil
}

// imageContentType maps a stored key's extension onto a MIME type.
func imageContentType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
