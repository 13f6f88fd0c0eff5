package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rashid54/recipe-app-api/internal/domain"
	"github.com/rashid54/recipe-app-api/internal/repository"
)

// LabelService provides owner-scoped CRUD for one label-shaped entity.
// Tags and ingredients share the same rules (non-empty name, owner
// scoping, assigned-only filtering), so the logic is written once and
// instantiated per entity.
type LabelService[T any] struct {
	repo     repository.LabelRepository[T]
	newLabel func(ownerID int64, name string) *T
	setName  func(*T, string)
	kind     string
	logger   zerolog.Logger
}

// NewTagService creates the tag instantiation of LabelService.
func NewTagService(repo repository.LabelRepository[domain.Tag], logger zerolog.Logger) *LabelService[domain.Tag] {
	return &LabelService[domain.Tag]{
		repo:     repo,
		newLabel: domain.NewTag,
		setName:  func(t *domain.Tag, name string) { t.Name = name },
		kind:     "tag",
		logger:   logger.With().Str("service", "tag").Logger(),
	}
}

// NewIngredientService creates the ingredient instantiation of LabelService.
func NewIngredientService(repo repository.LabelRepository[domain.Ingredient], logger zerolog.Logger) *LabelService[domain.Ingredient] {
	return &LabelService[domain.Ingredient]{
		repo:     repo,
		newLabel: domain.NewIngredient,
		setName:  func(i *domain.Ingredient, name string) { i.Name = name },
		kind:     "ingredient",
		logger:   logger.With().Str("service", "ingredient").Logger(),
	}
}

// Create makes a new label owned by ownerID.
func (s *LabelService[T]) Create(ctx context.Context, ownerID int64, name string) (*T, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "this field may not be blank")
	}

	label := s.newLabel(ownerID, name)
	if err := s.repo.Create(ctx, label); err != nil {
		s.logger.Error().Err(err).Int64("user_id", ownerID).Msgf("failed to create %s", s.kind)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().Int64("user_id", ownerID).Msgf("%s created", s.kind)
	return label, nil
}

// Get retrieves one of the owner's labels.
func (s *LabelService[T]) Get(ctx context.Context, ownerID, id int64) (*T, error) {
	label, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("user_id", ownerID).Int64("id", id).Msgf("failed to get %s", s.kind)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return label, nil
}

// List returns the owner's labels, optionally narrowed to those attached
// to at least one recipe.
func (s *LabelService[T]) List(ctx context.Context, ownerID int64, assignedOnly bool) ([]*T, error) {
	labels, err := s.repo.List(ctx, ownerID, repository.LabelListOptions{AssignedOnly: assignedOnly})
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", ownerID).Msgf("failed to list %ss", s.kind)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if labels == nil {
		labels = []*T{}
	}
	return labels, nil
}

// UpdateName renames one of the owner's labels.
func (s *LabelService[T]) UpdateName(ctx context.Context, ownerID, id int64, name string) (*T, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "this field may not be blank")
	}

	label, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("user_id", ownerID).Int64("id", id).Msgf("failed to get %s", s.kind)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.setName(label, name)
	if err := s.repo.Update(ctx, label); err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("user_id", ownerID).Int64("id", id).Msgf("failed to update %s", s.kind)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().Int64("user_id", ownerID).Int64("id", id).Msgf("%s updated", s.kind)
	return label, nil
}

// Delete removes one of the owner's labels, detaching it from recipes.
func (s *LabelService[T]) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if isDomainError(err) {
			return err
		}
		s.logger.Error().Err(err).Int64("user_id", ownerID).Int64("id", id).Msgf("failed to delete %s", s.kind)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().Int64("user_id", ownerID).Int64("id", id).Msgf("%s deleted", s.kind)
	return nil
}

// isDomainError reports whether err is a domain sentinel that should pass
// through to the caller unchanged.
func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrTagNotFound) ||
		errors.Is(err, domain.ErrIngredientNotFound) ||
		errors.Is(err, domain.ErrRecipeNotFound) ||
		errors.Is(err, domain.ErrRecipeHasNoImage) ||
		errors.Is(err, domain.ErrImageNotFound) ||
		errors.Is(err, domain.ErrNotAnImage) ||
		errors.Is(err, domain.ErrInvalidPrice)
}
