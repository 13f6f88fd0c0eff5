package service

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/rashid54/recipe-app-api/internal/domain"
	"github.com/rashid54/recipe-app-api/internal/repository"
	"github.com/rashid54/recipe-app-api/internal/storage"
)

// Shared in-memory mocks for the repository and storage interfaces.
// Ownership scoping mirrors the real implementations: a row owned by a
// different user surfaces as not found.

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	users     map[int64]*domain.User
	nextID    int64
	createErr error
	getErr    error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[int64]*domain.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrUserAlreadyExists
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if u, exists := m.users[id]; exists {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.ID]; !exists {
		return domain.ErrUserNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if err == domain.ErrUserNotFound {
		return false, nil
	}
	return false, err
}

// MockTokenRepository is a mock implementation of repository.TokenRepository,
// keyed by digest.
type MockTokenRepository struct {
	tokens    map[string]*domain.Token
	nextID    int64
	createErr error
}

func NewMockTokenRepository() *MockTokenRepository {
	return &MockTokenRepository{
		tokens: make(map[string]*domain.Token),
		nextID: 1,
	}
}

func (m *MockTokenRepository) Create(ctx context.Context, token *domain.Token) error {
	if m.createErr != nil {
		return m.createErr
	}
	token.ID = m.nextID
	m.nextID++
	m.tokens[token.Digest] = token
	return nil
}

func (m *MockTokenRepository) GetByDigest(ctx context.Context, digest string) (*domain.Token, error) {
	if t, exists := m.tokens[digest]; exists {
		return t, nil
	}
	return nil, domain.ErrTokenNotFound
}

func (m *MockTokenRepository) UpdateLastUsed(ctx context.Context, id int64) error {
	for _, t := range m.tokens {
		if t.ID == id {
			now := time.Now().UTC()
			t.LastUsedAt = &now
			return nil
		}
	}
	return domain.ErrTokenNotFound
}

func (m *MockTokenRepository) DeleteByDigest(ctx context.Context, digest string) error {
	if _, exists := m.tokens[digest]; !exists {
		return domain.ErrTokenNotFound
	}
	delete(m.tokens, digest)
	return nil
}

func (m *MockTokenRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	var count int64
	for digest, t := range m.tokens {
		if t.UserID == userID {
			delete(m.tokens, digest)
			count++
		}
	}
	return count, nil
}

func (m *MockTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	var count int64
	now := time.Now().UTC()
	for digest, t := range m.tokens {
		if t.ExpiresAt != nil && t.ExpiresAt.Before(now) {
			delete(m.tokens, digest)
			count++
		}
	}
	return count, nil
}

// MockCache is a mock implementation of repository.Cache.
type MockCache struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if v, exists := m.data[key]; exists {
		return v, nil
	}
	return nil, repository.ErrCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

// MockTagRepository is a mock implementation of
// repository.LabelRepository[domain.Tag].
type MockTagRepository struct {
	tags   map[int64]*domain.Tag
	nextID int64
	// assigned marks tags returned by assigned-only listings.
	assigned map[int64]bool
	listErr  error
}

func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{
		tags:     make(map[int64]*domain.Tag),
		assigned: make(map[int64]bool),
		nextID:   1,
	}
}

func (m *MockTagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	tag.ID = m.nextID
	m.nextID++
	m.tags[tag.ID] = tag
	return nil
}

func (m *MockTagRepository) GetByID(ctx context.Context, ownerID, id int64) (*domain.Tag, error) {
	if t, exists := m.tags[id]; exists && t.UserID == ownerID {
		return t, nil
	}
	return nil, domain.ErrTagNotFound
}

func (m *MockTagRepository) List(ctx context.Context, ownerID int64, opts repository.LabelListOptions) ([]*domain.Tag, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*domain.Tag
	for _, t := range m.tags {
		if t.UserID != ownerID {
			continue
		}
		if opts.AssignedOnly && !m.assigned[t.ID] {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (m *MockTagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	if t, exists := m.tags[tag.ID]; !exists || t.UserID != tag.UserID {
		return domain.ErrTagNotFound
	}
	m.tags[tag.ID] = tag
	return nil
}

func (m *MockTagRepository) Delete(ctx context.Context, ownerID, id int64) error {
	if t, exists := m.tags[id]; !exists || t.UserID != ownerID {
		return domain.ErrTagNotFound
	}
	delete(m.tags, id)
	return nil
}

// MockIngredientRepository is a mock implementation of
// repository.LabelRepository[domain.Ingredient].
type MockIngredientRepository struct {
	ingredients map[int64]*domain.Ingredient
	nextID      int64
}

func NewMockIngredientRepository() *MockIngredientRepository {
	return &MockIngredientRepository{
		ingredients: make(map[int64]*domain.Ingredient),
		nextID:      1,
	}
}

func (m *MockIngredientRepository) Create(ctx context.Context, ingredient *domain.Ingredient) error {
	ingredient.ID = m.nextID
	m.nextID++
	m.ingredients[ingredient.ID] = ingredient
	return nil
}

func (m *MockIngredientRepository) GetByID(ctx context.Context, ownerID, id int64) (*domain.Ingredient, error) {
	if i, exists := m.ingredients[id]; exists && i.UserID == ownerID {
		return i, nil
	}
	return nil, domain.ErrIngredientNotFound
}

func (m *MockIngredientRepository) List(ctx context.Context, ownerID int64, opts repository.LabelListOptions) ([]*domain.Ingredient, error) {
	var result []*domain.Ingredient
	for _, i := range m.ingredients {
		if i.UserID == ownerID {
			result = append(result, i)
		}
	}
	return result, nil
}

func (m *MockIngredientRepository) Update(ctx context.Context, ingredient *domain.Ingredient) error {
	if i, exists := m.ingredients[ingredient.ID]; !exists || i.UserID != ingredient.UserID {
		return domain.ErrIngredientNotFound
	}
	m.ingredients[ingredient.ID] = ingredient
	return nil
}

func (m *MockIngredientRepository) Delete(ctx context.Context, ownerID, id int64) error {
	if i, exists := m.ingredients[id]; !exists || i.UserID != ownerID {
		return domain.ErrIngredientNotFound
	}
	delete(m.ingredients, id)
	return nil
}

// MockRecipeRepository is a mock implementation of repository.RecipeRepository.
type MockRecipeRepository struct {
	recipes map[int64]*domain.Recipe
	nextID  int64

	// Join ids from the most recent Create or Update call.
	lastTagIDs        []int64
	lastIngredientIDs []int64
}

func NewMockRecipeRepository() *MockRecipeRepository {
	return &MockRecipeRepository{
		recipes: make(map[int64]*domain.Recipe),
		nextID:  1,
	}
}

func (m *MockRecipeRepository) Create(ctx context.Context, recipe *domain.Recipe, tagIDs, ingredientIDs []int64) error {
	recipe.ID = m.nextID
	m.nextID++
	m.recipes[recipe.ID] = recipe
	m.lastTagIDs = tagIDs
	m.lastIngredientIDs = ingredientIDs
	return nil
}

func (m *MockRecipeRepository) GetByID(ctx context.Context, ownerID, id int64) (*domain.Recipe, error) {
	if r, exists := m.recipes[id]; exists && r.UserID == ownerID {
		// Copy, so callers never alias the stored row.
		copied := *r
		return &copied, nil
	}
	return nil, domain.ErrRecipeNotFound
}

func (m *MockRecipeRepository) List(ctx context.Context, ownerID int64) ([]*domain.Recipe, error) {
	var result []*domain.Recipe
	for _, r := range m.recipes {
		if r.UserID == ownerID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *MockRecipeRepository) Update(ctx context.Context, recipe *domain.Recipe, tagIDs, ingredientIDs []int64, replaceTags, replaceIngredients bool) error {
	if r, exists := m.recipes[recipe.ID]; !exists || r.UserID != recipe.UserID {
		return domain.ErrRecipeNotFound
	}
	m.recipes[recipe.ID] = recipe
	if replaceTags {
		m.lastTagIDs = tagIDs
	}
	if replaceIngredients {
		m.lastIngredientIDs = ingredientIDs
	}
	return nil
}

func (m *MockRecipeRepository) SetImagePath(ctx context.Context, ownerID, id int64, path string) error {
	r, exists := m.recipes[id]
	if !exists || r.UserID != ownerID {
		return domain.ErrRecipeNotFound
	}
	r.ImagePath = path
	return nil
}

func (m *MockRecipeRepository) Delete(ctx context.Context, ownerID, id int64) error {
	r, exists := m.recipes[id]
	if !exists || r.UserID != ownerID {
		return domain.ErrRecipeNotFound
	}
	delete(m.recipes, r.ID)
	return nil
}

// MockStorageBackend is an in-memory mock of storage.Backend.
type MockStorageBackend struct {
	objects  map[string][]byte
	storeErr error
}

func NewMockStorageBackend() *MockStorageBackend {
	return &MockStorageBackend{objects: make(map[string][]byte)}
}

func (m *MockStorageBackend) Store(ctx context.Context, key string, reader io.Reader) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *MockStorageBackend) Retrieve(ctx context.Context, key string) (io.ReadCloser, error) {
	data, exists := m.objects[key]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MockStorageBackend) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *MockStorageBackend) Exists(ctx context.Context, key string) (bool, error) {
	_, exists := m.objects[key]
	return exists, nil
}

// Interface checks for the mocks.
var (
	_ repository.UserRepository                     = (*MockUserRepository)(nil)
	_ repository.TokenRepository                    = (*MockTokenRepository)(nil)
	_ repository.Cache                              = (*MockCache)(nil)
	_ repository.LabelRepository[domain.Tag]        = (*MockTagRepository)(nil)
	_ repository.LabelRepository[domain.Ingredient] = (*MockIngredientRepository)(nil)
	_ repository.RecipeRepository                   = (*MockRecipeRepository)(nil)
	_ storage.Backend                               = (*MockStorageBackend)(nil)
)
