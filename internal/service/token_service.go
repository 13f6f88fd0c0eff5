package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rashid54/recipe-app-api/internal/config"
	"github.com/rashid54/recipe-app-api/internal/domain"
	"github.com/rashid54/recipe-app-api/internal/pkg/crypto"
	"github.com/rashid54/recipe-app-api/internal/repository"
)

// TokenService issues, resolves and revokes opaque bearer tokens.
// Resolution is cache-assisted: a successfully resolved token caches its
// user for TokenCacheTTL, so the hot path skips the database.
type TokenService struct {
	tokenRepo repository.TokenRepository
	userRepo  repository.UserRepository
	cache     repository.Cache
	cfg       config.AuthConfig
	logger    zerolog.Logger
}

// NewTokenService creates a new TokenService.
func NewTokenService(
	tokenRepo repository.TokenRepository,
	userRepo repository.UserRepository,
	cache repository.Cache,
	cfg config.AuthConfig,
	logger zerolog.Logger,
) *TokenService {
	return &TokenService{
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
		cache:     cache,
		cfg:       cfg,
		logger:    logger.With().Str("service", "token").Logger(),
	}
}

// cacheKey namespaces token cache entries by digest.
func cacheKey(digest string) string {
	return "token:" + digest
}

// IssueOutput contains a newly issued token.
type IssueOutput struct {
	// Plaintext is the token value returned to the client. It is not
	// stored anywhere; losing it means issuing a new token.
	Plaintext string

	// Token is the persisted record (digest only).
	Token *domain.Token
}

// Issue creates a new bearer token for a user.
func (s *TokenService) Issue(ctx context.Context, userID int64) (*IssueOutput, error) {
	plaintext, err := crypto.GenerateToken()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate token")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	token := domain.NewToken(userID, crypto.DigestToken(plaintext), s.cfg.TokenTTL)

	if err := s.tokenRepo.Create(ctx, token); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to store token")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().
		Int64("user_id", userID).
		Int64("token_id", token.ID).
		Msg("token issued")

	return &IssueOutput{Plaintext: plaintext, Token: token}, nil
}

// Resolve maps a plaintext bearer token to its user.
// Unknown, malformed and expired tokens all surface as ErrTokenNotFound.
func (s *TokenService) Resolve(ctx context.Context, plaintext string) (*domain.User, error) {
	if !crypto.ValidateTokenFormat(plaintext) {
		return nil, domain.ErrTokenNotFound
	}

	digest := crypto.DigestToken(plaintext)

	if user, ok := s.cachedUser(ctx, digest); ok {
		return user, nil
	}

	token, err := s.tokenRepo.GetByDigest(ctx, digest)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		s.logger.Error().Err(err).Msg("failed to look up token")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if !token.IsValid() {
		// Expired tokens are removed on first sighting.
		if err := s.tokenRepo.DeleteByDigest(ctx, digest); err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
			s.logger.Warn().Err(err).Int64("token_id", token.ID).Msg("failed to remove expired token")
		}
		return nil, domain.ErrTokenNotFound
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		s.logger.Error().Err(err).Int64("user_id", token.UserID).Msg("failed to load token user")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := s.tokenRepo.UpdateLastUsed(ctx, token.ID); err != nil {
		s.logger.Warn().Err(err).Int64("token_id", token.ID).Msg("failed to update token last_used_at")
	}

	s.cacheUser(ctx, digest, user)

	return user, nil
}

// Revoke invalidates a single token.
func (s *TokenService) Revoke(ctx context.Context, plaintext string) error {
	if !crypto.ValidateTokenFormat(plaintext) {
		return domain.ErrTokenNotFound
	}

	digest := crypto.DigestToken(plaintext)

	if err := s.cache.Delete(ctx, cacheKey(digest)); err != nil {
		s.logger.Warn().Err(err).Msg("failed to evict token from cache")
	}

	if err := s.tokenRepo.DeleteByDigest(ctx, digest); err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return domain.ErrTokenNotFound
		}
		s.logger.Error().Err(err).Msg("failed to revoke token")
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().Msg("token revoked")
	return nil
}

// RevokeAllForUser invalidates every token of a user. Cache entries for
// those tokens age out within TokenCacheTTL.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID int64) (int64, error) {
	count, err := s.tokenRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to revoke user tokens")
		return 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info().Int64("user_id", userID).Int64("count", count).Msg("user tokens revoked")
	return count, nil
}

// PurgeExpired removes expired token records.
func (s *TokenService) PurgeExpired(ctx context.Context) (int64, error) {
	count, err := s.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to purge expired tokens")
		return 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if count > 0 {
		s.logger.Info().Int64("count", count).Msg("expired tokens purged")
	}
	return count, nil
}

// cachedUser loads a user from the token cache. Cache failures degrade to
// a database lookup.
func (s *TokenService) cachedUser(ctx context.Context, digest string) (*domain.User, bool) {
	data, err := s.cache.Get(ctx, cacheKey(digest))
	if err != nil {
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.Warn().Err(err).Msg("token cache read failed")
		}
		return nil, false
	}

	user := &domain.User{}
	if err := json.Unmarshal(data, user); err != nil {
		s.logger.Warn().Err(err).Msg("corrupt token cache entry")
		return nil, false
	}
	return user, true
}

// cacheUser stores a resolved user in the token cache.
func (s *TokenService) cacheUser(ctx context.Context, digest string, user *domain.User) {
	if s.cfg.TokenCacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(digest), data, s.cfg.TokenCacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("token cache write failed")
	}
}

// Interval for background expired-token sweeps, used by the server loop.
const PurgeInterval = time.Hour
