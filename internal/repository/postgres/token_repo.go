package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/rashid54/recipe-app-api/internal/domain"
	"github.com/rashid54/recipe-app-api/internal/repository"
)

// tokenRepository implements repository.TokenRepository for PostgreSQL.
type tokenRepository struct {
	db *DB
}

// NewTokenRepository creates a new PostgreSQL token repository.
func NewTokenRepository(db *DB) repository.TokenRepository {
	return &tokenRepository{db: db}
}

// Create persists a newly issued token.
func (r *tokenRepository) Create(ctx context.Context, token *domain.Token) error {
	query := `
		INSERT INTO tokens (user_id, digest, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		token.UserID,
		token.Digest,
		token.ExpiresAt,
		token.CreatedAt,
	).Scan(&token.ID)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	return nil
}

// GetByDigest retrieves a token by its SHA-256 digest.
func (r *tokenRepository) GetByDigest(ctx context.Context, digest string) (*domain.Token, error) {
	query := `
		SELECT id, user_id, digest, expires_at, created_at, last_used_at
		FROM tokens
		WHERE digest = $1
	`

	token := &domain.Token{}
	err := r.db.Pool.QueryRow(ctx, query, digest).Scan(
		&token.ID,
		&token.UserID,
		&token.Digest,
		&token.ExpiresAt,
		&token.CreatedAt,
		&token.LastUsedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// UpdateLastUsed updates the last_used_at timestamp.
func (r *tokenRepository) UpdateLastUsed(ctx context.Context, id int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE tokens SET last_used_at = $1 WHERE id = $2`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update token last_used_at: %w", err)
	}
	return nil
}

// DeleteByDigest revokes a single token.
func (r *tokenRepository) DeleteByDigest(ctx context.Context, digest string) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM tokens WHERE digest = $1`, digest)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrTokenNotFound
	}
	return nil
}

// DeleteByUserID revokes all tokens of a user.
func (r *tokenRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM tokens WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user tokens: %w", err)
	}
	return result.RowsAffected(), nil
}

// DeleteExpired removes all expired tokens.
func (r *tokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM tokens WHERE expires_at IS NOT NULL AND expires_at < $1`,
		time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return result.RowsAffected(), nil
}

// Ensure tokenRepository implements repository.TokenRepository.
var _ repository.TokenRepository = (*tokenRepository)(nil)
