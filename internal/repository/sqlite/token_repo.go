package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rashid54/recipe-app-api/internal/domain"
	"github.com/rashid54/recipe-app-api/internal/repository"
)

// tokenRepository implements repository.TokenRepository for SQLite.
type tokenRepository struct {
	db *DB
}

// NewTokenRepository creates a new SQLite token repository.
func NewTokenRepository(db *DB) repository.TokenRepository {
	return &tokenRepository{db: db}
}

// Create persists a newly issued token.
func (r *tokenRepository) Create(ctx context.Context, token *domain.Token) error {
	query := `
		INSERT INTO tokens (user_id, digest, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`

	var expiresAt interface{}
	if token.ExpiresAt != nil {
		expiresAt = token.ExpiresAt.Format(time.RFC3339)
	}

	result, err := r.db.ExecContext(ctx, query,
		token.UserID,
		token.Digest,
		expiresAt,
		token.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	token.ID = id

	return nil
}

// GetByDigest retrieves a token by its SHA-256 digest.
func (r *tokenRepository) GetByDigest(ctx context.Context, digest string) (*domain.Token, error) {
	query := `
		SELECT id, user_id, digest, expires_at, created_at, last_used_at
		FROM tokens
		WHERE digest = ?
	`

	token := &domain.Token{}
	var expiresAt, lastUsedAt sql.NullString
	var createdAt string

	err := r.db.QueryRowContext(ctx, query, digest).Scan(
		&token.ID,
		&token.UserID,
		&token.Digest,
		&expiresAt,
		&createdAt,
		&lastUsedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	token.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if expiresAt.Valid {
		t, _ := time.Parse(time.RFC3339, expiresAt.String)
		token.ExpiresAt = &t
	}
	if lastUsedAt.Valid {
		t, _ := time.Parse(time.RFC3339, lastUsedAt.String)
		token.LastUsedAt = &t
	}

	return token, nil
}

// UpdateLastUsed updates the last_used_at timestamp.
func (r *tokenRepository) UpdateLastUsed(ctx context.Context, id int64) error {
	query := `UPDATE tokens SET last_used_at = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to update token last_used_at: %w", err)
	}
	return nil
}

// DeleteByDigest revokes a single token.
func (r *tokenRepository) DeleteByDigest(ctx context.Context, digest string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE digest = ?`, digest)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrTokenNotFound
	}
	return nil
}

// DeleteByUserID revokes all tokens of a user.
func (r *tokenRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user tokens: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected, nil
}

// DeleteExpired removes all expired tokens.
func (r *tokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM tokens WHERE expires_at IS NOT NULL AND expires_at < ?`

	result, err := r.db.ExecContext(ctx, query, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected, nil
}

// Ensure tokenRepository implements repository.TokenRepository.
var _ repository.TokenRepository = (*tokenRepository)(nil)
