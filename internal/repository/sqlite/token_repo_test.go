package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rashid54/recipe-app-api/internal/domain"
)

func TestTokenRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "test@example.com")

	token := domain.NewToken(user.ID, "digest-1", 0)
	require.NoError(t, repo.Create(ctx, token))
	require.NotZero(t, token.ID)

	got, err := repo.GetByDigest(ctx, "digest-1")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.UserID)
	require.Nil(t, got.ExpiresAt)
	require.Nil(t, got.LastUsedAt)

	_, err = repo.GetByDigest(ctx, "unknown")
	require.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestTokenRepository_ExpiringToken(t *testing.T) {
	db := newTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "test@example.com")

	token := domain.NewToken(user.ID, "digest-1", time.Hour)
	require.NoError(t, repo.Create(ctx, token))

	got, err := repo.GetByDigest(ctx, "digest-1")
	require.NoError(t, err)
	require.NotNil(t, got.ExpiresAt)
	require.WithinDuration(t, *token.ExpiresAt, *got.ExpiresAt, time.Second)
}

func TestTokenRepository_UpdateLastUsed(t *testing.T) {
	db := newTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "test@example.com")

	token := domain.NewToken(user.ID, "digest-1", 0)
	require.NoError(t, repo.Create(ctx, token))
	require.NoError(t, repo.UpdateLastUsed(ctx, token.ID))

	got, err := repo.GetByDigest(ctx, "digest-1")
	require.NoError(t, err)
	require.NotNil(t, got.LastUsedAt)
}

func TestTokenRepository_DeleteByDigest(t *testing.T) {
	db := newTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "test@example.com")
	require.NoError(t, repo.Create(ctx, domain.NewToken(user.ID, "digest-1", 0)))

	require.NoError(t, repo.DeleteByDigest(ctx, "digest-1"))

	_, err := repo.GetByDigest(ctx, "digest-1")
	require.ErrorIs(t, err, domain.ErrTokenNotFound)

	require.ErrorIs(t, repo.DeleteByDigest(ctx, "digest-1"), domain.ErrTokenNotFound)
}

func TestTokenRepository_DeleteByUserID(t *testing.T) {
	db := newTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "test@example.com")
	other := createTestUser(t, db, "other@example.com")

	require.NoError(t, repo.Create(ctx, domain.NewToken(user.ID, "digest-1", 0)))
	require.NoError(t, repo.Create(ctx, domain.NewToken(user.ID, "digest-2", 0)))
	require.NoError(t, repo.Create(ctx, domain.NewToken(other.ID, "digest-3", 0)))

	count, err := repo.DeleteByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	// The other user's token is untouched.
	_, err = repo.GetByDigest(ctx, "digest-3")
	require.NoError(t, err)
}

func TestTokenRepository_DeleteExpired(t *testing.T) {
	db := newTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "test@example.com")

	require.NoError(t, repo.Create(ctx, domain.NewToken(user.ID, "live", 0)))
	require.NoError(t, repo.Create(ctx, domain.NewToken(user.ID, "future", time.Hour)))

	expired := domain.NewToken(user.ID, "expired", time.Hour)
	past := time.Now().UTC().Add(-time.Minute)
	expired.ExpiresAt = &past
	require.NoError(t, repo.Create(ctx, expired))

	count, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	_, err = repo.GetByDigest(ctx, "expired")
	require.ErrorIs(t, err, domain.ErrTokenNotFound)
	_, err = repo.GetByDigest(ctx, "live")
	require.NoError(t, err)
	_, err = repo.GetByDigest(ctx, "future")
	require.NoError(t, err)
}

func TestTokenRepository_CascadeOnUserDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "test@example.com")
	require.NoError(t, repo.Create(ctx, domain.NewToken(user.ID, "digest-1", 0)))

	_, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, user.ID)
	require.NoError(t, err)

	_, err = repo.GetByDigest(ctx, "digest-1")
	require.ErrorIs(t, err, domain.ErrTokenNotFound)
}
