package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campusprep-api/internal/models"
)

func TestRefreshSessionConsumeIsSingleUse(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRefreshSessionRepository(db)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, &models.RefreshSession{TokenID: "jti-1", AccountID: 1, ExpiresAt: now.Add(time.Hour)}))

	ok, err := repo.Consume(ctx, "jti-1", now)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.Consume(ctx, "jti-1", now)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRefreshSessionConsumeIgnoresExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRefreshSessionRepository(db)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, &models.RefreshSession{TokenID: "old", AccountID: 1, ExpiresAt: now.Add(-time.Minute)}))

	ok, err := repo.Consume(ctx, "old", now)
	require.NoError(t, err)
	require.False(t, ok)

	removed, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)
}

func TestRefreshSessionDeleteByAccount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRefreshSessionRepository(db)
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)

	require.NoError(t, repo.Create(ctx, &models.RefreshSession{TokenID: "a", AccountID: 1, ExpiresAt: expires}))
	require.NoError(t, repo.Create(ctx, &models.RefreshSession{TokenID: "b", AccountID: 1, ExpiresAt: expires}))
	require.NoError(t, repo.Create(ctx, &models.RefreshSession{TokenID: "c", AccountID: 2, ExpiresAt: expires}))

	require.NoError(t, repo.DeleteByAccount(ctx, 1))

	var remaining int64
	require.NoError(t, db.Model(&models.RefreshSession{}).Count(&remaining).Error)
	require.Equal(t, int64(1), remaining)
}
