package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/campusprep-api/internal/models"
)

// RefreshSessionRepository tracks redeemable refresh token ids in the relational store.
type RefreshSessionRepository interface {
	Create(ctx context.Context, session *models.RefreshSession) error
	Consume(ctx context.Context, tokenID string, now time.Time) (bool, error)
	DeleteByAccount(ctx context.Context, accountID uint) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type refreshSessionRepository struct {
	db *gorm.DB
}

// NewRefreshSessionRepository instantiates a GORM-backed repository.
func NewRefreshSessionRepository(db *gorm.DB) RefreshSessionRepository {
	return &refreshSessionRepository{db: db}
}

func (r *refreshSessionRepository) Create(ctx context.Context, session *models.RefreshSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// Consume deletes the live session row; exactly one concurrent caller observes true.
func (r *refreshSessionRepository) Consume(ctx context.Context, tokenID string, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("token_id = ? AND expires_at > ?", tokenID, now).
		Delete(&models.RefreshSession{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *refreshSessionRepository) DeleteByAccount(ctx context.Context, accountID uint) error {
	return r.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&models.RefreshSession{}).Error
}

func (r *refreshSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.RefreshSession{})
	return result.RowsAffected, result.Error
}
