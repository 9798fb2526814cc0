package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campusprep-api/internal/models"
)

// InterviewRepository defines persistence operations for interview attempts.
type InterviewRepository interface {
	Create(ctx context.Context, attempt *models.InterviewAttempt) error
	GetByID(ctx context.Context, id uint) (models.InterviewAttempt, error)
	Save(ctx context.Context, attempt *models.InterviewAttempt) error
	ListByAccount(ctx context.Context, accountID uint, limit int) ([]models.InterviewAttempt, error)
	CountByAccount(ctx context.Context, accountID uint) (int64, error)
}

type interviewRepository struct {
	db *gorm.DB
}

// NewInterviewRepository instantiates a GORM-backed repository.
func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(ctx context.Context, attempt *models.InterviewAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *interviewRepository) GetByID(ctx context.Context, id uint) (models.InterviewAttempt, error) {
	var attempt models.InterviewAttempt
	if err := r.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		return models.InterviewAttempt{}, err
	}
	return attempt, nil
}

// Save writes the whole attempt row in one statement.
func (r *interviewRepository) Save(ctx context.Context, attempt *models.InterviewAttempt) error {
	return r.db.WithContext(ctx).Save(attempt).Error
}

// ListByAccount returns attempts newest first; limit <= 0 returns all.
func (r *interviewRepository) ListByAccount(ctx context.Context, accountID uint, limit int) ([]models.InterviewAttempt, error) {
	query := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var attempts []models.InterviewAttempt
	if err := query.Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *interviewRepository) CountByAccount(ctx context.Context, accountID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.InterviewAttempt{}).Where("account_id = ?", accountID).Count(&total).Error
	return total, err
}
