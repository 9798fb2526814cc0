package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/campusprep-api/internal/models"
)

// NoteFilter narrows approved note listings.
type NoteFilter struct {
	Branch   string
	Semester string
	Subject  string
	Search   string
}

// NoteRepository defines persistence operations for notes, ratings and bookmarks.
type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id uint) (models.Note, error)
	ListApproved(ctx context.Context, filter NoteFilter) ([]models.Note, error)
	ListPending(ctx context.Context) ([]models.Note, error)
	ListBookmarked(ctx context.Context, accountID uint) ([]models.Note, error)
	Approve(ctx context.Context, id uint) error
	IncrementDownloads(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	UpsertRating(ctx context.Context, rating *models.NoteRating) error
	ToggleBookmark(ctx context.Context, accountID, noteID uint) (bool, error)
	CountBookmarks(ctx context.Context, accountID uint) (int64, error)
}

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository instantiates a GORM-backed repository.
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepository) GetByID(ctx context.Context, id uint) (models.Note, error) {
	var note models.Note
	if err := r.db.WithContext(ctx).Preload("Ratings").First(&note, id).Error; err != nil {
		return models.Note{}, err
	}
	return note, nil
}

func (r *noteRepository) ListApproved(ctx context.Context, filter NoteFilter) ([]models.Note, error) {
	query := r.db.WithContext(ctx).Preload("Ratings").Where("approved = ?", true)

	if branch := strings.TrimSpace(filter.Branch); branch != "" {
		query = query.Where("branch = ?", branch)
	}
	if semester := strings.TrimSpace(filter.Semester); semester != "" {
		query = query.Where("semester = ?", semester)
	}
	if subject := strings.TrimSpace(filter.Subject); subject != "" {
		query = query.Where("LOWER(subject) = ?", strings.ToLower(subject))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(subject) LIKE ?", pattern, pattern)
	}

	var notes []models.Note
	if err := query.Order("created_at DESC").Order("id DESC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *noteRepository) ListPending(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	err := r.db.WithContext(ctx).
		Preload("Ratings").
		Where("approved = ?", false).
		Order("created_at ASC").
		Order("id ASC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *noteRepository) ListBookmarked(ctx context.Context, accountID uint) ([]models.Note, error) {
	var notes []models.Note
	err := r.db.WithContext(ctx).
		Preload("Ratings").
		Joins("JOIN note_bookmarks ON note_bookmarks.note_id = notes.id").
		Where("note_bookmarks.account_id = ?", accountID).
		Order("note_bookmarks.created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *noteRepository) Approve(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Note{}).Where("id = ?", id).Updates(map[string]interface{}{
		"approved":   true,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *noteRepository) IncrementDownloads(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Note{}).Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the note together with its ratings and bookmarks.
func (r *noteRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", id).Delete(&models.NoteRating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("note_id = ?", id).Delete(&models.NoteBookmark{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Note{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// UpsertRating stores the account's rating, replacing any earlier one.
func (r *noteRepository) UpsertRating(ctx context.Context, rating *models.NoteRating) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "note_id"}, {Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(rating).Error
}

// ToggleBookmark flips the bookmark and returns the new state.
func (r *noteRepository) ToggleBookmark(ctx context.Context, accountID, noteID uint) (bool, error) {
	bookmarked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("account_id = ? AND note_id = ?", accountID, noteID).Delete(&models.NoteBookmark{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}

		bookmark := models.NoteBookmark{AccountID: accountID, NoteID: noteID}
		if err := tx.Create(&bookmark).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		bookmarked = true
		return nil
	})
	return bookmarked, err
}

func (r *noteRepository) CountBookmarks(ctx context.Context, accountID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.NoteBookmark{}).Where("account_id = ?", accountID).Count(&total).Error
	return total, err
}
