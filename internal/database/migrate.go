package database

import (
	"gorm.io/gorm"

	"github.com/noah-isme/campusprep-api/internal/models"
)

// Migrate creates or updates every table owned by the service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.RefreshSession{},
		&models.InterviewAttempt{},
		&models.Note{},
		&models.NoteRating{},
		&models.NoteBookmark{},
	)
}
