package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/campusprep-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.RefreshSession{},
		&models.InterviewAttempt{},
		&models.Note{},
		&models.NoteRating{},
		&models.NoteBookmark{},
	))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createAccount(t *testing.T, db *gorm.DB, email string) models.Account {
	t.Helper()
	account := models.Account{Name: "Student", Email: email, PasswordHash: "hash", Role: models.RoleStudent}
	require.NoError(t, db.Create(&account).Error)
	return account
}
