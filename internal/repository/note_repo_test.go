package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/campusprep-api/internal/models"
)

func createNote(t *testing.T, db *gorm.DB, uploader uint, title string, approved bool, createdAt time.Time) models.Note {
	t.Helper()
	note := models.Note{
		Title:      title,
		Subject:    "Operating Systems",
		Branch:     "CSE",
		Semester:   "5",
		FileURL:    "/uploads/" + title + ".pdf",
		UploadedBy: uploader,
		Approved:   approved,
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.Create(&note).Error)
	return note
}

func TestNoteRepositoryListApprovedFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	uploader := createAccount(t, db, "up@example.com")
	base := time.Now().Add(-time.Hour)

	createNote(t, db, uploader.ID, "Scheduling", true, base)
	createNote(t, db, uploader.ID, "Paging", true, base.Add(time.Minute))
	createNote(t, db, uploader.ID, "Hidden", false, base.Add(2*time.Minute))

	notes, err := repo.ListApproved(context.Background(), NoteFilter{})
	require.NoError(t, err)
	require.Len(t, notes, 2)
	require.Equal(t, "Paging", notes[0].Title)

	notes, err = repo.ListApproved(context.Background(), NoteFilter{Search: "sched"})
	require.NoError(t, err)
	require.Len(t, notes, 1)

	notes, err = repo.ListApproved(context.Background(), NoteFilter{Branch: "ECE"})
	require.NoError(t, err)
	require.Empty(t, notes)

	pending, err := repo.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "Hidden", pending[0].Title)
}

func TestNoteRepositoryUpsertRatingReplaces(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	ctx := context.Background()
	uploader := createAccount(t, db, "up@example.com")
	note := createNote(t, db, uploader.ID, "Trees", true, time.Now())

	require.NoError(t, repo.UpsertRating(ctx, &models.NoteRating{NoteID: note.ID, AccountID: 1, Value: 2}))
	require.NoError(t, repo.UpsertRating(ctx, &models.NoteRating{NoteID: note.ID, AccountID: 1, Value: 5}))
	require.NoError(t, repo.UpsertRating(ctx, &models.NoteRating{NoteID: note.ID, AccountID: 2, Value: 4}))

	loaded, err := repo.GetByID(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Ratings, 2)
	require.Equal(t, 4.5, loaded.AverageRating())
}

func TestNoteRepositoryToggleBookmark(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	ctx := context.Background()
	uploader := createAccount(t, db, "up@example.com")
	note := createNote(t, db, uploader.ID, "Graphs", true, time.Now())

	on, err := repo.ToggleBookmark(ctx, 3, note.ID)
	require.NoError(t, err)
	require.True(t, on)

	count, err := repo.CountBookmarks(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	bookmarked, err := repo.ListBookmarked(ctx, 3)
	require.NoError(t, err)
	require.Len(t, bookmarked, 1)
	require.Equal(t, note.ID, bookmarked[0].ID)

	off, err := repo.ToggleBookmark(ctx, 3, note.ID)
	require.NoError(t, err)
	require.False(t, off)
}

func TestNoteRepositoryDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	ctx := context.Background()
	uploader := createAccount(t, db, "up@example.com")
	note := createNote(t, db, uploader.ID, "Heaps", true, time.Now())

	require.NoError(t, repo.UpsertRating(ctx, &models.NoteRating{NoteID: note.ID, AccountID: 1, Value: 3}))
	_, err := repo.ToggleBookmark(ctx, 1, note.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, note.ID))

	var ratings, bookmarks int64
	require.NoError(t, db.Model(&models.NoteRating{}).Count(&ratings).Error)
	require.NoError(t, db.Model(&models.NoteBookmark{}).Count(&bookmarks).Error)
	require.Zero(t, ratings)
	require.Zero(t, bookmarks)

	err = repo.Delete(ctx, note.ID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestNoteRepositoryApproveAndDownloads(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	ctx := context.Background()
	uploader := createAccount(t, db, "up@example.com")
	note := createNote(t, db, uploader.ID, "Sorting", false, time.Now())

	require.NoError(t, repo.Approve(ctx, note.ID))
	require.NoError(t, repo.IncrementDownloads(ctx, note.ID))
	require.NoError(t, repo.IncrementDownloads(ctx, note.ID))

	loaded, err := repo.GetByID(ctx, note.ID)
	require.NoError(t, err)
	require.True(t, loaded.Approved)
	require.Equal(t, 2, loaded.Downloads)

	require.ErrorIs(t, repo.Approve(ctx, 9999), gorm.ErrRecordNotFound)
}
