package models

import "time"

// Note is a PDF study resource shared by a student.
type Note struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	Title      string       `gorm:"size:200;not null" json:"title"`
	Subject    string       `gorm:"size:120;not null;index" json:"subject"`
	Branch     string       `gorm:"size:50;not null;index" json:"branch"`
	Semester   string       `gorm:"size:20;not null;index" json:"semester"`
	FileURL    string       `gorm:"size:512;not null" json:"file_url"`
	StorageKey string       `gorm:"size:255" json:"-"`
	UploadedBy uint         `gorm:"not null;index" json:"uploaded_by"`
	Approved   bool         `gorm:"not null;default:false;index" json:"approved"`
	Downloads  int          `gorm:"not null;default:0" json:"downloads"`
	Ratings    []NoteRating `json:"-"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// AverageRating returns the mean rating rounded to one decimal, or 0 when unrated.
func (n Note) AverageRating() float64 {
	if len(n.Ratings) == 0 {
		return 0
	}
	total := 0
	for _, rating := range n.Ratings {
		total += rating.Value
	}
	avg := float64(total) / float64(len(n.Ratings))
	return float64(int(avg*10+0.5)) / 10
}

// NoteRating is one account's 1-5 star rating of a note.
type NoteRating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	NoteID    uint      `gorm:"not null;uniqueIndex:idx_note_rating_account" json:"note_id"`
	AccountID uint      `gorm:"not null;uniqueIndex:idx_note_rating_account" json:"account_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteBookmark links an account to a note it saved.
type NoteBookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"not null;uniqueIndex:idx_note_bookmark_account" json:"account_id"`
	NoteID    uint      `gorm:"not null;uniqueIndex:idx_note_bookmark_account;index" json:"note_id"`
	CreatedAt time.Time `json:"created_at"`
}
