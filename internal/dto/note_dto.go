package dto

import (
	"time"

	"github.com/noah-isme/campusprep-api/internal/models"
)

// NoteUploadRequest describes the multipart fields of a note upload.
type NoteUploadRequest struct {
	Title    string `form:"title" json:"title" validate:"required,max=200"`
	Subject  string `form:"subject" json:"subject" validate:"required,max=120"`
	Branch   string `form:"branch" json:"branch" validate:"required,max=50"`
	Semester string `form:"semester" json:"semester" validate:"required,max=20"`
}

// NoteFilter narrows the approved note listing.
type NoteFilter struct {
	Branch   string `query:"branch"`
	Semester string `query:"semester"`
	Subject  string `query:"subject"`
	Query    string `query:"q"`
}

// RateNoteRequest carries a 1-5 star rating.
type RateNoteRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

// NoteResponse is the serialized representation of a note.
type NoteResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Subject       string    `json:"subject"`
	Branch        string    `json:"branch"`
	Semester      string    `json:"semester"`
	FileURL       string    `json:"file_url"`
	UploadedBy    uint      `json:"uploaded_by"`
	Approved      bool      `json:"approved"`
	Downloads     int       `json:"downloads"`
	AverageRating float64   `json:"average_rating"`
	RatingCount   int       `json:"rating_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BookmarkResponse reports the bookmark state after a toggle.
type BookmarkResponse struct {
	NoteID     uint `json:"note_id"`
	Bookmarked bool `json:"bookmarked"`
}

// NewNoteResponse converts a model into a DTO. Ratings must be preloaded for the average.
func NewNoteResponse(model models.Note) NoteResponse {
	return NoteResponse{
		ID:            model.ID,
		Title:         model.Title,
		Subject:       model.Subject,
		Branch:        model.Branch,
		Semester:      model.Semester,
		FileURL:       model.FileURL,
		UploadedBy:    model.UploadedBy,
		Approved:      model.Approved,
		Downloads:     model.Downloads,
		AverageRating: model.AverageRating(),
		RatingCount:   len(model.Ratings),
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

// NewNoteResponseSlice converts a slice of models into DTOs.
func NewNoteResponseSlice(notes []models.Note) []NoteResponse {
	responses := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, NewNoteResponse(note))
	}
	return responses
}
