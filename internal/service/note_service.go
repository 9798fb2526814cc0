package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/campusprep-api/internal/dto"
	"github.com/noah-isme/campusprep-api/internal/models"
	"github.com/noah-isme/campusprep-api/internal/observability"
	"github.com/noah-isme/campusprep-api/internal/repository"
	"github.com/noah-isme/campusprep-api/pkg/events"
	"github.com/noah-isme/campusprep-api/pkg/storage"
)

const pdfMIME = "application/pdf"

// Viewer identifies the caller for note access checks.
type Viewer struct {
	ID   uint
	Role string
}

func (v Viewer) isAdmin() bool {
	return v.Role == models.RoleAdmin
}

// NoteService exposes the notes portal use cases.
type NoteService interface {
	Upload(ctx context.Context, uploaderID uint, payload dto.NoteUploadRequest, file *multipart.FileHeader) (dto.NoteResponse, error)
	List(ctx context.Context, filter dto.NoteFilter) ([]dto.NoteResponse, error)
	Get(ctx context.Context, noteID uint, viewer Viewer) (dto.NoteResponse, error)
	Download(ctx context.Context, noteID uint, viewer Viewer) (string, error)
	ToggleBookmark(ctx context.Context, noteID uint, viewer Viewer) (dto.BookmarkResponse, error)
	ListBookmarks(ctx context.Context, accountID uint) ([]dto.NoteResponse, error)
	Rate(ctx context.Context, noteID uint, viewer Viewer, value int) (dto.NoteResponse, error)
	ListPending(ctx context.Context) ([]dto.NoteResponse, error)
	Approve(ctx context.Context, noteID uint) (dto.NoteResponse, error)
	Delete(ctx context.Context, noteID uint) error
}

type noteService struct {
	repo      repository.NoteRepository
	storage   storage.FileStorage
	publisher events.Publisher
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
	maxSize   int64
}

// NewNoteService builds the notes portal service.
func NewNoteService(repo repository.NoteRepository, store storage.FileStorage, publisher events.Publisher, validate *validator.Validate, maxSizeMB int, logger zerolog.Logger) NoteService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &noteService{
		repo:      repo,
		storage:   store,
		publisher: publisher,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "note_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/campusprep-api/internal/service/note"),
		maxSize:   int64(maxSizeMB) * 1024 * 1024,
	}
}

func (s *noteService) Upload(ctx context.Context, uploaderID uint, payload dto.NoteUploadRequest, file *multipart.FileHeader) (dto.NoteResponse, error) {
	ctx, span := s.tracer.Start(ctx, "note.upload")
	defer span.End()

	payload.Title = s.clean(payload.Title)
	payload.Subject = s.clean(payload.Subject)
	payload.Branch = s.clean(payload.Branch)
	payload.Semester = s.clean(payload.Semester)
	if err := s.validator.Struct(payload); err != nil {
		return dto.NoteResponse{}, s.reject(span, "fields", translateValidation(err))
	}

	if file == nil {
		return dto.NoteResponse{}, s.reject(span, "missing", validationError("file is required"))
	}
	span.SetAttributes(attribute.Int64("upload.request_size", file.Size))
	if file.Size > s.maxSize {
		return dto.NoteResponse{}, s.reject(span, "size", validationError("file exceeds maximum allowed size of %d MB", s.maxSize/(1024*1024)))
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		return dto.NoteResponse{}, s.reject(span, "extension", validationError("only PDF files are allowed"))
	}

	handle, err := file.Open()
	if err != nil {
		return dto.NoteResponse{}, s.fail(span, err)
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		return dto.NoteResponse{}, s.fail(span, err)
	}
	if int64(buf.Len()) > s.maxSize {
		return dto.NoteResponse{}, s.reject(span, "size", validationError("file exceeds maximum allowed size of %d MB", s.maxSize/(1024*1024)))
	}

	detected := mimetype.Detect(buf.Bytes())
	span.SetAttributes(attribute.String("upload.detected_mime", detected.String()))
	if !detected.Is(pdfMIME) {
		return dto.NoteResponse{}, s.reject(span, "type", validationError("only PDF files are allowed"))
	}

	object, err := s.storage.Save(ctx, uuid.NewString()+".pdf", bytes.NewReader(buf.Bytes()))
	if err != nil {
		observability.RecordNoteUpload("storage")
		return dto.NoteResponse{}, s.fail(span, err)
	}

	note := models.Note{
		Title:      payload.Title,
		Subject:    payload.Subject,
		Branch:     payload.Branch,
		Semester:   payload.Semester,
		FileURL:    object.URL,
		StorageKey: object.Key,
		UploadedBy: uploaderID,
	}
	if err := s.repo.Create(ctx, &note); err != nil {
		if deleteErr := s.storage.Delete(ctx, object.Key); deleteErr != nil {
			s.logger.Warn().Err(deleteErr).Str("key", object.Key).Msg("failed to remove orphaned upload")
		}
		return dto.NoteResponse{}, s.fail(span, err)
	}

	observability.RecordNoteUpload("accepted")
	span.SetStatus(codes.Ok, "stored")
	_ = s.publisher.Publish(ctx, events.TypeNoteUploaded, map[string]interface{}{
		"note_id":     note.ID,
		"uploaded_by": uploaderID,
		"subject":     note.Subject,
	})
	s.logger.Info().Uint("note_id", note.ID).Uint("uploaded_by", uploaderID).Msg("note uploaded, awaiting approval")

	return dto.NewNoteResponse(note), nil
}

func (s *noteService) List(ctx context.Context, filter dto.NoteFilter) ([]dto.NoteResponse, error) {
	notes, err := s.repo.ListApproved(ctx, repository.NoteFilter{
		Branch:   filter.Branch,
		Semester: filter.Semester,
		Subject:  filter.Subject,
		Search:   filter.Query,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewNoteResponseSlice(notes), nil
}

func (s *noteService) Get(ctx context.Context, noteID uint, viewer Viewer) (dto.NoteResponse, error) {
	note, err := s.visible(ctx, noteID, viewer)
	if err != nil {
		return dto.NoteResponse{}, err
	}
	return dto.NewNoteResponse(note), nil
}

func (s *noteService) Download(ctx context.Context, noteID uint, viewer Viewer) (string, error) {
	note, err := s.visible(ctx, noteID, viewer)
	if err != nil {
		return "", err
	}
	if err := s.repo.IncrementDownloads(ctx, note.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", notFoundError("note not found")
		}
		return "", err
	}
	return note.FileURL, nil
}

func (s *noteService) ToggleBookmark(ctx context.Context, noteID uint, viewer Viewer) (dto.BookmarkResponse, error) {
	if _, err := s.visible(ctx, noteID, viewer); err != nil {
		return dto.BookmarkResponse{}, err
	}
	bookmarked, err := s.repo.ToggleBookmark(ctx, viewer.ID, noteID)
	if err != nil {
		return dto.BookmarkResponse{}, err
	}
	return dto.BookmarkResponse{NoteID: noteID, Bookmarked: bookmarked}, nil
}

func (s *noteService) ListBookmarks(ctx context.Context, accountID uint) ([]dto.NoteResponse, error) {
	notes, err := s.repo.ListBookmarked(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return dto.NewNoteResponseSlice(notes), nil
}

func (s *noteService) Rate(ctx context.Context, noteID uint, viewer Viewer, value int) (dto.NoteResponse, error) {
	if value < 1 || value > 5 {
		return dto.NoteResponse{}, validationError("rating must be between 1 and 5")
	}
	if _, err := s.visible(ctx, noteID, viewer); err != nil {
		return dto.NoteResponse{}, err
	}

	rating := models.NoteRating{NoteID: noteID, AccountID: viewer.ID, Value: value}
	if err := s.repo.UpsertRating(ctx, &rating); err != nil {
		return dto.NoteResponse{}, err
	}

	note, err := s.find(ctx, noteID)
	if err != nil {
		return dto.NoteResponse{}, err
	}
	return dto.NewNoteResponse(note), nil
}

func (s *noteService) ListPending(ctx context.Context) ([]dto.NoteResponse, error) {
	notes, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewNoteResponseSlice(notes), nil
}

func (s *noteService) Approve(ctx context.Context, noteID uint) (dto.NoteResponse, error) {
	if err := s.repo.Approve(ctx, noteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NoteResponse{}, notFoundError("note not found")
		}
		return dto.NoteResponse{}, err
	}

	note, err := s.find(ctx, noteID)
	if err != nil {
		return dto.NoteResponse{}, err
	}

	_ = s.publisher.Publish(ctx, events.TypeNoteApproved, map[string]interface{}{
		"note_id":     note.ID,
		"uploaded_by": note.UploadedBy,
	})
	s.logger.Info().Uint("note_id", note.ID).Msg("note approved")

	return dto.NewNoteResponse(note), nil
}

// Delete removes the note row and, best effort, its stored file. Rejection uses the same path.
func (s *noteService) Delete(ctx context.Context, noteID uint) error {
	note, err := s.find(ctx, noteID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, noteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("note not found")
		}
		return err
	}

	if note.StorageKey != "" {
		if err := s.storage.Delete(ctx, note.StorageKey); err != nil {
			s.logger.Warn().Err(err).Uint("note_id", noteID).Msg("failed to remove stored note file")
		}
	}
	s.logger.Info().Uint("note_id", noteID).Msg("note removed")
	return nil
}

func (s *noteService) find(ctx context.Context, noteID uint) (models.Note, error) {
	note, err := s.repo.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Note{}, notFoundError("note not found")
		}
		return models.Note{}, err
	}
	return note, nil
}

// visible applies the moderation rule: unapproved notes are shown only to their uploader and admins.
func (s *noteService) visible(ctx context.Context, noteID uint, viewer Viewer) (models.Note, error) {
	note, err := s.find(ctx, noteID)
	if err != nil {
		return models.Note{}, err
	}
	if !note.Approved && note.UploadedBy != viewer.ID && !viewer.isAdmin() {
		return models.Note{}, newError(ErrForbidden, "note is awaiting approval")
	}
	return note, nil
}

func (s *noteService) clean(value string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(value))
}

func (s *noteService) reject(span trace.Span, reason string, err error) error {
	observability.RecordNoteUpload(reason)
	span.RecordError(err)
	span.SetStatus(codes.Error, "upload rejected")
	return err
}

func (s *noteService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
