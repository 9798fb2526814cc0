package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campusprep-api/internal/dto"
	"github.com/noah-isme/campusprep-api/internal/service"
	"github.com/noah-isme/campusprep-api/internal/utils"
)

// NoteHandler exposes the notes portal.
type NoteHandler struct {
	service service.NoteService
	logger  zerolog.Logger
}

// NewNoteHandler constructs a note handler.
func NewNoteHandler(service service.NoteService, logger zerolog.Logger) *NoteHandler {
	return &NoteHandler{
		service: service,
		logger:  logger.With().Str("component", "note_handler").Logger(),
	}
}

// Register wires note routes onto an authenticated router. admin guards moderation routes.
func (h *NoteHandler) Register(router fiber.Router, admin fiber.Handler) {
	router.Get("", h.list)
	router.Post("", h.upload)
	router.Get("/bookmarks", h.bookmarks)
	router.Get("/pending", admin, h.pending)
	router.Get("/:id", h.get)
	router.Get("/:id/download", h.download)
	router.Post("/:id/bookmark", h.toggleBookmark)
	router.Post("/:id/rate", h.rate)
	router.Post("/:id/approve", admin, h.approve)
	router.Post("/:id/reject", admin, h.reject)
	router.Delete("/:id", admin, h.delete)
}

func (h *NoteHandler) upload(c *fiber.Ctx) error {
	var payload dto.NoteUploadRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid form data")
	}

	// a missing file part is reported by the service alongside the other field checks
	file, _ := c.FormFile("file")

	note, err := h.service.Upload(c.UserContext(), userIDFromContext(c), payload, file)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "note uploaded, awaiting approval", note)
}

func (h *NoteHandler) list(c *fiber.Ctx) error {
	var filter dto.NoteFilter
	if err := c.QueryParser(&filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	notes, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.OK(c, notes, "notes retrieved", fiber.Map{"count": len(notes)})
}

func (h *NoteHandler) bookmarks(c *fiber.Ctx) error {
	notes, err := h.service.ListBookmarks(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.OK(c, notes, "bookmarks retrieved", fiber.Map{"count": len(notes)})
}

func (h *NoteHandler) pending(c *fiber.Ctx) error {
	notes, err := h.service.ListPending(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.OK(c, notes, "pending notes retrieved", fiber.Map{"count": len(notes)})
}

func (h *NoteHandler) get(c *fiber.Ctx) error {
	noteID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid note id")
	}

	note, err := h.service.Get(c.UserContext(), noteID, viewerFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "note retrieved", note)
}

func (h *NoteHandler) download(c *fiber.Ctx) error {
	noteID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid note id")
	}

	location, err := h.service.Download(c.UserContext(), noteID, viewerFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Redirect(location, fiber.StatusFound)
}

func (h *NoteHandler) toggleBookmark(c *fiber.Ctx) error {
	noteID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid note id")
	}

	result, err := h.service.ToggleBookmark(c.UserContext(), noteID, viewerFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	message := "bookmark removed"
	if result.Bookmarked {
		message = "note bookmarked"
	}
	return utils.SendSuccess(c, message, result)
}

func (h *NoteHandler) rate(c *fiber.Ctx) error {
	noteID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid note id")
	}

	var payload dto.RateNoteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	note, err := h.service.Rate(c.UserContext(), noteID, viewerFromContext(c), payload.Rating)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "rating saved", note)
}

func (h *NoteHandler) approve(c *fiber.Ctx) error {
	noteID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid note id")
	}

	note, err := h.service.Approve(c.UserContext(), noteID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "note approved", note)
}

func (h *NoteHandler) reject(c *fiber.Ctx) error {
	return h.remove(c, "note rejected")
}

func (h *NoteHandler) delete(c *fiber.Ctx) error {
	return h.remove(c, "note deleted")
}

func (h *NoteHandler) remove(c *fiber.Ctx, message string) error {
	noteID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid note id")
	}

	if err := h.service.Delete(c.UserContext(), noteID); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, message, fiber.Map{"id": noteID})
}
