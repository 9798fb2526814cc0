package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campusprep-api/internal/dto"
	"github.com/noah-isme/campusprep-api/internal/models"
	"github.com/noah-isme/campusprep-api/internal/service"
	"github.com/noah-isme/campusprep-api/internal/utils"
)

// InterviewHandler exposes the mock interview flow.
type InterviewHandler struct {
	service service.InterviewService
	logger  zerolog.Logger
}

// NewInterviewHandler constructs an interview handler.
func NewInterviewHandler(service service.InterviewService, logger zerolog.Logger) *InterviewHandler {
	return &InterviewHandler{
		service: service,
		logger:  logger.With().Str("component", "interview_handler").Logger(),
	}
}

// Register wires interview routes onto an authenticated router.
func (h *InterviewHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("/start", h.start)
	router.Get("/:id", h.get)
	router.Post("/:id/answer", h.answer)
}

func (h *InterviewHandler) start(c *fiber.Ctx) error {
	var payload dto.StartInterviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Start(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "interview started", result)
}

func (h *InterviewHandler) answer(c *fiber.Ctx) error {
	attemptID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid interview id")
	}

	var payload dto.SubmitAnswerRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	index, ok := payload.Index()
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, fmt.Sprintf("question_index must be an integer between 0 and %d", models.InterviewQuestionCount-1))
	}

	result, err := h.service.SubmitAnswer(c.UserContext(), attemptID, userIDFromContext(c), index, payload.Answer)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	message := "answer recorded"
	if result.IsComplete {
		message = "interview complete"
	}
	return utils.SendSuccess(c, message, result)
}

func (h *InterviewHandler) get(c *fiber.Ctx) error {
	attemptID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid interview id")
	}

	attempt, err := h.service.Get(c.UserContext(), attemptID, userIDFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "interview retrieved", attempt)
}

func (h *InterviewHandler) list(c *fiber.Ctx) error {
	attempts, err := h.service.List(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.OK(c, attempts, "interviews retrieved", fiber.Map{"count": len(attempts)})
}
