package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campusprep-api/internal/middleware"
	"github.com/noah-isme/campusprep-api/internal/service"
	"github.com/noah-isme/campusprep-api/internal/utils"
	"github.com/noah-isme/campusprep-api/pkg/ai"
)

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok {
			if id < 0 {
				return 0
			}
			return uint(id)
		}
	}
	return 0
}

func userRoleFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

func viewerFromContext(c *fiber.Ctx) service.Viewer {
	return service.Viewer{
		ID:   userIDFromContext(c),
		Role: userRoleFromContext(c),
	}
}

func parseIDParam(c *fiber.Ctx, key string) (uint, error) {
	raw := strings.TrimSpace(c.Params(key))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// respondError maps service and provider error kinds onto the response envelope.
// Unclassified errors are logged and reported as a generic 500.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	message := err.Error()
	var details interface{}
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
		if len(svcErr.Details) > 0 {
			details = svcErr.Details
		}
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		return utils.Fail(c, fiber.StatusBadRequest, message, details)
	case errors.Is(err, service.ErrUnauthorized):
		return utils.Fail(c, fiber.StatusUnauthorized, message, nil)
	case errors.Is(err, service.ErrForbidden):
		return utils.Fail(c, fiber.StatusForbidden, message, nil)
	case errors.Is(err, service.ErrNotFound):
		return utils.Fail(c, fiber.StatusNotFound, message, nil)
	case errors.Is(err, service.ErrConflict):
		return utils.Fail(c, fiber.StatusConflict, message, nil)
	case errors.Is(err, ai.ErrProviderUnavailable):
		requestLogger(logger, c).Warn().Err(err).Str("path", c.Path()).Msg("question provider unavailable")
		return utils.Fail(c, fiber.StatusServiceUnavailable, "question provider is unavailable, please try again later", nil)
	case errors.Is(err, ai.ErrMalformedResponse):
		requestLogger(logger, c).Error().Err(err).Str("path", c.Path()).Msg("question provider returned an unusable response")
		return utils.Fail(c, fiber.StatusInternalServerError, "question provider returned an unusable response", nil)
	}

	requestLogger(logger, c).Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	return utils.Fail(c, fiber.StatusInternalServerError, "something went wrong", nil)
}
