package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campusprep-api/internal/dto"
	"github.com/noah-isme/campusprep-api/internal/service"
	"github.com/noah-isme/campusprep-api/internal/utils"
)

const (
	refreshCookieName = "refresh_token"
	refreshCookiePath = "/api/v1/auth"
)

// AuthHandler exposes registration, login and session endpoints.
type AuthHandler struct {
	service      service.AuthService
	secureCookie bool
	logger       zerolog.Logger
}

// NewAuthHandler constructs an auth handler. secureCookie marks the refresh cookie Secure.
func NewAuthHandler(service service.AuthService, secureCookie bool, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:      service,
		secureCookie: secureCookie,
		logger:       logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires auth routes. limiter guards credential endpoints; authenticated guards /me.
func (h *AuthHandler) Register(router fiber.Router, limiter, authenticated fiber.Handler) {
	router.Post("/register", limiter, h.register)
	router.Post("/login", limiter, h.login)
	router.Post("/refresh", limiter, h.refresh)
	router.Post("/logout", h.logout)
	router.Get("/me", authenticated, h.me)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Register(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.setRefreshCookie(c, result.RefreshToken, result.RefreshExpiresAt)
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account registered", result.Response)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Login(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.setRefreshCookie(c, result.RefreshToken, result.RefreshExpiresAt)
	return utils.SendSuccess(c, "login successful", result.Response)
}

func (h *AuthHandler) refresh(c *fiber.Ctx) error {
	raw := c.Cookies(refreshCookieName)
	if raw == "" {
		h.clearRefreshCookie(c)
		return utils.SendError(c, fiber.StatusUnauthorized, "refresh token missing")
	}

	result, err := h.service.Refresh(c.UserContext(), raw)
	if err != nil {
		h.clearRefreshCookie(c)
		return respondError(c, h.logger, err)
	}

	h.setRefreshCookie(c, result.RefreshToken, result.RefreshExpiresAt)
	return utils.SendSuccess(c, "token refreshed", result.Response)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	if raw := c.Cookies(refreshCookieName); raw != "" {
		if err := h.service.Logout(c.UserContext(), raw); err != nil {
			requestLogger(h.logger, c).Warn().Err(err).Msg("logout revocation failed")
		}
	}

	h.clearRefreshCookie(c)
	return utils.SendSuccess(c, "logged out", nil)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	account, err := h.service.Me(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "account retrieved", account)
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, value string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     refreshCookiePath,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
