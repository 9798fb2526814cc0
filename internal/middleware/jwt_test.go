package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campusprep-api/internal/middleware"
	"github.com/noah-isme/campusprep-api/pkg/token"
)

func newManager(t *testing.T) *token.Manager {
	t.Helper()
	manager, err := token.NewManager(token.Config{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	require.NoError(t, err)
	return manager
}

func protectedApp(manager *token.Manager) *fiber.App {
	app := fiber.New()
	app.Get("/me", middleware.JWTProtected(manager), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("user_id"),
			"role":    c.Locals("user_role"),
		})
	})
	return app
}

func TestJWTProtectedAcceptsAccessToken(t *testing.T) {
	manager := newManager(t)
	issued, err := manager.IssueAccess(9, "student")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+issued.Token)
	resp, err := protectedApp(manager).Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, float64(9), body["user_id"])
	require.Equal(t, "student", body["role"])
}

func TestJWTProtectedRejectsRefreshToken(t *testing.T) {
	manager := newManager(t)
	issued, err := manager.IssueRefresh(9)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+issued.Token)
	resp, err := protectedApp(manager).Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsMissingAndMalformedHeaders(t *testing.T) {
	manager := newManager(t)
	app := protectedApp(manager)

	for _, header := range []string{"", "Token abc", "Bearer ", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, header)
	}
}
