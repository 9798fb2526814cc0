package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/campusprep-api/internal/utils"
	"github.com/noah-isme/campusprep-api/pkg/token"
)

// AccessTokenParser verifies bearer access tokens.
type AccessTokenParser interface {
	ParseAccess(raw string) (*token.Claims, error)
}

// JWTProtected returns a middleware that validates bearer access tokens and stores the caller identity.
func JWTProtected(parser AccessTokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get(fiber.HeaderAuthorization)
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "bearer "
		if len(authorization) <= len(bearer) || !strings.EqualFold(authorization[:len(bearer)], bearer) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, err := parser.ParseAccess(tokenString)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid or expired token")
		}

		accountID, err := claims.AccountID()
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		c.Locals("user_id", accountID)
		c.Locals("user_role", strings.ToLower(strings.TrimSpace(claims.Role)))

		return c.Next()
	}
}
