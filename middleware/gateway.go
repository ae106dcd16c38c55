package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"tournament-platform/utils"
)

// GatewayAuthMiddleware validates the Bearer token the API gateway attaches
// to every forwarded request.
func GatewayAuthMiddleware(expectedToken string, logger zerolog.Logger) fiber.Handler {
	expected := []byte(expectedToken)

	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			logger.Warn().Str("path", c.Path()).Msg("gateway auth: missing Authorization header")
			return utils.Fail(c, fiber.StatusUnauthorized, "gateway authentication token missing")
		}

		// Accept "Bearer <token>" as well as the raw token.
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if len(expected) == 0 || subtle.ConstantTimeCompare([]byte(token), expected) != 1 {
			logger.Warn().Str("path", c.Path()).Msg("gateway auth: invalid token")
			return utils.Fail(c, fiber.StatusUnauthorized, "invalid gateway authentication token")
		}

		return c.Next()
	}
}
