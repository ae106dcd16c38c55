package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"tournament-platform/utils"
)

const (
	LocalUserID    = "user_id"
	LocalUserRoles = "user_roles"
)

// UserContextMiddleware extracts the user identity and roles set by the
// gateway. Routes behind it require a user.
func UserContextMiddleware(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("X-User-ID"))
		if userID == "" {
			logger.Warn().Str("path", c.Path()).Msg("user context: X-User-ID missing on secured route")
			return utils.Fail(c, fiber.StatusUnauthorized, "missing X-User-ID, request must come through gateway with auth context")
		}
		setUserContext(c, userID, logger)
		return c.Next()
	}
}

// OptionalUserContext records the user context when the gateway sent one and
// lets anonymous requests through.
func OptionalUserContext(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID := strings.TrimSpace(c.Get("X-User-ID")); userID != "" {
			setUserContext(c, userID, logger)
		}
		return c.Next()
	}
}

func setUserContext(c *fiber.Ctx, userID string, logger zerolog.Logger) {
	var roles []string
	for _, r := range strings.Split(c.Get("X-User-Roles"), ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, strings.ToLower(r))
		}
	}

	c.Locals(LocalUserID, userID)
	c.Locals(LocalUserRoles, roles)

	logger.Debug().Str("user_id", userID).Strs("roles", roles).Str("path", c.Path()).Msg("user context")
}

// HasRole reports whether the user context of c holds role.
func HasRole(c *fiber.Ctx, role string) bool {
	held, _ := c.Locals(LocalUserRoles).([]string)
	for _, have := range held {
		if have == role {
			return true
		}
	}
	return false
}

// RequireRoles allows the request when the user holds any of roles. It must
// run after UserContextMiddleware.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, want := range roles {
			if HasRole(c, want) {
				return c.Next()
			}
		}
		return utils.Fail(c, fiber.StatusForbidden, "insufficient role")
	}
}
