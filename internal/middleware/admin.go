package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/kcx/internal/config"
	"github.com/example/kcx/internal/utils"
)

// AdminSessionCookie carries the admin-session token between requests.
const AdminSessionCookie = "admin_session"

// AdminRequired validates the admin-session token from the cookie or the
// Authorization header.
func AdminRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(AdminSessionCookie)

		if token == "" {
			authHeader := c.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = parts[1]
			}
		}

		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "admin login required")
		}

		if err := utils.ParseAdminToken(cfg.AdminSessionSecret, token); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired admin session")
		}

		return c.Next()
	}
}
