// middleware/admin_auth.go
package middleware

import (
	"context"
	"log"
	"strings"

	"safeblues-backend/models"

	"github.com/gofiber/fiber/v2"
)

// SessionAuthenticator resolves admin session tokens.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.AdminSession, error)
}

// AdminAuthMiddleware requires a live admin session passed as a Bearer token.
func AdminAuthMiddleware(auth SessionAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			log.Printf("🚫 [ADMIN_AUTH] Missing session token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "admin session token missing",
			})
		}

		sess, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			log.Printf("❌ [ADMIN_AUTH] Rejected session for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired admin session",
			})
		}

		c.Locals("admin_id", sess.AdminID)
		c.Locals("session_token", sess.Token)
		return c.Next()
	}
}
