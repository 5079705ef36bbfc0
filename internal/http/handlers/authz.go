package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	applog "chatshop/internal/log"
)

// RequireOperator guards the admin surface with a single operator key,
// checked against its bcrypt hash from configuration.
func RequireOperator(keyHash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if keyHash == "" {
			applog.Warn("access.operator.unconfigured", nil, nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin surface disabled"})
		}
		key := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
		if key == "" || bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)) != nil {
			applog.Warn("access.denied.operator", nil, map[string]any{"ip": c.IP()})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied"})
		}
		return c.Next()
	}
}
