package handlers

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	applog "yuvax/internal/log"
)

// RequireAdmin gates the campaign administration routes behind a shared
// token. Session mechanics belong to the surrounding storefront; this
// boundary only checks the header.
func RequireAdmin(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get("X-Admin-Token")
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			applog.Security(c, "access.denied.admin", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}
		return c.Next()
	}
}
