package middleware

import (
	"crypto/subtle"
	"log"

	"github.com/gofiber/fiber/v2"
)

// TokenHeader carries the shared webhook secret on incoming deliveries.
const TokenHeader = "X-Webhook-Token"

// SharedSecret is a Fiber middleware that gates a route behind a static
// shared secret. The comparison is constant-time so the token cannot be
// guessed byte by byte from response timing.
func SharedSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(TokenHeader)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": TokenHeader + " header is required",
			})
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			log.Printf("Webhook token mismatch from %s", c.IP())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid webhook token",
			})
		}

		return c.Next()
	}
}
