package serverutils

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

const AdminTokenHeader = "X-Admin-Token"

// AdminTokenMiddleware guards maintenance routes. An empty token leaves them open (local development).
func AdminTokenMiddleware(token string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if token == "" {
			return ctx.Next()
		}
		got := ctx.Get(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Invalid admin token"))
		}
		return ctx.Next()
	}
}
