package auth

import (
	"github.com/gofiber/fiber/v2"

	helper "letme_backend/internals/helpers"
)

// OnlyRoles tolak request kalau role token tidak termasuk roles.
func OnlyRoles(message string, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := helper.GetRole(c)
		if role == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Role not found")
		}
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		if message == "" {
			message = "Forbidden: you are not authorized to access this resource"
		}
		return fiber.NewError(fiber.StatusForbidden, message)
	}
}
