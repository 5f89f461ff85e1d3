package middleware

// roles.go — role-based access control.
// The platform has three global roles: admin, organizer, player. Routes that
// require specific permissions apply RequireRole after Auth.

import "github.com/gofiber/fiber/v2"

// RequireRole returns a middleware that lets the request through only when
// the authenticated user's role matches one of the given roles, e.g.:
//
//	api.Post("/competitions", middleware.RequireRole("admin", "organizer"), handlers.CreateCompetition(db))
//
// It must run AFTER Auth, which is what stores "userRole" in c.Locals.
// Responds 403 Forbidden (not 401 — the user is authenticated, just not
// allowed) when the role does not match.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, ok := c.Locals("userRole").(string)
		if !ok || userRole == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "forbidden",
			})
		}
		for _, role := range roles {
			if userRole == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient permissions",
		})
	}
}
