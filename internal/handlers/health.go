package handlers

import "github.com/gofiber/fiber/v2"

// HealthCheck handles GET /health. Deliberately trivial — no database, no
// auth — so load balancers and container probes get a fast, dependency-free
// answer about whether the process is up.
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
