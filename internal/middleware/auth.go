// Package middleware contains HTTP middleware for the Team Cup API — the
// cross-cutting request concerns: authentication and role checks.
package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/openfairway/team-cup/internal/config"
	"github.com/openfairway/team-cup/internal/models"
)

// Claims is the payload we expect inside an identity-provider JWT. Subject
// carries the provider's user ID; the custom claims below are configured in
// the provider's token template:
//
//	"role":  the user's platform role ("admin", "organizer", "player")
//	"email": primary email address
//	"name":  full display name
//
// When the template is not set up yet, role defaults to "player" and
// email/name fall back to deterministic placeholders.
type Claims struct {
	jwt.RegisteredClaims
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Auth returns a Fiber middleware that:
//  1. Extracts and parses the bearer token from the Authorization header
//  2. Finds the matching user row, creating one on first visit (lazy sync)
//  3. Syncs the role claim into the database when it changed upstream
//  4. Stores the internal user ID and role in c.Locals for downstream handlers
func Auth(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid authorization header",
			})
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		// TODO: replace ParseUnverified with JWKS signature verification
		// against cfg.AuthSecretKey before production — unverified parsing
		// accepts forged tokens.
		token, _, err := jwt.NewParser().ParseUnverified(tokenStr, &Claims{})
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token claims",
			})
		}

		authUserID := claims.Subject
		if authUserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "token missing subject",
			})
		}

		role := roleFromClaim(claims.Role)

		// Deterministic placeholders for a not-yet-configured token template;
		// replaced by real values once the provider sends them.
		email := claims.Email
		if email == "" {
			email = fmt.Sprintf("%s@auth.local", authUserID)
		}
		name := claims.Name
		if name == "" {
			name = "Player"
		}

		var user models.User
		result := db.Where("auth_id = ?", authUserID).First(&user)
		if result.Error != nil {
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "database error",
				})
			}
			// First authenticated request from this user — create their row
			user = models.User{
				AuthID:      &authUserID,
				DisplayName: name,
				Email:       email,
				Role:        role,
			}
			if err := db.Create(&user).Error; err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to create user record",
				})
			}
		} else if user.Role != role && claims.Role != "" {
			// Role changed at the identity provider — keep our copy in sync
			db.Model(&user).Update("role", role)
			user.Role = role
		}

		c.Locals("userID", user.ID.String())
		c.Locals("userRole", string(user.Role))

		return c.Next()
	}
}

// roleFromClaim converts the raw role string from the JWT into the typed
// UserRole enum, defaulting to the least-privileged role when missing or
// unrecognised.
func roleFromClaim(s string) models.UserRole {
	switch s {
	case "admin":
		return models.UserRoleAdmin
	case "organizer":
		return models.UserRoleOrganizer
	default:
		return models.UserRolePlayer
	}
}
