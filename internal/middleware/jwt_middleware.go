package middleware

import (
	"log"
	"strings"

	"taskman/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware gating protected routes on a valid
// bearer token. It resolves the token's embedded user ID against the user
// store, so tokens of since-deleted users are rejected like any other
// invalid token, and attaches the authenticated identity to the request.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authorized, no token",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authorized, no token",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authorized, token failed",
			})
		}

		userID, _ := claims["user_id"].(string)
		user, err := authService.GetUserByID(userID)
		if err != nil {
			log.Printf("Token resolved to no user (%q): %v", userID, err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authorized, token failed",
			})
		}

		c.Locals("user_id", user.ID)
		c.Locals("username", user.Username)

		return c.Next()
	}
}
