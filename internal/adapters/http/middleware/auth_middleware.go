package middleware

import (
	"strings"

	"formafusion-partners/internal/config"
	"formafusion-partners/internal/core/domain"
	"formafusion-partners/internal/pkg/jwt"
	"formafusion-partners/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set user info in context
		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		// Check if user's role is in allowed roles
		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(string(domain.RoleAdmin))
}

// RevendeurOnly middleware allows only the revendeur role
func RevendeurOnly() fiber.Handler {
	return RoleMiddleware(string(domain.RoleRevendeur))
}
