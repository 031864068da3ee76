package middleware

import (
	"strings"

	"clubhub/internal/models"
	"clubhub/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// bearerToken returns the token from "Bearer <token>" (scheme is
// case-insensitive) or from a bare "<token>" header. Anything else yields "".
func bearerToken(header string) string {
	fields := strings.Fields(header)
	switch {
	case len(fields) == 2 && strings.EqualFold(fields[0], "Bearer"):
		return fields[1]
	case len(fields) == 1 && !strings.EqualFold(fields[0], "Bearer"):
		return fields[0]
	}
	return ""
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}

// AuthMiddleware accepts access tokens only and stores the caller's id, role,
// username and email in Locals.
func AuthMiddleware(jwtManager *auth.JWTManager, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			logger.Warn("Missing authorization token", zap.String("path", c.Path()))
			return unauthorized(c, "Authorization token required")
		}

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			logger.Warn("Rejected token", zap.String("path", c.Path()), zap.Error(err))
			return unauthorized(c, "Invalid or expired token")
		}

		role := models.Role(claims.Role)
		if !role.Valid() {
			logger.Warn("Token carries unknown role",
				zap.Int64("user_id", claims.UserID),
				zap.String("role", claims.Role),
			)
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("role", role)
		c.Locals("username", claims.Username)
		c.Locals("email", claims.Email)

		return c.Next()
	}
}

// RequireRoles lets the request through only when AuthMiddleware stored one
// of roles for the caller.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(models.Role)
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}
}
