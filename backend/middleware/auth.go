package middleware

import (
	"errors"

	"courseplatform/backend/apperr"
	"courseplatform/backend/config"
	"courseplatform/backend/models"
	"courseplatform/backend/services"
	"courseplatform/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const userKey = "user"

// AuthMiddleware проверяет Bearer токен и загружает активного пользователя
func AuthMiddleware(users *services.UserService, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := utils.BearerToken(c)
		if err != nil {
			return utils.Unauthorized(c, "Authentication required")
		}

		claims, err := utils.ParseToken(token, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Invalid or expired token")
		}

		user, err := users.Active(c.UserContext(), claims.UserID)
		if err != nil {
			if errors.Is(err, apperr.ErrUnauthenticated) {
				return utils.Unauthorized(c, "User not found or deactivated")
			}
			return err
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// RoleMiddleware пропускает только пользователей с одной из глобальных ролей
func RoleMiddleware(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return utils.Unauthorized(c, "Authentication required")
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return utils.Forbidden(c, "Insufficient permissions")
	}
}

// CurrentUser возвращает пользователя, установленного AuthMiddleware
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}
