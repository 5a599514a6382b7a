package middleware

import (
	"github.com/AtzinLeyva/TesisRepositorio/backend/config"
	"github.com/AtzinLeyva/TesisRepositorio/backend/models"
	"github.com/AtzinLeyva/TesisRepositorio/backend/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CurrentUserKey is where the authenticated user is stored on the request
// context once a middleware has resolved it.
const CurrentUserKey = "current_user"

// AuthMiddleware requires a valid token and loads the account behind it.
func AuthMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolveUser(c, db, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		c.Locals(CurrentUserKey, user)
		return c.Next()
	}
}

// RequireRoles requires a valid token and one of the given roles. Every
// role gate in the application goes through here.
func RequireRoles(db *gorm.DB, cfg *config.Config, roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolveUser(c, db, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if !user.Can(roles...) {
			return utils.Forbidden(c, "Forbidden - insufficient role")
		}
		c.Locals(CurrentUserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the account resolved by the auth middlewares.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(CurrentUserKey).(*models.User)
	return user, ok
}

func resolveUser(c *fiber.Ctx, db *gorm.DB, cfg *config.Config) (*models.User, error) {
	userID, err := utils.ExtractUserIDFromToken(c, cfg)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
