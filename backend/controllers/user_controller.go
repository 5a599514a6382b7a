package controllers

import (
	"strconv"
	"time"

	"github.com/AtzinLeyva/TesisRepositorio/backend/config"
	"github.com/AtzinLeyva/TesisRepositorio/backend/middleware"
	"github.com/AtzinLeyva/TesisRepositorio/backend/models"
	"github.com/AtzinLeyva/TesisRepositorio/backend/services"
	"github.com/AtzinLeyva/TesisRepositorio/backend/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserController struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Users *services.UserService
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg, Users: services.NewUserService(db)}
}

// GetProfile returns the authenticated user's account and role profile.
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":         user.ID,
		"username":   user.Username,
		"role":       user.Role,
		"created_at": user.CreatedAt,
		"profile":    uc.profileFor(user),
	})
}

func (uc *UserController) profileFor(user *models.User) interface{} {
	switch user.Role {
	case models.RoleStudent:
		var p models.Student
		uc.DB.Where("user_id = ?", user.ID).First(&p)
		return p
	case models.RoleTeacher:
		var p models.Teacher
		uc.DB.Where("user_id = ?", user.ID).First(&p)
		return p
	case models.RoleSinodal:
		var p models.Examiner
		uc.DB.Where("user_id = ?", user.ID).First(&p)
		return p
	case models.RoleEgresado:
		var p models.Graduate
		uc.DB.Where("user_id = ?", user.ID).First(&p)
		return p
	default:
		var p models.AdminStaff
		uc.DB.Where("user_id = ?", user.ID).First(&p)
		return p
	}
}

// GetActivity returns the authenticated user's recent logins.
func (uc *UserController) GetActivity(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	days, _ := strconv.Atoi(c.Query("days", "7"))

	var logins []models.LoginHistory
	if err := uc.DB.Where("user_id = ? AND login_time >= ?",
		user.ID, time.Now().AddDate(0, 0, -days)).
		Order("login_time DESC").
		Find(&logins).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch login history")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"logins":      logins,
		"period_days": days,
	})
}

// ListUsers returns every account. Admin only.
func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := uc.DB.Find(&users).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch users")
	}

	result := make([]fiber.Map, 0, len(users))
	for _, user := range users {
		result = append(result, fiber.Map{
			"id":         user.ID,
			"username":   user.Username,
			"role":       user.Role,
			"created_at": user.CreatedAt,
		})
	}
	return utils.Success(c, fiber.StatusOK, result)
}

// DeleteUser removes an account and its dependent rows. Admin only.
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	if err := uc.Users.Delete(uint(userID)); err != nil {
		return serviceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "User deleted"})
}

// ListGraduates returns the egresado records.
func (uc *UserController) ListGraduates(c *fiber.Ctx) error {
	var graduates []models.Graduate
	if err := uc.DB.Order("generation DESC").Find(&graduates).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch graduates")
	}
	return utils.Success(c, fiber.StatusOK, graduates)
}
