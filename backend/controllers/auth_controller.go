package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/AtzinLeyva/TesisRepositorio/backend/config"
	"github.com/AtzinLeyva/TesisRepositorio/backend/models"
	"github.com/AtzinLeyva/TesisRepositorio/backend/services"
	"github.com/AtzinLeyva/TesisRepositorio/backend/utils"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Users *services.UserService
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg, Users: services.NewUserService(db)}
}

// Register creates an account with its role profile and returns a token.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input services.RegisterUserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	user, err := ac.Users.Register(input)
	if err != nil {
		return serviceError(c, err)
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return utils.Created(c, fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// Login authenticates a username/password pair and returns a token.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := ac.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized(c, "Invalid credentials")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid credentials")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	// Login audit trail. A failed audit write must not lock the user out,
	// but it may not vanish silently either.
	if err := ac.DB.Create(&models.LoginHistory{UserID: user.ID, LoginTime: time.Now()}).Error; err != nil {
		log.Printf("could not record login for user %d: %v", user.ID, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}
