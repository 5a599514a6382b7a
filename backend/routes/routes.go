package routes

import (
	"github.com/AtzinLeyva/TesisRepositorio/backend/config"
	"github.com/AtzinLeyva/TesisRepositorio/backend/controllers"
	"github.com/AtzinLeyva/TesisRepositorio/backend/middleware"
	"github.com/AtzinLeyva/TesisRepositorio/backend/models"
	"github.com/AtzinLeyva/TesisRepositorio/backend/search"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, index search.Indexer, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(db, cfg)
	adminOnly := middleware.RequireRoles(db, cfg, models.RoleAdmin)
	sinodalOnly := middleware.RequireRoles(db, cfg, models.RoleSinodal)
	studentOnly := middleware.RequireRoles(db, cfg, models.RoleStudent)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Get("/api/user/activity", authMiddleware, userController.GetActivity)
	app.Get("/api/graduates", authMiddleware, userController.ListGraduates)

	adminUsers := app.Group("/api/admin/users", adminOnly)
	adminUsers.Get("/", userController.ListUsers)
	adminUsers.Delete("/:id", userController.DeleteUser)

	// Thesis routes
	thesisController := controllers.NewThesisController(db, cfg, index)
	theses := app.Group("/api/theses", authMiddleware)
	theses.Post("/", thesisController.Submit)
	theses.Get("/", thesisController.List)
	theses.Get("/search", thesisController.Search)
	theses.Get("/:id", thesisController.Get)
	app.Post("/api/theses/:id/examiners", adminOnly, thesisController.AssignExaminer)
	app.Post("/api/theses/:id/grade", sinodalOnly, thesisController.Grade)

	// Call, calendar and seminar routes
	callController := controllers.NewCallController(db, cfg, thesisController.Theses)
	calls := app.Group("/api/calls", authMiddleware)
	calls.Get("/", callController.ListCalls)
	app.Post("/api/calls", adminOnly, callController.CreateCall)
	app.Post("/api/calls/:id/enroll", studentOnly, callController.Enroll)
	app.Get("/api/calls/:id/enrollments", adminOnly, callController.ListEnrollments)

	app.Get("/api/calendars", authMiddleware, callController.ListCalendars)
	app.Post("/api/calendars", adminOnly, callController.CreateCalendar)
	app.Get("/api/seminars", authMiddleware, callController.ListSeminars)
	app.Post("/api/seminars", adminOnly, callController.CreateSeminar)

	// Titling format routes
	formatController := controllers.NewFormatController(cfg, index)
	app.Get("/api/formats", authMiddleware, formatController.List)
	app.Get("/api/formats/search", authMiddleware, formatController.Search)
	app.Post("/api/formats", adminOnly, formatController.Create)
}
