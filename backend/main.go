package main

import (
	"log"

	"github.com/AtzinLeyva/TesisRepositorio/backend/config"
	"github.com/AtzinLeyva/TesisRepositorio/backend/middleware"
	"github.com/AtzinLeyva/TesisRepositorio/backend/routes"
	"github.com/AtzinLeyva/TesisRepositorio/backend/search"
	"github.com/AtzinLeyva/TesisRepositorio/backend/services"
	"github.com/AtzinLeyva/TesisRepositorio/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	if err := utils.Migrate(db); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	// Open the search index
	index, err := search.Open(cfg.IndexDir)
	if err != nil {
		log.Fatalf("Error opening search index: %v", err)
	}
	defer index.Close()

	// Seed the bootstrap admin when the deployment asks for it
	if err := services.NewUserService(db).SeedAdmin(cfg); err != nil {
		log.Fatalf("Error seeding admin user: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, index, cfg)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
