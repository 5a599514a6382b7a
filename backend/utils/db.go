package utils

import (
	"fmt"

	"github.com/AtzinLeyva/TesisRepositorio/backend/config"
	"github.com/AtzinLeyva/TesisRepositorio/backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB connects to Postgres with the configured credentials.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table the application owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Teacher{},
		&models.AdminStaff{},
		&models.Examiner{},
		&models.Graduate{},
		&models.LoginHistory{},
		&models.Thesis{},
		&models.ExaminerAssignment{},
		&models.Evaluation{},
		&models.Call{},
		&models.CallCalendar{},
		&models.CallEnrollment{},
		&models.Seminar{},
	)
}
