package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AtzinLeyva/TesisRepositorio/backend/config"
	"github.com/AtzinLeyva/TesisRepositorio/backend/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

type RegisterUserInput struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
	Name     string `json:"name" validate:"required"`

	// Profile fields, relevant per role.
	Boleta     string `json:"boleta"`
	Area       string `json:"area"`
	Semester   string `json:"semester"`
	Generation string `json:"generation"`
	Department string `json:"department"`
	Office     string `json:"office"`
}

// Register creates the account and its role profile in one transaction.
func (s *UserService) Register(input RegisterUserInput) (*models.User, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	role := models.Role(input.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, input.Role)
	}

	var existing int64
	if err := s.DB.Model(&models.User{}).
		Where("username = ?", input.Username).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if existing > 0 {
		return nil, ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	user := &models.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		Role:         role,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(profileFor(user.ID, role, input)).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return user, nil
}

func profileFor(userID uint, role models.Role, input RegisterUserInput) interface{} {
	switch role {
	case models.RoleStudent:
		return &models.Student{UserID: userID, Name: input.Name, Boleta: input.Boleta, Area: input.Area, Semester: input.Semester}
	case models.RoleTeacher:
		return &models.Teacher{UserID: userID, Name: input.Name, Department: input.Department}
	case models.RoleSinodal:
		return &models.Examiner{UserID: userID, Name: input.Name, Department: input.Department}
	case models.RoleEgresado:
		return &models.Graduate{UserID: userID, Name: input.Name, Boleta: input.Boleta, Area: input.Area, Generation: input.Generation}
	default:
		return &models.AdminStaff{UserID: userID, Name: input.Name, Office: input.Office}
	}
}

// Delete removes an account and everything hanging off it. The schema
// declares ON DELETE CASCADE, but the dependent rows are deleted explicitly
// here so the behavior also holds on databases without the constraint wired.
func (s *UserService) Delete(userID uint) error {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		return wrapLookupError(err, "user")
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		switch user.Role {
		case models.RoleStudent:
			var student models.Student
			if err := tx.Where("user_id = ?", user.ID).First(&student).Error; err == nil {
				if err := tx.Where("student_id = ?", student.ID).Delete(&models.CallEnrollment{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.Student{}).Error; err != nil {
				return err
			}
		case models.RoleTeacher:
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.Teacher{}).Error; err != nil {
				return err
			}
		case models.RoleSinodal:
			var examiner models.Examiner
			if err := tx.Where("user_id = ?", user.ID).First(&examiner).Error; err == nil {
				if err := tx.Where("examiner_id = ?", examiner.ID).Delete(&models.ExaminerAssignment{}).Error; err != nil {
					return err
				}
				if err := tx.Where("examiner_id = ?", examiner.ID).Delete(&models.Evaluation{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.Examiner{}).Error; err != nil {
				return err
			}
		case models.RoleEgresado:
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.Graduate{}).Error; err != nil {
				return err
			}
		default:
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.AdminStaff{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.LoginHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// SeedAdmin creates the bootstrap admin account once, and only when the
// deployment asks for it. Credentials come from the environment; there is
// no built-in default.
func (s *UserService) SeedAdmin(cfg *config.Config) error {
	if !cfg.SeedAdmin {
		return nil
	}
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return fmt.Errorf("%w: SEED_ADMIN is set but ADMIN_USERNAME/ADMIN_PASSWORD are not", ErrValidation)
	}

	var existing int64
	if err := s.DB.Model(&models.User{}).
		Where("username = ?", cfg.AdminUsername).
		Count(&existing).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if existing > 0 {
		return nil
	}

	_, err := s.Register(RegisterUserInput{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		Role:     string(models.RoleAdmin),
		Name:     cfg.AdminUsername,
	})
	if err != nil && !errors.Is(err, ErrDuplicateUsername) {
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
