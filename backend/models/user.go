package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of account kinds. Every User carries exactly one
// role and exactly one matching profile row.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStudent  Role = "student"
	RoleTeacher  Role = "teacher"
	RoleSinodal  Role = "sinodal"
	RoleEgresado Role = "egresado"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStudent, RoleTeacher, RoleSinodal, RoleEgresado:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	Role         Role   `gorm:"not null"`

	Student    *Student    `gorm:"constraint:OnDelete:CASCADE"`
	Teacher    *Teacher    `gorm:"constraint:OnDelete:CASCADE"`
	AdminStaff *AdminStaff `gorm:"constraint:OnDelete:CASCADE"`
	Examiner   *Examiner   `gorm:"constraint:OnDelete:CASCADE"`
	Graduate   *Graduate   `gorm:"constraint:OnDelete:CASCADE"`
}

// Can is the single authorization check: it reports whether the user's role
// is among the allowed ones. Handlers and services never compare role
// strings themselves.
func (u *User) Can(allowed ...Role) bool {
	for _, role := range allowed {
		if u.Role == role {
			return true
		}
	}
	return false
}

// Student is an enrolled alumno working toward titulación.
type Student struct {
	gorm.Model
	UserID   uint   `gorm:"uniqueIndex;not null"`
	Name     string `gorm:"not null"`
	Boleta   string
	Area     string
	Semester string
}

type Teacher struct {
	gorm.Model
	UserID     uint   `gorm:"uniqueIndex;not null"`
	Name       string `gorm:"not null"`
	Department string
}

type AdminStaff struct {
	gorm.Model
	UserID uint   `gorm:"uniqueIndex;not null"`
	Name   string `gorm:"not null"`
	Office string
}

// Examiner is a sinodal, an examining-committee member who grades theses.
type Examiner struct {
	gorm.Model
	UserID     uint   `gorm:"uniqueIndex;not null"`
	Name       string `gorm:"not null"`
	Department string
}

// Graduate is an egresado record: someone who already left the program.
type Graduate struct {
	gorm.Model
	UserID     uint   `gorm:"uniqueIndex;not null"`
	Name       string `gorm:"not null"`
	Boleta     string
	Area       string
	Generation string
}

type LoginHistory struct {
	gorm.Model
	UserID    uint
	LoginTime time.Time
}
