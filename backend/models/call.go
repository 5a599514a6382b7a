package models

import "gorm.io/gorm"

// Call is a convocatoria: an announcement opening a titling window.
type Call struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Description string
	StartDate   string
	EndDate     string

	Enrollments []CallEnrollment `gorm:"constraint:OnDelete:CASCADE"`
}

// CallCalendar is a published calendar entry for upcoming convocatorias.
type CallCalendar struct {
	gorm.Model
	StartDate    string `gorm:"not null"`
	EndDate      string `gorm:"not null"`
	Requirements string
}

// CallEnrollment registers one student into one call, at most once.
type CallEnrollment struct {
	gorm.Model
	CallID    uint `gorm:"not null;uniqueIndex:idx_call_student"`
	StudentID uint `gorm:"not null;uniqueIndex:idx_call_student"`
}

type Seminar struct {
	gorm.Model
	Date    string `gorm:"not null"`
	Topic   string `gorm:"not null"`
	Speaker string
}
