package models

import "gorm.io/gorm"

// Thesis is a registered trabajo de titulación. Status is never stored;
// it is derived on read from assignment and evaluation counts.
type Thesis struct {
	gorm.Model
	Identifier string `gorm:"unique;not null"` // 6-digit, issued on submission
	Title      string `gorm:"not null"`
	Authors    string
	Summary    string
	Keywords   string

	Assignments []ExaminerAssignment `gorm:"constraint:OnDelete:CASCADE"`
	Evaluations []Evaluation         `gorm:"constraint:OnDelete:CASCADE"`
}

// ExaminerAssignment seats one sinodal on one thesis committee. The pair is
// unique: assigning the same examiner twice must not inflate the committee.
type ExaminerAssignment struct {
	gorm.Model
	ThesisID   uint `gorm:"not null;uniqueIndex:idx_thesis_examiner"`
	ExaminerID uint `gorm:"not null;uniqueIndex:idx_thesis_examiner"`
}

type Evaluation struct {
	gorm.Model
	ThesisID   uint `gorm:"not null"`
	ExaminerID uint `gorm:"not null"`
	Grade      int  `gorm:"not null"`
	Comment    string
}
