package services

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/AtzinLeyva/TesisRepositorio/backend/models"
	"github.com/AtzinLeyva/TesisRepositorio/backend/search"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Status of a thesis, derived on every read from the committee assignments
// and submitted evaluations. It is never persisted.
type Status string

const (
	StatusAwaitingAssignment Status = "awaiting_assignment"
	StatusGrading            Status = "grading"
	StatusApproved           Status = "approved"
	StatusRejected           Status = "rejected"
)

// A committee needs three sinodales, and three grades averaging at least
// eight approve the thesis.
const (
	committeeSize     = 3
	approvalThreshold = 8.0
)

const (
	identifierDigits   = 6
	identifierAttempts = 100
)

var validate = validator.New()

type ThesisService struct {
	DB    *gorm.DB
	Index search.Indexer
}

func NewThesisService(db *gorm.DB, index search.Indexer) *ThesisService {
	return &ThesisService{DB: db, Index: index}
}

type SubmitThesisInput struct {
	Title    string `json:"title" validate:"required"`
	Authors  string `json:"authors" validate:"required"`
	Summary  string `json:"summary" validate:"required"`
	Keywords string `json:"keywords"`
}

// Submit registers a thesis: draws a fresh 6-digit identifier, indexes the
// document and persists the row. The two writes form one failure domain:
// if the row cannot be created the indexed document is removed again, and if
// indexing fails no row is ever written.
func (s *ThesisService) Submit(input SubmitThesisInput) (*models.Thesis, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	identifier, err := s.newIdentifier()
	if err != nil {
		return nil, err
	}

	fields := map[string]string{
		"kind":     search.KindThesis,
		"title":    input.Title,
		"authors":  input.Authors,
		"summary":  input.Summary,
		"keywords": input.Keywords,
		"content":  input.Summary,
	}
	if err := s.Index.AddDocument(identifier, fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexWrite, err)
	}

	thesis := &models.Thesis{
		Identifier: identifier,
		Title:      input.Title,
		Authors:    input.Authors,
		Summary:    input.Summary,
		Keywords:   input.Keywords,
	}
	if err := s.DB.Create(thesis).Error; err != nil {
		if delErr := s.Index.Delete(identifier); delErr != nil {
			return nil, fmt.Errorf("%w: %v (index rollback also failed: %v)", ErrPersistence, err, delErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return thesis, nil
}

// newIdentifier draws random 6-digit strings until one is free.
func (s *ThesisService) newIdentifier() (string, error) {
	for attempt := 0; attempt < identifierAttempts; attempt++ {
		candidate := fmt.Sprintf("%0*d", identifierDigits, rand.IntN(1000000))

		var taken int64
		if err := s.DB.Model(&models.Thesis{}).
			Where("identifier = ?", candidate).
			Count(&taken).Error; err != nil {
			return "", fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if taken == 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no free identifier after %d attempts", ErrPersistence, identifierAttempts)
}

// AssignExaminer seats a sinodal on the thesis committee. The pair must be
// unique so a repeated call cannot inflate the committee count.
func (s *ThesisService) AssignExaminer(thesisID, examinerID uint) (*models.ExaminerAssignment, error) {
	var thesis models.Thesis
	if err := s.DB.First(&thesis, thesisID).Error; err != nil {
		return nil, wrapLookupError(err, "thesis")
	}
	var examiner models.Examiner
	if err := s.DB.First(&examiner, examinerID).Error; err != nil {
		return nil, wrapLookupError(err, "examiner")
	}

	var existing int64
	if err := s.DB.Model(&models.ExaminerAssignment{}).
		Where("thesis_id = ? AND examiner_id = ?", thesisID, examinerID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if existing > 0 {
		return nil, ErrDuplicateAssignment
	}

	assignment := &models.ExaminerAssignment{ThesisID: thesisID, ExaminerID: examinerID}
	if err := s.DB.Create(assignment).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return assignment, nil
}

// Grade records one sinodal's evaluation. Only examiners grade, and only on
// theses they are assigned to.
func (s *ThesisService) Grade(actor *models.User, thesisID uint, grade int, comment string) (*models.Evaluation, error) {
	if !actor.Can(models.RoleSinodal) {
		return nil, ErrRole
	}
	if grade < 0 || grade > 10 {
		return nil, fmt.Errorf("%w: grade must be between 0 and 10", ErrValidation)
	}

	var examiner models.Examiner
	if err := s.DB.Where("user_id = ?", actor.ID).First(&examiner).Error; err != nil {
		return nil, wrapLookupError(err, "examiner profile")
	}
	var thesis models.Thesis
	if err := s.DB.First(&thesis, thesisID).Error; err != nil {
		return nil, wrapLookupError(err, "thesis")
	}

	var assigned int64
	if err := s.DB.Model(&models.ExaminerAssignment{}).
		Where("thesis_id = ? AND examiner_id = ?", thesisID, examiner.ID).
		Count(&assigned).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if assigned == 0 {
		return nil, ErrNotAssigned
	}

	evaluation := &models.Evaluation{
		ThesisID:   thesisID,
		ExaminerID: examiner.ID,
		Grade:      grade,
		Comment:    comment,
	}
	if err := s.DB.Create(evaluation).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return evaluation, nil
}

// Status derives the lifecycle state of one thesis.
func (s *ThesisService) Status(thesisID uint) (Status, error) {
	var thesis models.Thesis
	if err := s.DB.First(&thesis, thesisID).Error; err != nil {
		return "", wrapLookupError(err, "thesis")
	}

	var assignments int64
	if err := s.DB.Model(&models.ExaminerAssignment{}).
		Where("thesis_id = ?", thesisID).
		Count(&assignments).Error; err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	var grades []int
	if err := s.DB.Model(&models.Evaluation{}).
		Where("thesis_id = ?", thesisID).
		Pluck("grade", &grades).Error; err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return statusFor(assignments, grades), nil
}

// statusFor is the pure derivation: fewer than three assignments means the
// committee is still forming, fewer than three grades means grading is in
// progress, and the final verdict is the mean grade against the threshold.
// The mean is computed in floating point so 8.33 does not truncate to 8.
func statusFor(assignments int64, grades []int) Status {
	if assignments < committeeSize {
		return StatusAwaitingAssignment
	}
	if len(grades) < committeeSize {
		return StatusGrading
	}
	var sum int
	for _, g := range grades {
		sum += g
	}
	mean := float64(sum) / float64(len(grades))
	if mean >= approvalThreshold {
		return StatusApproved
	}
	return StatusRejected
}

// EnrollStudent registers the acting student into a call, at most once.
func (s *ThesisService) EnrollStudent(actor *models.User, callID uint) (*models.CallEnrollment, error) {
	if !actor.Can(models.RoleStudent) {
		return nil, ErrRole
	}

	var student models.Student
	if err := s.DB.Where("user_id = ?", actor.ID).First(&student).Error; err != nil {
		return nil, wrapLookupError(err, "student profile")
	}
	var call models.Call
	if err := s.DB.First(&call, callID).Error; err != nil {
		return nil, wrapLookupError(err, "call")
	}

	var existing int64
	if err := s.DB.Model(&models.CallEnrollment{}).
		Where("call_id = ? AND student_id = ?", callID, student.ID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if existing > 0 {
		return nil, ErrDuplicateEnrollment
	}

	enrollment := &models.CallEnrollment{CallID: callID, StudentID: student.ID}
	if err := s.DB.Create(enrollment).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return enrollment, nil
}

func wrapLookupError(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
