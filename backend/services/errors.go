package services

import "errors"

// Failure taxonomy shared by every workflow. Controllers translate these
// into HTTP statuses with errors.Is; services never touch fiber.
var (
	ErrValidation          = errors.New("invalid input")
	ErrDuplicateUsername   = errors.New("username already taken")
	ErrDuplicateAssignment = errors.New("examiner already assigned to this thesis")
	ErrDuplicateEnrollment = errors.New("student already enrolled in this call")
	ErrRole                = errors.New("role not allowed to perform this action")
	ErrNotAssigned         = errors.New("examiner is not assigned to this thesis")
	ErrNotFound            = errors.New("record not found")
	ErrIndexWrite          = errors.New("search index write failed")
	ErrPersistence         = errors.New("persistence failed")
)
