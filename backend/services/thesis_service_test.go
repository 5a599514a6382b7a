package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/AtzinLeyva/TesisRepositorio/backend/models"
	"github.com/AtzinLeyva/TesisRepositorio/backend/search"
	"github.com/AtzinLeyva/TesisRepositorio/backend/utils"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Shared-cache in-memory database so every pooled connection sees the
	// same data; the name keeps parallel tests apart.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))
	return db
}

// fakeIndex records writes and deletes without a real bleve index behind it.
type fakeIndex struct {
	docs    map[string]map[string]string
	failAdd bool
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: make(map[string]map[string]string)}
}

func (f *fakeIndex) AddDocument(id string, fields map[string]string) error {
	if f.failAdd {
		return errors.New("index unavailable")
	}
	f.docs[id] = fields
	return nil
}

func (f *fakeIndex) Delete(id string) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) Search(kind, field, queryStr string) ([]search.Document, error) {
	var out []search.Document
	for id, fields := range f.docs {
		if fields["kind"] == kind {
			out = append(out, search.Document{ID: id, Fields: fields})
		}
	}
	return out, nil
}

func (f *fakeIndex) Close() error { return nil }

func newTestThesisService(t *testing.T) (*ThesisService, *fakeIndex) {
	t.Helper()
	index := newFakeIndex()
	return NewThesisService(newTestDB(t), index), index
}

func submitInput(title string) SubmitThesisInput {
	return SubmitThesisInput{
		Title:    title,
		Authors:  "A. Leyva",
		Summary:  "A study of titling workflows",
		Keywords: "titulacion, workflow",
	}
}

func createSinodal(t *testing.T, db *gorm.DB, username string) (*models.User, *models.Examiner) {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "x", Role: models.RoleSinodal}
	require.NoError(t, db.Create(user).Error)
	examiner := &models.Examiner{UserID: user.ID, Name: username}
	require.NoError(t, db.Create(examiner).Error)
	return user, examiner
}

func TestSubmitIssuesUniqueSixDigitIdentifiers(t *testing.T) {
	svc, index := newTestThesisService(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		thesis, err := svc.Submit(submitInput(fmt.Sprintf("Thesis %d", i)))
		require.NoError(t, err)

		assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), thesis.Identifier)
		assert.False(t, seen[thesis.Identifier], "identifier %s issued twice", thesis.Identifier)
		seen[thesis.Identifier] = true

		// The document went into the index under the same identifier.
		assert.Equal(t, search.KindThesis, index.docs[thesis.Identifier]["kind"])
		assert.Equal(t, thesis.Summary, index.docs[thesis.Identifier]["content"])
	}
}

func TestSubmitRejectsMissingFields(t *testing.T) {
	svc, _ := newTestThesisService(t)

	_, err := svc.Submit(SubmitThesisInput{Title: "No authors"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitLeavesNoRowWhenIndexFails(t *testing.T) {
	svc, index := newTestThesisService(t)
	index.failAdd = true

	_, err := svc.Submit(submitInput("Doomed"))
	assert.ErrorIs(t, err, ErrIndexWrite)

	var count int64
	require.NoError(t, svc.DB.Model(&models.Thesis{}).Count(&count).Error)
	assert.Zero(t, count, "no thesis row may exist after an index failure")
}

func TestSubmitRemovesDocumentWhenRowInsertFails(t *testing.T) {
	svc, index := newTestThesisService(t)

	// Identifier lookups still work, but the insert itself is refused.
	require.NoError(t, svc.DB.Exec(
		`CREATE TRIGGER block_thesis_insert BEFORE INSERT ON theses
		 BEGIN SELECT RAISE(ABORT, 'forced failure'); END`).Error)

	_, err := svc.Submit(submitInput("Doomed"))
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Empty(t, index.docs, "the indexed document must be rolled back")
}

func TestAssignExaminerRejectsDuplicates(t *testing.T) {
	svc, _ := newTestThesisService(t)
	thesis, err := svc.Submit(submitInput("Committee test"))
	require.NoError(t, err)
	_, examiner := createSinodal(t, svc.DB, "sinodal1")

	_, err = svc.AssignExaminer(thesis.ID, examiner.ID)
	require.NoError(t, err)

	_, err = svc.AssignExaminer(thesis.ID, examiner.ID)
	assert.ErrorIs(t, err, ErrDuplicateAssignment)

	var count int64
	require.NoError(t, svc.DB.Model(&models.ExaminerAssignment{}).
		Where("thesis_id = ?", thesis.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAssignExaminerUnknownIDs(t *testing.T) {
	svc, _ := newTestThesisService(t)
	thesis, err := svc.Submit(submitInput("Lookup test"))
	require.NoError(t, err)

	_, err = svc.AssignExaminer(9999, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AssignExaminer(thesis.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGradeRequiresSinodalRole(t *testing.T) {
	svc, _ := newTestThesisService(t)
	thesis, err := svc.Submit(submitInput("Role test"))
	require.NoError(t, err)

	student := &models.User{Username: "student1", PasswordHash: "x", Role: models.RoleStudent}
	require.NoError(t, svc.DB.Create(student).Error)

	_, err = svc.Grade(student, thesis.ID, 9, "nice work")
	assert.ErrorIs(t, err, ErrRole)

	var count int64
	require.NoError(t, svc.DB.Model(&models.Evaluation{}).Count(&count).Error)
	assert.Zero(t, count, "a rejected grading attempt must not leave an evaluation row")
}

func TestGradeRequiresAssignment(t *testing.T) {
	svc, _ := newTestThesisService(t)
	thesis, err := svc.Submit(submitInput("Assignment test"))
	require.NoError(t, err)

	user, _ := createSinodal(t, svc.DB, "sinodal1")

	_, err = svc.Grade(user, thesis.ID, 9, "")
	assert.ErrorIs(t, err, ErrNotAssigned)
}

func TestGradeHappyPath(t *testing.T) {
	svc, _ := newTestThesisService(t)
	thesis, err := svc.Submit(submitInput("Grading test"))
	require.NoError(t, err)

	user, examiner := createSinodal(t, svc.DB, "sinodal1")
	_, err = svc.AssignExaminer(thesis.ID, examiner.ID)
	require.NoError(t, err)

	evaluation, err := svc.Grade(user, thesis.ID, 9, "solid")
	require.NoError(t, err)
	assert.Equal(t, 9, evaluation.Grade)
	assert.Equal(t, examiner.ID, evaluation.ExaminerID)

	_, err = svc.Grade(user, thesis.ID, 11, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStatusDerivation(t *testing.T) {
	cases := []struct {
		name        string
		assignments int64
		grades      []int
		want        Status
	}{
		{"no committee", 0, nil, StatusAwaitingAssignment},
		{"committee too small", 2, []int{9, 9}, StatusAwaitingAssignment},
		{"grading in progress", 3, []int{9, 8}, StatusGrading},
		{"mean 8.33 approves", 3, []int{9, 8, 8}, StatusApproved},
		{"mean 7.67 rejects", 3, []int{9, 8, 6}, StatusRejected},
		{"mean exactly 8 approves", 3, []int{8, 8, 8}, StatusApproved},
		{"four grades averaging 8.25 approve", 4, []int{10, 10, 10, 3}, StatusApproved},
		{"four grades averaging 7.75 reject", 4, []int{10, 10, 10, 1}, StatusRejected},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(tc.assignments, tc.grades))
		})
	}
}

func TestStatusOfPersistedThesis(t *testing.T) {
	svc, _ := newTestThesisService(t)
	thesis, err := svc.Submit(submitInput("Full lifecycle"))
	require.NoError(t, err)

	status, err := svc.Status(thesis.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingAssignment, status)

	grades := []int{9, 8, 8}
	for i, grade := range grades {
		user, examiner := createSinodal(t, svc.DB, fmt.Sprintf("sinodal%d", i))
		_, err := svc.AssignExaminer(thesis.ID, examiner.ID)
		require.NoError(t, err)

		if i == len(grades)-1 {
			status, err = svc.Status(thesis.ID)
			require.NoError(t, err)
			assert.Equal(t, StatusGrading, status)
		}

		_, err = svc.Grade(user, thesis.ID, grade, "")
		require.NoError(t, err)
	}

	status, err = svc.Status(thesis.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, status)
}

func TestEnrollStudent(t *testing.T) {
	svc, _ := newTestThesisService(t)

	student := &models.User{Username: "student1", PasswordHash: "x", Role: models.RoleStudent}
	require.NoError(t, svc.DB.Create(student).Error)
	require.NoError(t, svc.DB.Create(&models.Student{UserID: student.ID, Name: "Student One"}).Error)

	call := &models.Call{Title: "Convocatoria 2026-1"}
	require.NoError(t, svc.DB.Create(call).Error)

	_, err := svc.EnrollStudent(student, call.ID)
	require.NoError(t, err)

	_, err = svc.EnrollStudent(student, call.ID)
	assert.ErrorIs(t, err, ErrDuplicateEnrollment)

	teacher := &models.User{Username: "teacher1", PasswordHash: "x", Role: models.RoleTeacher}
	require.NoError(t, svc.DB.Create(teacher).Error)
	_, err = svc.EnrollStudent(teacher, call.ID)
	assert.ErrorIs(t, err, ErrRole)

	_, err = svc.EnrollStudent(student, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
