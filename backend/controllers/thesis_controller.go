package controllers

import (
	"strconv"

	"github.com/AtzinLeyva/TesisRepositorio/backend/config"
	"github.com/AtzinLeyva/TesisRepositorio/backend/middleware"
	"github.com/AtzinLeyva/TesisRepositorio/backend/models"
	"github.com/AtzinLeyva/TesisRepositorio/backend/search"
	"github.com/AtzinLeyva/TesisRepositorio/backend/services"
	"github.com/AtzinLeyva/TesisRepositorio/backend/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ThesisController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Theses *services.ThesisService
	Index  search.Indexer
}

func NewThesisController(db *gorm.DB, cfg *config.Config, index search.Indexer) *ThesisController {
	return &ThesisController{
		DB:     db,
		Cfg:    cfg,
		Theses: services.NewThesisService(db, index),
		Index:  index,
	}
}

// Submit registers a trabajo de titulación and returns its identifier.
func (tc *ThesisController) Submit(c *fiber.Ctx) error {
	var input services.SubmitThesisInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	thesis, err := tc.Theses.Submit(input)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Created(c, fiber.Map{
		"id":         thesis.ID,
		"identifier": thesis.Identifier,
		"title":      thesis.Title,
	})
}

// List returns every thesis with its derived status.
func (tc *ThesisController) List(c *fiber.Ctx) error {
	var theses []models.Thesis
	if err := tc.DB.Order("created_at DESC").Find(&theses).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch theses")
	}

	result := make([]fiber.Map, 0, len(theses))
	for _, thesis := range theses {
		status, err := tc.Theses.Status(thesis.ID)
		if err != nil {
			return serviceError(c, err)
		}
		result = append(result, fiber.Map{
			"id":         thesis.ID,
			"identifier": thesis.Identifier,
			"title":      thesis.Title,
			"authors":    thesis.Authors,
			"keywords":   thesis.Keywords,
			"status":     status,
			"created_at": thesis.CreatedAt,
		})
	}
	return utils.Success(c, fiber.StatusOK, result)
}

// Get returns one thesis with summary, committee and evaluations.
func (tc *ThesisController) Get(c *fiber.Ctx) error {
	thesisID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid thesis id")
	}

	var thesis models.Thesis
	if err := tc.DB.Preload("Assignments").Preload("Evaluations").
		First(&thesis, thesisID).Error; err != nil {
		return utils.NotFound(c, "Thesis not found")
	}

	status, err := tc.Theses.Status(thesis.ID)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":          thesis.ID,
		"identifier":  thesis.Identifier,
		"title":       thesis.Title,
		"authors":     thesis.Authors,
		"summary":     thesis.Summary,
		"keywords":    thesis.Keywords,
		"status":      status,
		"assignments": thesis.Assignments,
		"evaluations": thesis.Evaluations,
	})
}

// Search queries the thesis documents in the text index.
func (tc *ThesisController) Search(c *fiber.Ctx) error {
	queryStr := c.Query("q", "*")
	field := c.Query("field", search.DefaultField)

	docs, err := tc.Index.Search(search.KindThesis, field, queryStr)
	if err != nil {
		return utils.InternalServerError(c, "Search failed")
	}

	result := make([]fiber.Map, 0, len(docs))
	for _, doc := range docs {
		result = append(result, fiber.Map{
			"identifier": doc.ID,
			"title":      doc.Fields["title"],
			"authors":    doc.Fields["authors"],
			"summary":    doc.Fields["summary"],
			"keywords":   doc.Fields["keywords"],
		})
	}
	return utils.Success(c, fiber.StatusOK, result)
}

// AssignExaminer seats a sinodal on a thesis committee. Admin only.
func (tc *ThesisController) AssignExaminer(c *fiber.Ctx) error {
	thesisID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid thesis id")
	}

	var input struct {
		ExaminerID uint `json:"examiner_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	assignment, err := tc.Theses.AssignExaminer(uint(thesisID), input.ExaminerID)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Created(c, assignment)
}

// Grade records the acting sinodal's evaluation of a thesis.
func (tc *ThesisController) Grade(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	thesisID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid thesis id")
	}

	var input struct {
		Grade   int    `json:"grade"`
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	evaluation, err := tc.Theses.Grade(user, uint(thesisID), input.Grade, input.Comment)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Created(c, evaluation)
}
