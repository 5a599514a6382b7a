package controllers

import (
	"strconv"

	"github.com/AtzinLeyva/TesisRepositorio/backend/config"
	"github.com/AtzinLeyva/TesisRepositorio/backend/middleware"
	"github.com/AtzinLeyva/TesisRepositorio/backend/models"
	"github.com/AtzinLeyva/TesisRepositorio/backend/services"
	"github.com/AtzinLeyva/TesisRepositorio/backend/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CallController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Theses *services.ThesisService
}

func NewCallController(db *gorm.DB, cfg *config.Config, theses *services.ThesisService) *CallController {
	return &CallController{DB: db, Cfg: cfg, Theses: theses}
}

// CreateCall publishes a convocatoria. Admin only.
func (cc *CallController) CreateCall(c *fiber.Ctx) error {
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		StartDate   string `json:"start_date"`
		EndDate     string `json:"end_date"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" {
		return utils.UnprocessableEntity(c, "Title is required")
	}

	call := models.Call{
		Title:       input.Title,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	if err := cc.DB.Create(&call).Error; err != nil {
		return utils.InternalServerError(c, "Could not create call")
	}
	return utils.Created(c, call)
}

func (cc *CallController) ListCalls(c *fiber.Ctx) error {
	var calls []models.Call
	if err := cc.DB.Order("start_date").Find(&calls).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch calls")
	}
	return utils.Success(c, fiber.StatusOK, calls)
}

// Enroll registers the acting student into a call.
func (cc *CallController) Enroll(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	callID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid call id")
	}

	enrollment, err := cc.Theses.EnrollStudent(user, uint(callID))
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Created(c, enrollment)
}

// ListEnrollments returns who enrolled in a call. Admin only.
func (cc *CallController) ListEnrollments(c *fiber.Ctx) error {
	callID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid call id")
	}

	var enrollments []models.CallEnrollment
	if err := cc.DB.Where("call_id = ?", callID).Find(&enrollments).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch enrollments")
	}
	return utils.Success(c, fiber.StatusOK, enrollments)
}

// CreateCalendar publishes a calendar entry for upcoming calls. Admin only.
func (cc *CallController) CreateCalendar(c *fiber.Ctx) error {
	var input struct {
		StartDate    string `json:"start_date"`
		EndDate      string `json:"end_date"`
		Requirements string `json:"requirements"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.StartDate == "" || input.EndDate == "" {
		return utils.UnprocessableEntity(c, "Start and end dates are required")
	}

	calendar := models.CallCalendar{
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Requirements: input.Requirements,
	}
	if err := cc.DB.Create(&calendar).Error; err != nil {
		return utils.InternalServerError(c, "Could not create calendar entry")
	}
	return utils.Created(c, calendar)
}

func (cc *CallController) ListCalendars(c *fiber.Ctx) error {
	var calendars []models.CallCalendar
	if err := cc.DB.Order("start_date").Find(&calendars).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch calendars")
	}
	return utils.Success(c, fiber.StatusOK, calendars)
}

// CreateSeminar schedules a titling seminar. Admin only.
func (cc *CallController) CreateSeminar(c *fiber.Ctx) error {
	var input struct {
		Date    string `json:"date"`
		Topic   string `json:"topic"`
		Speaker string `json:"speaker"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Date == "" || input.Topic == "" {
		return utils.UnprocessableEntity(c, "Date and topic are required")
	}

	seminar := models.Seminar{Date: input.Date, Topic: input.Topic, Speaker: input.Speaker}
	if err := cc.DB.Create(&seminar).Error; err != nil {
		return utils.InternalServerError(c, "Could not create seminar")
	}
	return utils.Created(c, seminar)
}

func (cc *CallController) ListSeminars(c *fiber.Ctx) error {
	var seminars []models.Seminar
	if err := cc.DB.Order("date").Find(&seminars).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch seminars")
	}
	return utils.Success(c, fiber.StatusOK, seminars)
}
