package controllers

import (
	"errors"

	"github.com/AtzinLeyva/TesisRepositorio/backend/services"
	"github.com/AtzinLeyva/TesisRepositorio/backend/utils"
	"github.com/gofiber/fiber/v2"
)

// serviceError translates the services failure taxonomy into HTTP responses.
// Validation and role failures are user-visible; everything else is a 500.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return utils.UnprocessableEntity(c, err.Error())
	case errors.Is(err, services.ErrDuplicateUsername),
		errors.Is(err, services.ErrDuplicateAssignment),
		errors.Is(err, services.ErrDuplicateEnrollment):
		return utils.Conflict(c, err.Error())
	case errors.Is(err, services.ErrRole),
		errors.Is(err, services.ErrNotAssigned):
		return utils.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFound(c, err.Error())
	default:
		return utils.InternalServerError(c, err.Error())
	}
}
