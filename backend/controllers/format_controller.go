package controllers

import (
	"github.com/AtzinLeyva/TesisRepositorio/backend/config"
	"github.com/AtzinLeyva/TesisRepositorio/backend/search"
	"github.com/AtzinLeyva/TesisRepositorio/backend/services"
	"github.com/AtzinLeyva/TesisRepositorio/backend/utils"
	"github.com/gofiber/fiber/v2"
)

type FormatController struct {
	Cfg     *config.Config
	Formats *services.FormatService
}

func NewFormatController(cfg *config.Config, index search.Indexer) *FormatController {
	return &FormatController{Cfg: cfg, Formats: services.NewFormatService(index)}
}

// Create registers a forma de titulación in the index. Admin only.
func (fc *FormatController) Create(c *fiber.Ctx) error {
	var input services.RegisterFormatInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	docID, err := fc.Formats.Register(input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Created(c, fiber.Map{"id": docID, "title": input.Title})
}

// List enumerates every registered format.
func (fc *FormatController) List(c *fiber.Ctx) error {
	docs, err := fc.Formats.List()
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, formatDocs(docs))
}

// Search runs a free-text query over the formats.
func (fc *FormatController) Search(c *fiber.Ctx) error {
	docs, err := fc.Formats.Search(c.Query("q", "*"))
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, formatDocs(docs))
}

func formatDocs(docs []search.Document) []fiber.Map {
	result := make([]fiber.Map, 0, len(docs))
	for _, doc := range docs {
		result = append(result, fiber.Map{
			"id":           doc.ID,
			"title":        doc.Fields["title"],
			"requirements": doc.Fields["content"],
		})
	}
	return result
}
