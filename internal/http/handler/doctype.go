package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"designator/internal/model"
	"designator/internal/service"
)

// CreateDocType godoc
//
// @Summary Add a custom ГОСТ 34 document type
// @Tags custom-gost34-types
// @Accept json
// @Produce json
// @Param body body createDocTypeRequest true "Type"
// @Success 201 {object} model.CustomDocType
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /api/custom-gost34-types [post]
func CreateDocType(svc service.DocTypeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createDocTypeRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		t, err := svc.Create(c.UserContext(), service.CreateDocTypeInput{Code: req.Code, Name: req.Name})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	}
}

// ListDocTypes godoc
//
// @Summary List custom ГОСТ 34 document types
// @Tags custom-gost34-types
// @Produce json
// @Success 200 {array} model.CustomDocType
// @Router /api/custom-gost34-types [get]
func ListDocTypes(svc service.DocTypeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(items)
	}
}

// GetDocType godoc
//
// @Summary Get a custom ГОСТ 34 document type
// @Tags custom-gost34-types
// @Produce json
// @Param id path string true "Type ID"
// @Success 200 {object} model.CustomDocType
// @Failure 404 {object} errorPayload
// @Router /api/custom-gost34-types/{id} [get]
func GetDocType(svc service.DocTypeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		t, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(t)
	}
}

// RenameDocType godoc
//
// @Summary Rename a custom ГОСТ 34 document type
// @Tags custom-gost34-types
// @Accept json
// @Produce json
// @Param id path string true "Type ID"
// @Param body body renameDocTypeRequest true "New name"
// @Success 200 {object} model.CustomDocType
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/custom-gost34-types/{id} [put]
func RenameDocType(svc service.DocTypeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		var req renameDocTypeRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		t, err := svc.Rename(c.UserContext(), id, req.Name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(t)
	}
}

// DeleteDocType godoc
//
// @Summary Delete an unused custom ГОСТ 34 document type
// @Tags custom-gost34-types
// @Param id path string true "Type ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /api/custom-gost34-types/{id} [delete]
func DeleteDocType(svc service.DocTypeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListCatalog godoc
//
// @Summary List the document types of a standard
// @Tags catalog
// @Produce json
// @Param standard path string true "ЕСПД, ЕСКД, ГОСТ 34 or a latin alias"
// @Success 200 {array} catalog.Entry
// @Failure 400 {object} errorPayload
// @Router /api/catalog/{standard}/doc-types [get]
func ListCatalog(svc service.DocTypeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := url.PathUnescape(c.Params("standard"))
		if err != nil {
			return invalidQuery(c, "unknown standard")
		}
		std, err := model.ParseStandard(raw)
		if err != nil {
			return invalidQuery(c, "unknown standard")
		}
		entries, err := svc.Catalog(c.UserContext(), std)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(entries)
	}
}
