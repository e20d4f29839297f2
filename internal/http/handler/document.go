package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"designator/internal/apperr"
	"designator/internal/model"
	"designator/internal/service"
)

// AssignDocument godoc
//
// @Summary Assign a designation to a new document of a product
// @Tags documents
// @Accept json
// @Produce json
// @Param body body assignDocumentRequest true "Document"
// @Success 201 {object} model.Document
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /api/documents [post]
func AssignDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req assignDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		std, err := model.ParseStandard(req.Standard)
		if err != nil {
			return writeServiceError(c, apperr.Validation("standard: %s", err.Error()))
		}
		details, err := model.DecodeDocumentDetails(std, req.Details)
		if err != nil {
			return invalidBody(c)
		}

		doc, err := svc.Assign(c.UserContext(), service.AssignDocumentInput{
			ProductID:   req.ProductID,
			Standard:    std,
			DocTypeCode: req.DocTypeCode,
			CustomName:  req.CustomName,
			Details:     details,
			Comment:     req.Comment,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListDocuments godoc
//
// @Summary List documents
// @Tags documents
// @Produce json
// @Param standard query string false "ЕСПД, ЕСКД or ГОСТ 34"
// @Param product_id query string false "Owning product"
// @Param search query string false "Substring of designation, names, comment or product name"
// @Param sort_by query string false "designation, product_name, doc_type_code, doc_type_name, custom_name, standard, comment, created_at"
// @Param sort_order query string false "asc or desc"
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size, 1..100"
// @Success 200 {object} service.ListResult[model.Document]
// @Failure 400 {object} errorPayload
// @Router /api/documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, ok := parseListQuery(c)
		if !ok {
			return invalidQuery(c, "page and limit must be positive integers")
		}
		std, ok := parseStandardQuery(c)
		if !ok {
			return invalidQuery(c, "unknown standard")
		}
		productID := c.Query("product_id")
		if productID != "" {
			if _, err := uuid.Parse(productID); err != nil {
				return invalidQuery(c, "product_id must be a UUID")
			}
		}

		res, err := svc.List(c.UserContext(), service.DocumentFilter{
			Standard:  std,
			ProductID: productID,
			Search:    c.Query("search"),
		}, q)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetDocument godoc
//
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} model.Document
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// UpdateDocumentComment godoc
//
// @Summary Set or clear the comment of a document
// @Description A missing comment field keeps the current value; null or "" clears it.
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param body body commentRequest true "Comment"
// @Success 200 {object} model.Document
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id}/comment [put]
func UpdateDocumentComment(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		var req commentRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		comment, present, err := decodeComment(req.Comment)
		if err != nil {
			return invalidBody(c)
		}

		var doc *model.Document
		if present {
			doc, err = svc.UpdateComment(c.UserContext(), id, comment)
		} else {
			doc, err = svc.Get(c.UserContext(), id)
		}
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument godoc
//
// @Summary Delete a document
// @Tags documents
// @Param id path string true "Document ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
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
