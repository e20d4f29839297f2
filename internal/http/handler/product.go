package handler

import (
	"github.com/gofiber/fiber/v2"

	"designator/internal/apperr"
	"designator/internal/model"
	"designator/internal/service"
)

// RegisterProduct godoc
//
// @Summary Register a product and assign its base designation
// @Tags products
// @Accept json
// @Produce json
// @Param body body registerProductRequest true "Product"
// @Success 201 {object} model.Product
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /api/products [post]
func RegisterProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerProductRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		std, err := model.ParseStandard(req.Standard)
		if err != nil {
			return writeServiceError(c, apperr.Validation("standard: %s", err.Error()))
		}
		scope, err := model.DecodeProductScope(std, req.Scope)
		if err != nil {
			return invalidBody(c)
		}

		p, err := svc.Register(c.UserContext(), service.RegisterProductInput{
			Name:     req.Name,
			Standard: std,
			Scope:    scope,
			Comment:  req.Comment,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// ListProducts godoc
//
// @Summary List products
// @Tags products
// @Produce json
// @Param standard query string false "ЕСПД, ЕСКД or ГОСТ 34"
// @Param search query string false "Substring of name, comment or designation"
// @Param sort_by query string false "name, standard, base_designation, comment, created_at, updated_at"
// @Param sort_order query string false "asc or desc"
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size, 1..100"
// @Success 200 {object} service.ListResult[model.Product]
// @Failure 400 {object} errorPayload
// @Router /api/products [get]
func ListProducts(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, ok := parseListQuery(c)
		if !ok {
			return invalidQuery(c, "page and limit must be positive integers")
		}
		std, ok := parseStandardQuery(c)
		if !ok {
			return invalidQuery(c, "unknown standard")
		}

		res, err := svc.List(c.UserContext(), service.ProductFilter{Standard: std, Search: c.Query("search")}, q)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetProduct godoc
//
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} model.Product
// @Failure 404 {object} errorPayload
// @Router /api/products/{id} [get]
func GetProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// UpdateProductComment godoc
//
// @Summary Set or clear the comment of a product
// @Description A missing comment field keeps the current value; null or "" clears it.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param body body commentRequest true "Comment"
// @Success 200 {object} model.Product
// @Failure 404 {object} errorPayload
// @Router /api/products/{id}/comment [put]
func UpdateProductComment(svc service.ProductService) fiber.Handler {
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

		var p *model.Product
		if present {
			p, err = svc.UpdateComment(c.UserContext(), id, comment)
		} else {
			p, err = svc.Get(c.UserContext(), id)
		}
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// AttachExternalTask godoc
//
// @Summary Store the external tracker task of a product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param body body externalTaskRequest true "Task reference"
// @Success 200 {object} model.Product
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/products/{id}/external-task [put]
func AttachExternalTask(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		var req externalTaskRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		p, err := svc.AttachExternalTask(c.UserContext(), id, req.ExternalTaskID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// DeleteProduct godoc
//
// @Summary Delete a product without documents
// @Tags products
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /api/products/{id} [delete]
func DeleteProduct(svc service.ProductService) fiber.Handler {
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
