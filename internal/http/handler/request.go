package handler

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"designator/internal/model"
	"designator/internal/service"
)

// registerProductRequest is the body of POST /api/products.
// A sequence number inside scope overrides allocation.
type registerProductRequest struct {
	Name     string          `json:"name" example:"Система учета"`
	Standard string          `json:"standard" example:"ЕСПД"`
	Scope    json.RawMessage `json:"scope" swaggertype:"object"`
	Comment  *string         `json:"comment"`
}

// assignDocumentRequest is the body of POST /api/documents.
type assignDocumentRequest struct {
	ProductID   string          `json:"product_id"`
	Standard    string          `json:"standard" example:"ГОСТ 34"`
	DocTypeCode string          `json:"doc_type_code" example:"ТЗ"`
	CustomName  *string         `json:"custom_name"`
	Details     json.RawMessage `json:"details" swaggertype:"object"`
	Comment     *string         `json:"comment"`
}

// commentRequest distinguishes an absent comment (keep) from null or "" (clear).
type commentRequest struct {
	Comment json.RawMessage `json:"comment" swaggertype:"string"`
}

type externalTaskRequest struct {
	ExternalTaskID string `json:"external_task_id" example:"CRM-1024"`
}

type createDocTypeRequest struct {
	Code string `json:"code" example:"ПЯ"`
	Name string `json:"name" example:"Пояснительная записка к макету"`
}

type renameDocTypeRequest struct {
	Name string `json:"name"`
}

// pathID returns the :id param when it is a UUID.
func pathID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}

func invalidBody(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
}

func invalidQuery(c *fiber.Ctx, msg string) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", msg)
}

// parseListQuery reads page, limit, sort_by and sort_order.
func parseListQuery(c *fiber.Ctx) (service.ListQuery, bool) {
	var q service.ListQuery
	for _, p := range []struct {
		key string
		dst *int
	}{{"page", &q.Page}, {"limit", &q.Limit}} {
		raw := c.Query(p.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return q, false
		}
		*p.dst = n
	}
	q.SortBy = c.Query("sort_by")
	q.SortOrder = c.Query("sort_order")
	return q, true
}

// parseStandardQuery reads the optional standard filter.
func parseStandardQuery(c *fiber.Ctx) (model.Standard, bool) {
	raw := c.Query("standard")
	if raw == "" {
		return "", true
	}
	std, err := model.ParseStandard(raw)
	return std, err == nil
}

// decodeComment reports present=false when the field is missing from the body.
func decodeComment(raw json.RawMessage) (comment *string, present bool, err error) {
	if len(raw) == 0 {
		return nil, false, nil
	}
	if string(raw) == "null" {
		return nil, true, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, true, err
	}
	return &s, true, nil
}
