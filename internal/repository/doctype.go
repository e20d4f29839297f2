package repository

import (
	"context"

	"designator/internal/model"
)

// CustomDocTypeRepository stores user-defined ГОСТ 34 document types.
type CustomDocTypeRepository interface {
	Create(ctx context.Context, t *model.CustomDocType) (*model.CustomDocType, error)
	FindByID(ctx context.Context, id string) (*model.CustomDocType, error)
	// FindByCode matches the stored upper-case code exactly.
	FindByCode(ctx context.Context, code string) (*model.CustomDocType, error)
	// List returns every custom type ordered by code.
	List(ctx context.Context) ([]model.CustomDocType, error)
	UpdateName(ctx context.Context, id, name string) (*model.CustomDocType, error)
	Delete(ctx context.Context, id string) (int64, error)
}
