package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"designator/internal/apperr"
	"designator/internal/catalog"
	"designator/internal/model"
	"designator/internal/repository"
)

// CreateDocTypeInput is the request to add a custom ГОСТ 34 document type.
type CreateDocTypeInput struct {
	Code string
	Name string
}

func (in CreateDocTypeInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Code, validation.Required, validation.By(func(v any) error {
			return catalog.ValidateCustomCode(v.(string))
		})),
		validation.Field(&in.Name, nameRules...),
	)
}

var nameRules = []validation.Rule{validation.Required, validation.RuneLength(3, 255)}

// DocTypeService manages custom ГОСТ 34 document types and exposes the merged catalog.
type DocTypeService interface {
	Create(ctx context.Context, in CreateDocTypeInput) (*model.CustomDocType, error)
	List(ctx context.Context) ([]model.CustomDocType, error)
	Get(ctx context.Context, id string) (*model.CustomDocType, error)
	// Rename changes the name; the code is immutable.
	Rename(ctx context.Context, id, name string) (*model.CustomDocType, error)
	// Delete removes a custom type that no document uses.
	Delete(ctx context.Context, id string) error
	// Catalog lists the document types available for std.
	Catalog(ctx context.Context, std model.Standard) ([]catalog.Entry, error)
}

type docTypeService struct {
	types     repository.CustomDocTypeRepository
	documents repository.DocumentRepository
	catalog   *catalog.Catalog
	opts      Options
}

// NewDocTypeService constructs a DocTypeService. cat should be built over the same type repository.
func NewDocTypeService(types repository.CustomDocTypeRepository, documents repository.DocumentRepository, cat *catalog.Catalog, opts Options) DocTypeService {
	return &docTypeService{types: types, documents: documents, catalog: cat, opts: opts.withDefaults()}
}

func (s *docTypeService) Create(ctx context.Context, in CreateDocTypeInput) (*model.CustomDocType, error) {
	ctx, span := tracer.Start(ctx, "DocTypeService.Create")
	defer span.End()

	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	if catalog.IsFixedCode(model.StandardGOST34, in.Code) {
		return nil, s.opts.fail(ctx, span, "create document type",
			apperr.Conflict("code %s is reserved by the %s catalog", in.Code, model.StandardGOST34))
	}
	if err := in.Validate(); err != nil {
		return nil, s.opts.fail(ctx, span, "create document type", validationError(err))
	}

	_, err := s.types.FindByCode(ctx, in.Code)
	switch {
	case err == nil:
		return nil, s.opts.fail(ctx, span, "create document type", apperr.Conflict("code %s already exists", in.Code))
	case !errors.Is(err, sql.ErrNoRows):
		return nil, s.opts.fail(ctx, span, "create document type", err)
	}

	now := time.Now().UTC()
	t, err := s.types.Create(ctx, &model.CustomDocType{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			err = apperr.Conflict("code %s already exists", in.Code)
		}
		return nil, s.opts.fail(ctx, span, "create document type", err)
	}
	s.opts.Logger.Info("custom document type created", "id", t.ID, "code", t.Code)
	return t, nil
}

func (s *docTypeService) List(ctx context.Context) ([]model.CustomDocType, error) {
	ctx, span := tracer.Start(ctx, "DocTypeService.List")
	defer span.End()

	items, err := s.types.List(ctx)
	if err != nil {
		return nil, s.opts.fail(ctx, span, "list document types", err)
	}
	return items, nil
}

func (s *docTypeService) Get(ctx context.Context, id string) (*model.CustomDocType, error) {
	ctx, span := tracer.Start(ctx, "DocTypeService.Get")
	defer span.End()

	t, err := s.types.FindByID(ctx, id)
	if err != nil {
		return nil, s.opts.fail(ctx, span, "get document type", docTypeNotFound(id, err))
	}
	return t, nil
}

func (s *docTypeService) Rename(ctx context.Context, id, name string) (*model.CustomDocType, error) {
	ctx, span := tracer.Start(ctx, "DocTypeService.Rename")
	defer span.End()

	name = strings.TrimSpace(name)
	if err := validation.Validate(name, nameRules...); err != nil {
		return nil, s.opts.fail(ctx, span, "rename document type", apperr.Validation("name: %s", err.Error()))
	}
	t, err := s.types.UpdateName(ctx, id, name)
	if err != nil {
		return nil, s.opts.fail(ctx, span, "rename document type", docTypeNotFound(id, err))
	}
	return t, nil
}

func (s *docTypeService) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "DocTypeService.Delete")
	defer span.End()

	t, err := s.types.FindByID(ctx, id)
	if err != nil {
		return s.opts.fail(ctx, span, "delete document type", docTypeNotFound(id, err))
	}
	used, err := s.documents.CountByDocType(ctx, model.StandardGOST34, t.Code)
	if err != nil {
		return s.opts.fail(ctx, span, "delete document type", err)
	}
	if used > 0 {
		return s.opts.fail(ctx, span, "delete document type",
			apperr.Conflict("code %s is used by %d document(s)", t.Code, used))
	}
	n, err := s.types.Delete(ctx, id)
	if err != nil {
		return s.opts.fail(ctx, span, "delete document type", err)
	}
	if n == 0 {
		return s.opts.fail(ctx, span, "delete document type", apperr.NotFound("document type %s not found", id))
	}
	s.opts.Logger.Info("custom document type deleted", "id", id, "code", t.Code)
	return nil
}

func (s *docTypeService) Catalog(ctx context.Context, std model.Standard) ([]catalog.Entry, error) {
	ctx, span := tracer.Start(ctx, "DocTypeService.Catalog")
	defer span.End()

	if !std.Valid() {
		return nil, s.opts.fail(ctx, span, "list catalog", apperr.Validation("standard: unknown standard %q", std))
	}
	entries, err := s.catalog.List(ctx, std)
	if err != nil {
		return nil, s.opts.fail(ctx, span, "list catalog", err)
	}
	return entries, nil
}

func docTypeNotFound(id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("document type %s not found", id)
	}
	return err
}
