package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"designator/internal/apperr"
	"designator/internal/designation"
	"designator/internal/model"
	"designator/internal/repository"
)

// DocTypeResolver returns the display name of a document type code.
type DocTypeResolver interface {
	Resolve(ctx context.Context, std model.Standard, code string) (string, error)
}

// AssignDocumentInput is the request to assign a designation to a document of a product.
// Details may be nil for ЕСКД and ГОСТ 34. A ГОСТ 34 sequence number set in Details is an override.
type AssignDocumentInput struct {
	ProductID   string
	Standard    model.Standard
	DocTypeCode string
	CustomName  *string
	Details     model.DocumentDetails
	Comment     *string
}

func (in AssignDocumentInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.ProductID, validation.Required, is.UUID),
		validation.Field(&in.Standard, validation.Required),
		validation.Field(&in.DocTypeCode, validation.Required, validation.RuneLength(1, 10)),
		validation.Field(&in.CustomName, validation.RuneLength(0, 255)),
		validation.Field(&in.Details, validation.When(in.Standard == model.StandardESPD, validation.Required)),
	)
	if err != nil {
		return err
	}
	if in.Details != nil && in.Details.Standard() != in.Standard {
		return fmt.Errorf("details: must describe a %s document", in.Standard)
	}
	return nil
}

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	Standard  model.Standard
	ProductID string
	Search    string
}

// DocumentService defines the use cases for documents.
type DocumentService interface {
	// Assign computes the full designation of a new document and stores it with a
	// snapshot of the product name.
	Assign(ctx context.Context, in AssignDocumentInput) (*model.Document, error)

	// List returns documents using page/limit and a total count.
	List(ctx context.Context, f DocumentFilter, q ListQuery) (*ListResult[model.Document], error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// UpdateComment sets the comment; nil or blank clears it.
	UpdateComment(ctx context.Context, id string, comment *string) (*model.Document, error)

	// Delete removes a document by ID.
	Delete(ctx context.Context, id string) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	products  repository.ProductRepository
	documents repository.DocumentRepository
	types     DocTypeResolver
	tx        repository.Transactor
	opts      Options
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(
	products repository.ProductRepository,
	documents repository.DocumentRepository,
	types DocTypeResolver,
	tx repository.Transactor,
	opts Options,
) DocumentService {
	return &documentService{products: products, documents: documents, types: types, tx: tx, opts: opts.withDefaults()}
}

func (s *documentService) Assign(ctx context.Context, in AssignDocumentInput) (*model.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Assign")
	defer span.End()

	in.DocTypeCode = strings.ToUpper(strings.TrimSpace(in.DocTypeCode))
	in.CustomName = trimPtr(in.CustomName)
	in.Comment = trimPtr(in.Comment)
	if in.Details == nil {
		switch in.Standard {
		case model.StandardESKD:
			in.Details = model.ESKDDetails{}
		case model.StandardGOST34:
			in.Details = model.GOST34Details{}
		}
	}
	if err := in.Validate(); err != nil {
		return nil, s.opts.fail(ctx, span, "assign document", validationError(err))
	}
	span.SetAttributes(
		attribute.String("designation.standard", string(in.Standard)),
		attribute.String("designation.doc_type", in.DocTypeCode),
	)

	var out *model.Document
	err := s.opts.retry(ctx, designation.KindDocument, func() error {
		return s.tx.InScope(ctx, documentLockKey(in), func(ctx context.Context) error {
			d, err := s.assign(ctx, in)
			if err != nil {
				return err
			}
			out = d
			return nil
		})
	})
	if err != nil {
		return nil, s.opts.fail(ctx, span, "assign document", err)
	}

	s.opts.Metrics.observeAssigned(designation.KindDocument, out.Standard)
	s.opts.Logger.Info("document designation assigned", "id", out.ID, "product_id", out.ProductID, "designation", out.Designation)
	return out, nil
}

// documentLockKey serializes assignments of one type within one product.
func documentLockKey(in AssignDocumentInput) string {
	if in.Standard == model.StandardGOST34 {
		return designation.ForDocument(in.ProductID, in.DocTypeCode).LockKey()
	}
	return designation.Scope{
		Kind:     designation.KindDocument,
		Standard: in.Standard,
		Key:      in.ProductID + "|" + in.DocTypeCode,
	}.LockKey()
}

func (s *documentService) assign(ctx context.Context, in AssignDocumentInput) (*model.Document, error) {
	product, err := s.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return nil, productNotFound(in.ProductID, err)
	}
	if product.Standard != in.Standard {
		return nil, apperr.Validation("product %s belongs to %s, not %s", product.ID, product.Standard, in.Standard)
	}

	typeName, err := s.types.Resolve(ctx, in.Standard, in.DocTypeCode)
	if err != nil {
		return nil, fmt.Errorf("resolve document type: %w", err)
	}

	details := in.Details
	allocated := false
	if in.Standard == model.StandardGOST34 {
		var seq string
		seq, allocated, err = designation.Obtain(ctx, s.documents,
			designation.ForDocument(product.ID, in.DocTypeCode), details.Sequence())
		if err != nil {
			return nil, err
		}
		details = details.WithSequence(seq)
	}

	full := designation.Full(product.BaseDesignation, in.DocTypeCode, details)
	taken, err := s.documents.ExistsByDesignation(ctx, full)
	if err != nil {
		return nil, fmt.Errorf("check designation: %w", err)
	}
	if taken {
		return nil, apperr.Conflict("designation %s is already taken", full)
	}

	now := time.Now().UTC()
	stored, err := s.documents.Create(ctx, &model.Document{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		ProductName: product.Name,
		DocTypeCode: in.DocTypeCode,
		DocTypeName: typeName,
		CustomName:  in.CustomName,
		Standard:    in.Standard,
		Designation: full,
		Details:     details,
		Comment:     in.Comment,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) && in.Standard == model.StandardGOST34 && !allocated {
			return nil, apperr.Conflict("designation %s is already taken", full)
		}
		return nil, err
	}
	return stored, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, f DocumentFilter, q ListQuery) (*ListResult[model.Document], error) {
	ctx, span := tracer.Start(ctx, "DocumentService.List")
	defer span.End()

	pq, order, err := q.normalize()
	if err != nil {
		return nil, s.opts.fail(ctx, span, "list documents", err)
	}
	res, err := s.documents.List(ctx, repository.DocumentFilter{
		Standard:  f.Standard,
		ProductID: f.ProductID,
		Search:    strings.TrimSpace(f.Search),
		SortBy:    q.SortBy,
		SortOrder: order,
	}, pq)
	if err != nil {
		return nil, s.opts.fail(ctx, span, "list documents", err)
	}
	return newListResult(res, pq), nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Get")
	defer span.End()

	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, s.opts.fail(ctx, span, "get document", documentNotFound(id, err))
	}
	return doc, nil
}

func (s *documentService) UpdateComment(ctx context.Context, id string, comment *string) (*model.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.UpdateComment")
	defer span.End()

	doc, err := s.documents.UpdateComment(ctx, id, trimPtr(comment))
	if err != nil {
		return nil, s.opts.fail(ctx, span, "update document comment", documentNotFound(id, err))
	}
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "DocumentService.Delete")
	defer span.End()

	n, err := s.documents.Delete(ctx, id)
	if err != nil {
		return s.opts.fail(ctx, span, "delete document", err)
	}
	if n == 0 {
		return s.opts.fail(ctx, span, "delete document", apperr.NotFound("document %s not found", id))
	}
	s.opts.Logger.Info("document deleted", "id", id)
	return nil
}

func documentNotFound(id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("document %s not found", id)
	}
	return err
}
