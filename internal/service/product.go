package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"designator/internal/apperr"
	"designator/internal/designation"
	"designator/internal/model"
	"designator/internal/repository"
)

// RegisterProductInput is the request to register a product. A sequence set in Scope is an override.
type RegisterProductInput struct {
	Name     string
	Standard model.Standard
	Scope    model.ProductScope
	Comment  *string
}

func (in RegisterProductInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.RuneLength(1, 255)),
		validation.Field(&in.Standard, validation.Required),
		validation.Field(&in.Scope, validation.Required),
	)
	if err != nil {
		return err
	}
	if in.Scope.Standard() != in.Standard {
		return fmt.Errorf("scope: must describe a %s product", in.Standard)
	}
	return nil
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Standard model.Standard
	Search   string
}

// ProductService defines the product use cases.
type ProductService interface {
	// Register validates the input, allocates or accepts the sequence, formats the
	// base designation and stores the product.
	Register(ctx context.Context, in RegisterProductInput) (*model.Product, error)
	List(ctx context.Context, f ProductFilter, q ListQuery) (*ListResult[model.Product], error)
	Get(ctx context.Context, id string) (*model.Product, error)
	// UpdateComment sets the comment; nil or blank clears it.
	UpdateComment(ctx context.Context, id string, comment *string) (*model.Product, error)
	// AttachExternalTask stores the reference of the task created in the external tracker.
	AttachExternalTask(ctx context.Context, id, taskID string) (*model.Product, error)
	// Delete removes a product that owns no documents.
	Delete(ctx context.Context, id string) error
}

type productService struct {
	products  repository.ProductRepository
	documents repository.DocumentRepository
	tx        repository.Transactor
	opts      Options
}

// NewProductService constructs a ProductService.
func NewProductService(products repository.ProductRepository, documents repository.DocumentRepository, tx repository.Transactor, opts Options) ProductService {
	return &productService{products: products, documents: documents, tx: tx, opts: opts.withDefaults()}
}

func (s *productService) Register(ctx context.Context, in RegisterProductInput) (*model.Product, error) {
	ctx, span := tracer.Start(ctx, "ProductService.Register")
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)
	in.Comment = trimPtr(in.Comment)
	if err := in.Validate(); err != nil {
		return nil, s.opts.fail(ctx, span, "register product", validationError(err))
	}
	span.SetAttributes(attribute.String("designation.standard", string(in.Standard)))

	scope := designation.ForProduct(in.Scope)
	var out *model.Product
	err := s.opts.retry(ctx, designation.KindProduct, func() error {
		return s.tx.InScope(ctx, scope.LockKey(), func(ctx context.Context) error {
			p, err := s.register(ctx, in, scope)
			if err != nil {
				return err
			}
			out = p
			return nil
		})
	})
	if err != nil {
		return nil, s.opts.fail(ctx, span, "register product", err)
	}

	s.opts.Metrics.observeAssigned(designation.KindProduct, out.Standard)
	s.opts.Logger.Info("product registered", "id", out.ID, "standard", out.Standard, "designation", out.BaseDesignation)
	return out, nil
}

func (s *productService) register(ctx context.Context, in RegisterProductInput, scope designation.Scope) (*model.Product, error) {
	taken, err := s.products.ExistsByName(ctx, in.Name, in.Standard)
	if err != nil {
		return nil, fmt.Errorf("check product name: %w", err)
	}
	if taken {
		return nil, apperr.Conflict("product %q is already registered under %s", in.Name, in.Standard)
	}

	seq, allocated, err := designation.Obtain(ctx, s.products, scope, in.Scope.Sequence())
	if err != nil {
		return nil, err
	}
	productScope := in.Scope.WithSequence(seq)
	base := designation.Base(productScope, s.opts.ESPDOrgCode)

	taken, err = s.products.ExistsByBaseDesignation(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("check base designation: %w", err)
	}
	if taken {
		return nil, apperr.Conflict("designation %s is already taken", base)
	}

	now := time.Now().UTC()
	stored, err := s.products.Create(ctx, &model.Product{
		ID:              uuid.New().String(),
		Name:            in.Name,
		Standard:        in.Standard,
		Scope:           productScope,
		BaseDesignation: base,
		Comment:         in.Comment,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) && !allocated {
			if repository.ConstraintName(err) == repository.ConstraintProductNameStandard {
				return nil, apperr.Conflict("product %q is already registered under %s", in.Name, in.Standard)
			}
			return nil, apperr.Conflict("designation %s is already taken", base)
		}
		return nil, err
	}
	return stored, nil
}

func (s *productService) List(ctx context.Context, f ProductFilter, q ListQuery) (*ListResult[model.Product], error) {
	ctx, span := tracer.Start(ctx, "ProductService.List")
	defer span.End()

	pq, order, err := q.normalize()
	if err != nil {
		return nil, s.opts.fail(ctx, span, "list products", err)
	}
	res, err := s.products.List(ctx, repository.ProductFilter{
		Standard:  f.Standard,
		Search:    strings.TrimSpace(f.Search),
		SortBy:    q.SortBy,
		SortOrder: order,
	}, pq)
	if err != nil {
		return nil, s.opts.fail(ctx, span, "list products", err)
	}
	return newListResult(res, pq), nil
}

func (s *productService) Get(ctx context.Context, id string) (*model.Product, error) {
	ctx, span := tracer.Start(ctx, "ProductService.Get")
	defer span.End()

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, s.opts.fail(ctx, span, "get product", productNotFound(id, err))
	}
	return p, nil
}

func (s *productService) UpdateComment(ctx context.Context, id string, comment *string) (*model.Product, error) {
	ctx, span := tracer.Start(ctx, "ProductService.UpdateComment")
	defer span.End()

	p, err := s.products.UpdateComment(ctx, id, trimPtr(comment))
	if err != nil {
		return nil, s.opts.fail(ctx, span, "update product comment", productNotFound(id, err))
	}
	return p, nil
}

func (s *productService) AttachExternalTask(ctx context.Context, id, taskID string) (*model.Product, error) {
	ctx, span := tracer.Start(ctx, "ProductService.AttachExternalTask")
	defer span.End()

	taskID = strings.TrimSpace(taskID)
	if err := validation.Validate(taskID, validation.Required, validation.RuneLength(1, 255)); err != nil {
		return nil, s.opts.fail(ctx, span, "attach external task", apperr.Validation("external_task_id: %s", err.Error()))
	}
	p, err := s.products.UpdateExternalTask(ctx, id, taskID)
	if err != nil {
		return nil, s.opts.fail(ctx, span, "attach external task", productNotFound(id, err))
	}
	s.opts.Logger.Info("external task attached", "id", id, "task_id", taskID)
	return p, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "ProductService.Delete")
	defer span.End()

	n, err := s.documents.CountByProduct(ctx, id)
	if err != nil {
		return s.opts.fail(ctx, span, "delete product", err)
	}
	if n > 0 {
		return s.opts.fail(ctx, span, "delete product", apperr.Conflict("product %s still has %d document(s)", id, n))
	}

	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			err = apperr.Conflict("product %s still has documents", id)
		}
		return s.opts.fail(ctx, span, "delete product", err)
	}
	if deleted == 0 {
		return s.opts.fail(ctx, span, "delete product", apperr.NotFound("product %s not found", id))
	}
	s.opts.Logger.Info("product deleted", "id", id)
	return nil
}

func productNotFound(id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("product %s not found", id)
	}
	return err
}
