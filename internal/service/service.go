// Package service implements the designation workflows on top of the repositories.
//
// Every method returns either nil or an error built with package apperr, so callers
// can map failures with errors.Is without knowing about storage.
package service

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"designator/internal/apperr"
	"designator/internal/logging"
	"designator/internal/repository"
)

var tracer = otel.Tracer("designator/internal/service")

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	defaultMaxRetries = 5
)

// Options configures the workflows.
type Options struct {
	// ESPDOrgCode prefixes ЕСПД base designations.
	ESPDOrgCode string
	// MaxRetries bounds re-runs after a uniqueness violation.
	MaxRetries int
	Logger     hclog.Logger
	Metrics    *Metrics
}

func (o Options) withDefaults() Options {
	if o.ESPDOrgCode == "" {
		o.ESPDOrgCode = "RU.00000000"
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetries
	}
	if o.Logger == nil {
		o.Logger = hclog.NewNullLogger()
	}
	return o
}

// ListQuery holds the client paging and sorting parameters. Zero values select the defaults.
type ListQuery struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

func (q ListQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Page, validation.Min(0)),
		validation.Field(&q.Limit, validation.Min(0), validation.Max(maxLimit)),
		validation.Field(&q.SortOrder, validation.In("asc", "desc", "ASC", "DESC")),
	)
}

func (q ListQuery) normalize() (repository.PageQuery, repository.SortOrder, error) {
	if err := q.Validate(); err != nil {
		return repository.PageQuery{}, "", validationError(err)
	}
	page, limit := q.Page, q.Limit
	if page <= 0 {
		page = defaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	order := repository.SortDesc
	if strings.EqualFold(q.SortOrder, "asc") {
		order = repository.SortAsc
	}
	return repository.PageQuery{Limit: limit, Offset: (page - 1) * limit}, order, nil
}

// ListResult is a page of items plus the total number of matches.
type ListResult[T any] struct {
	Items []T `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func newListResult[T any](res *repository.PageResult[T], pq repository.PageQuery) *ListResult[T] {
	return &ListResult[T]{
		Items: res.Items,
		Total: res.Total,
		Page:  pq.Offset/pq.Limit + 1,
		Limit: pq.Limit,
	}
}

func validationError(err error) error {
	return apperr.Validation("%s", err.Error())
}

// fail passes business errors through and hides everything else behind an Internal error.
func (o Options) fail(ctx context.Context, span trace.Span, op string, err error) error {
	if apperr.IsBusiness(err) {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, op+" failed")
	o.Logger.Error("operation failed",
		"op", op,
		"error", err,
		"request_id", logging.RequestID(ctx),
		"trace_id", span.SpanContext().TraceID().String())
	return apperr.Internal("%s failed", op)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
