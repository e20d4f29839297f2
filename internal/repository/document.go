package repository

import (
	"context"

	"designator/internal/designation"
	"designator/internal/model"
)

// DocumentFilter narrows document listings. Zero values mean "no filter".
type DocumentFilter struct {
	Standard  model.Standard
	ProductID string
	// Search matches designation, custom name, type name, comment and the current product name.
	Search    string
	SortBy    string
	SortOrder SortOrder
}

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here, strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record. It returns ErrUniqueViolation when the
	// designation is already taken. Documents may share a sequence.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a paginated list of documents and total rows count for the given filter.
	List(ctx context.Context, f DocumentFilter, pq PageQuery) (*PageResult[model.Document], error)

	MaxSequence(ctx context.Context, scope designation.Scope) (string, error)
	ExistsByDesignation(ctx context.Context, designation string) (bool, error)

	// CountByProduct counts the documents owned by a product.
	CountByProduct(ctx context.Context, productID string) (int, error)
	// CountByDocType counts the documents of std using code.
	CountByDocType(ctx context.Context, std model.Standard, code string) (int, error)

	UpdateComment(ctx context.Context, id string, comment *string) (*model.Document, error)

	// Delete removes a document by ID and reports the number of deleted rows.
	Delete(ctx context.Context, id string) (int64, error)
}
