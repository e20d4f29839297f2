package repository

import (
	"context"

	"designator/internal/designation"
	"designator/internal/model"
)

// ProductFilter narrows product listings. Zero values mean "no filter".
type ProductFilter struct {
	Standard model.Standard
	// Search matches name, comment and base designation case-insensitively.
	Search    string
	SortBy    string
	SortOrder SortOrder
}

// ProductRepository defines data access for products.
type ProductRepository interface {
	// Create inserts a product. It returns ErrUniqueViolation when a unique constraint fires.
	Create(ctx context.Context, p *model.Product) (*model.Product, error)

	// FindByID returns sql.ErrNoRows when the product does not exist.
	FindByID(ctx context.Context, id string) (*model.Product, error)

	ExistsByName(ctx context.Context, name string, std model.Standard) (bool, error)
	ExistsByBaseDesignation(ctx context.Context, base string) (bool, error)

	List(ctx context.Context, f ProductFilter, pq PageQuery) (*PageResult[model.Product], error)

	// MaxSequence returns the highest numeric sequence committed in scope, or "" when there is none.
	MaxSequence(ctx context.Context, scope designation.Scope) (string, error)

	// UpdateComment sets or clears the comment. It returns sql.ErrNoRows when the product does not exist.
	UpdateComment(ctx context.Context, id string, comment *string) (*model.Product, error)
	UpdateExternalTask(ctx context.Context, id, taskID string) (*model.Product, error)

	// Delete removes a product and reports the number of deleted rows.
	// It returns ErrForeignKeyViolation while documents still reference the product.
	Delete(ctx context.Context, id string) (int64, error)
}
