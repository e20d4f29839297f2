package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"designator/internal/database"
	"designator/internal/designation"
	"designator/internal/model"
	"designator/internal/repository"
)

// ProductPostgres is a PostgreSQL implementation of repository.ProductRepository.
type ProductPostgres struct {
	db *sql.DB
}

// NewProductPostgres creates a new ProductPostgres repository.
func NewProductPostgres(db *sql.DB) *ProductPostgres {
	return &ProductPostgres{db: db}
}

var _ repository.ProductRepository = (*ProductPostgres)(nil)

const productColumns = `id, name, standard, scope, base_designation, comment, external_task_id, created_at, updated_at`

var productSortColumns = map[string]string{
	"name":             "name",
	"standard":         "standard",
	"base_designation": "base_designation",
	"comment":          "comment",
	"created_at":       "created_at",
	"updated_at":       "updated_at",
}

func scanProduct(row scanner) (*model.Product, error) {
	var (
		p     model.Product
		scope []byte
	)
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Standard,
		&scope,
		&p.BaseDesignation,
		&p.Comment,
		&p.ExternalTaskID,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s, err := model.DecodeProductScope(p.Standard, scope)
	if err != nil {
		return nil, fmt.Errorf("decode scope of product %s: %w", p.ID, err)
	}
	p.Scope = s
	return &p, nil
}

// Create inserts a new product row and returns the stored record.
func (r *ProductPostgres) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	scope, err := json.Marshal(p.Scope)
	if err != nil {
		return nil, fmt.Errorf("encode scope: %w", err)
	}
	const q = `
		INSERT INTO products (id, name, standard, scope, scope_key, sequence, base_designation, comment, external_task_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + productColumns
	row := database.Conn(ctx, r.db).QueryRowContext(ctx, q,
		p.ID,
		p.Name,
		p.Standard,
		scope,
		designation.ForProduct(p.Scope).Key,
		p.Scope.Sequence(),
		p.BaseDesignation,
		p.Comment,
		p.ExternalTaskID,
		p.CreatedAt,
		p.UpdatedAt,
	)
	out, err := scanProduct(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByID fetches a single product by its ID.
func (r *ProductPostgres) FindByID(ctx context.Context, id string) (*model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(database.Conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

func (r *ProductPostgres) ExistsByName(ctx context.Context, name string, std model.Standard) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM products WHERE name = $1 AND standard = $2)`
	var ok bool
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, q, name, std).Scan(&ok)
	return ok, err
}

func (r *ProductPostgres) ExistsByBaseDesignation(ctx context.Context, base string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM products WHERE base_designation = $1)`
	var ok bool
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, q, base).Scan(&ok)
	return ok, err
}

// List returns products using LIMIT/OFFSET pagination and a total count.
func (r *ProductPostgres) List(ctx context.Context, f repository.ProductFilter, pq repository.PageQuery) (*repository.PageResult[model.Product], error) {
	var w where
	if f.Standard != "" {
		w.and("standard = " + w.arg(f.Standard))
	}
	if f.Search != "" {
		p := w.arg(likePattern(f.Search))
		w.and("(name ILIKE " + p + " OR comment ILIKE " + p + " OR base_designation ILIKE " + p + ")")
	}

	conn := database.Conn(ctx, r.db)

	var total int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + productColumns + ` FROM products` + w.String() +
		orderBy(productSortColumns, f.SortBy, f.SortOrder, "created_at", "id") +
		` LIMIT ` + w.arg(pq.Limit) + ` OFFSET ` + w.arg(pq.Offset)
	rows, err := conn.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Product]{
		Items: items,
		Total: total,
	}, nil
}

// MaxSequence returns the highest numeric sequence of the scope. Longer values
// sort first so that a 3-digit column never compares "99" above "100".
func (r *ProductPostgres) MaxSequence(ctx context.Context, scope designation.Scope) (string, error) {
	const q = `
		SELECT sequence FROM products
		WHERE standard = $1 AND scope_key = $2 AND sequence ~ '^[0-9]+$'
		ORDER BY length(sequence) DESC, sequence DESC
		LIMIT 1
	`
	var seq string
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, q, scope.Standard, scope.Key).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return seq, err
}

func (r *ProductPostgres) UpdateComment(ctx context.Context, id string, comment *string) (*model.Product, error) {
	const q = `UPDATE products SET comment = $2, updated_at = now() WHERE id = $1 RETURNING ` + productColumns
	return scanProduct(database.Conn(ctx, r.db).QueryRowContext(ctx, q, id, comment))
}

func (r *ProductPostgres) UpdateExternalTask(ctx context.Context, id, taskID string) (*model.Product, error) {
	const q = `UPDATE products SET external_task_id = $2, updated_at = now() WHERE id = $1 RETURNING ` + productColumns
	return scanProduct(database.Conn(ctx, r.db).QueryRowContext(ctx, q, id, taskID))
}

// Delete removes a product by ID and reports how many rows were deleted.
func (r *ProductPostgres) Delete(ctx context.Context, id string) (int64, error) {
	const q = `DELETE FROM products WHERE id = $1`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q, id)
	if err != nil {
		return 0, mapError(err)
	}
	return res.RowsAffected()
}
