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

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `d.id, d.product_id, d.product_name_snapshot, d.doc_type_code, d.doc_type_name, d.custom_name,
	d.standard, d.designation, d.details, d.comment, d.created_at, d.updated_at`

var documentSortColumns = map[string]string{
	"designation":           "d.designation",
	"product_name_snapshot": "d.product_name_snapshot",
	"product_name":          "p.name",
	"doc_type_code":         "d.doc_type_code",
	"doc_type_name":         "d.doc_type_name",
	"custom_name":           "d.custom_name",
	"standard":              "d.standard",
	"comment":               "d.comment",
	"created_at":            "d.created_at",
}

func scanDocument(row scanner) (*model.Document, error) {
	var (
		d       model.Document
		details []byte
	)
	if err := row.Scan(
		&d.ID,
		&d.ProductID,
		&d.ProductName,
		&d.DocTypeCode,
		&d.DocTypeName,
		&d.CustomName,
		&d.Standard,
		&d.Designation,
		&details,
		&d.Comment,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	det, err := model.DecodeDocumentDetails(d.Standard, details)
	if err != nil {
		return nil, fmt.Errorf("decode details of document %s: %w", d.ID, err)
	}
	d.Details = det
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	details := []byte("{}")
	seq := ""
	if doc.Details != nil {
		b, err := json.Marshal(doc.Details)
		if err != nil {
			return nil, fmt.Errorf("encode details: %w", err)
		}
		details = b
		seq = doc.Details.Sequence()
	}

	const q = `
		WITH d AS (
			INSERT INTO documents (id, product_id, product_name_snapshot, doc_type_code, doc_type_name, custom_name,
				standard, designation, scope_key, sequence, details, comment, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING *
		)
		SELECT ` + documentColumns + ` FROM d`
	row := database.Conn(ctx, r.db).QueryRowContext(ctx, q,
		doc.ID,
		doc.ProductID,
		doc.ProductName,
		doc.DocTypeCode,
		doc.DocTypeName,
		doc.CustomName,
		doc.Standard,
		doc.Designation,
		designation.ForDocument(doc.ProductID, doc.DocTypeCode).Key,
		nullable(seq),
		details,
		doc.Comment,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	out, err := scanDocument(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents d WHERE d.id = $1`
	return scanDocument(database.Conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	var w where
	if f.Standard != "" {
		w.and("d.standard = " + w.arg(f.Standard))
	}
	if f.ProductID != "" {
		w.and("d.product_id = " + w.arg(f.ProductID))
	}
	if f.Search != "" {
		p := w.arg(likePattern(f.Search))
		w.and("(d.designation ILIKE " + p +
			" OR d.custom_name ILIKE " + p +
			" OR d.doc_type_name ILIKE " + p +
			" OR d.comment ILIKE " + p +
			" OR p.name ILIKE " + p + ")")
	}

	const from = ` FROM documents d JOIN products p ON p.id = d.product_id`
	conn := database.Conn(ctx, r.db)

	var total int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*)`+from+w.String(), w.args...).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + documentColumns + from + w.String() +
		orderBy(documentSortColumns, f.SortBy, f.SortOrder, "d.created_at", "d.id") +
		` LIMIT ` + w.arg(pq.Limit) + ` OFFSET ` + w.arg(pq.Offset)
	rows, err := conn.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

func (r *DocumentPostgres) MaxSequence(ctx context.Context, scope designation.Scope) (string, error) {
	const q = `
		SELECT sequence FROM documents
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

func (r *DocumentPostgres) ExistsByDesignation(ctx context.Context, designation string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM documents WHERE designation = $1)`
	var ok bool
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, q, designation).Scan(&ok)
	return ok, err
}

func (r *DocumentPostgres) CountByProduct(ctx context.Context, productID string) (int, error) {
	const q = `SELECT COUNT(*) FROM documents WHERE product_id = $1`
	var n int
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, q, productID).Scan(&n)
	return n, err
}

func (r *DocumentPostgres) CountByDocType(ctx context.Context, std model.Standard, code string) (int, error) {
	const q = `SELECT COUNT(*) FROM documents WHERE standard = $1 AND doc_type_code = $2`
	var n int
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, q, std, code).Scan(&n)
	return n, err
}

func (r *DocumentPostgres) UpdateComment(ctx context.Context, id string, comment *string) (*model.Document, error) {
	const q = `
		WITH d AS (
			UPDATE documents SET comment = $2, updated_at = now() WHERE id = $1 RETURNING *
		)
		SELECT ` + documentColumns + ` FROM d`
	return scanDocument(database.Conn(ctx, r.db).QueryRowContext(ctx, q, id, comment))
}

// Delete removes a document by ID and reports how many rows were deleted.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) (int64, error) {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q, id)
	if err != nil {
		return 0, mapError(err)
	}
	return res.RowsAffected()
}
