package postgres

import (
	"context"
	"database/sql"

	"designator/internal/database"
	"designator/internal/model"
	"designator/internal/repository"
)

// CustomDocTypePostgres is a PostgreSQL implementation of repository.CustomDocTypeRepository.
type CustomDocTypePostgres struct {
	db *sql.DB
}

// NewCustomDocTypePostgres creates a new CustomDocTypePostgres repository.
func NewCustomDocTypePostgres(db *sql.DB) *CustomDocTypePostgres {
	return &CustomDocTypePostgres{db: db}
}

var _ repository.CustomDocTypeRepository = (*CustomDocTypePostgres)(nil)

const docTypeColumns = `id, code, name, created_at, updated_at`

func scanDocType(row scanner) (*model.CustomDocType, error) {
	var t model.CustomDocType
	if err := row.Scan(&t.ID, &t.Code, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *CustomDocTypePostgres) Create(ctx context.Context, t *model.CustomDocType) (*model.CustomDocType, error) {
	const q = `
		INSERT INTO custom_doc_types (id, code, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + docTypeColumns
	out, err := scanDocType(database.Conn(ctx, r.db).QueryRowContext(ctx, q,
		t.ID, t.Code, t.Name, t.CreatedAt, t.UpdatedAt))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *CustomDocTypePostgres) FindByID(ctx context.Context, id string) (*model.CustomDocType, error) {
	const q = `SELECT ` + docTypeColumns + ` FROM custom_doc_types WHERE id = $1`
	return scanDocType(database.Conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

func (r *CustomDocTypePostgres) FindByCode(ctx context.Context, code string) (*model.CustomDocType, error) {
	const q = `SELECT ` + docTypeColumns + ` FROM custom_doc_types WHERE code = $1`
	return scanDocType(database.Conn(ctx, r.db).QueryRowContext(ctx, q, code))
}

func (r *CustomDocTypePostgres) List(ctx context.Context) ([]model.CustomDocType, error) {
	const q = `SELECT ` + docTypeColumns + ` FROM custom_doc_types ORDER BY code ASC`
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.CustomDocType, 0)
	for rows.Next() {
		t, err := scanDocType(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

func (r *CustomDocTypePostgres) UpdateName(ctx context.Context, id, name string) (*model.CustomDocType, error) {
	const q = `UPDATE custom_doc_types SET name = $2, updated_at = now() WHERE id = $1 RETURNING ` + docTypeColumns
	return scanDocType(database.Conn(ctx, r.db).QueryRowContext(ctx, q, id, name))
}

func (r *CustomDocTypePostgres) Delete(ctx context.Context, id string) (int64, error) {
	const q = `DELETE FROM custom_doc_types WHERE id = $1`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
