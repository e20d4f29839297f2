package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"designator/internal/model"
	"designator/internal/repository"
)

var docTypeCols = []string{"id", "code", "name", "created_at", "updated_at"}

func TestCustomDocTypePostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCustomDocTypePostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("create", func(t *testing.T) {
		in := &model.CustomDocType{ID: "t-1", Code: "ПЯ", Name: "Пояснения", CreatedAt: now, UpdatedAt: now}
		mock.ExpectQuery("INSERT INTO custom_doc_types").
			WithArgs("t-1", "ПЯ", "Пояснения", now, now).
			WillReturnRows(sqlmock.NewRows(docTypeCols).AddRow("t-1", "ПЯ", "Пояснения", now, now))

		out, err := repo.Create(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "ПЯ", out.Code)
	})

	t.Run("create duplicate", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO custom_doc_types").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_custom_doc_types_code"})

		_, err := repo.Create(ctx, &model.CustomDocType{ID: "t-2", Code: "ПЯ", Name: "Дубль"})
		assert.ErrorIs(t, err, repository.ErrUniqueViolation)
	})

	t.Run("find by code", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM custom_doc_types WHERE code = ").
			WithArgs("ПЯ").
			WillReturnRows(sqlmock.NewRows(docTypeCols).AddRow("t-1", "ПЯ", "Пояснения", now, now))
		mock.ExpectQuery("SELECT (.+) FROM custom_doc_types WHERE code = ").
			WithArgs("ЩЩ").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.FindByCode(ctx, "ПЯ")
		require.NoError(t, err)
		assert.Equal(t, "t-1", got.ID)

		_, err = repo.FindByCode(ctx, "ЩЩ")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("list ordered by code", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM custom_doc_types ORDER BY code ASC").
			WillReturnRows(sqlmock.NewRows(docTypeCols).
				AddRow("t-2", "В5", "Ведомость", now, now).
				AddRow("t-1", "ПЯ", "Пояснения", now, now))

		items, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "В5", items[0].Code)
	})

	t.Run("rename and delete", func(t *testing.T) {
		mock.ExpectQuery("UPDATE custom_doc_types SET name").
			WithArgs("t-1", "Новое имя").
			WillReturnRows(sqlmock.NewRows(docTypeCols).AddRow("t-1", "ПЯ", "Новое имя", now, now))
		mock.ExpectExec("DELETE FROM custom_doc_types WHERE id = ").
			WithArgs("t-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		got, err := repo.UpdateName(ctx, "t-1", "Новое имя")
		require.NoError(t, err)
		assert.Equal(t, "Новое имя", got.Name)

		n, err := repo.Delete(ctx, "t-1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
