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

	"designator/internal/designation"
	"designator/internal/model"
	"designator/internal/repository"
)

var documentCols = []string{"id", "product_id", "product_name_snapshot", "doc_type_code", "doc_type_name", "custom_name",
	"standard", "designation", "details", "comment", "created_at", "updated_at"}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		ID:          "d-1",
		ProductID:   "p-1",
		ProductName: "Система",
		DocTypeCode: "ТЗ",
		DocTypeName: "Техническое задание",
		Standard:    model.StandardGOST34,
		Designation: "ORG.CC.045.ТЗ.01",
		Details:     model.GOST34Details{SequenceNum: "01"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	t.Run("gost34 stores the sequence", func(t *testing.T) {
		rows := sqlmock.NewRows(documentCols).
			AddRow(doc.ID, doc.ProductID, doc.ProductName, doc.DocTypeCode, doc.DocTypeName, nil,
				"ГОСТ 34", doc.Designation, []byte(`{"sequence_num":"01","machine_readable":false}`), nil, now, now)

		mock.ExpectQuery("INSERT INTO documents").
			WithArgs(doc.ID, doc.ProductID, doc.ProductName, doc.DocTypeCode, doc.DocTypeName, nil,
				"ГОСТ 34", doc.Designation, "p-1|ТЗ", "01", sqlmock.AnyArg(), nil, now, now).
			WillReturnRows(rows)

		result, err := repo.Create(ctx, doc)

		assert.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, doc.ID, result.ID)
		assert.Equal(t, model.GOST34Details{SequenceNum: "01"}, result.Details)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("eskd has no sequence", func(t *testing.T) {
		eskd := *doc
		eskd.Standard = model.StandardESKD
		eskd.DocTypeCode = "СБ"
		eskd.Designation = "АБВГ.421411.000001 СБ"
		eskd.Details = model.ESKDDetails{}

		rows := sqlmock.NewRows(documentCols).
			AddRow(eskd.ID, eskd.ProductID, eskd.ProductName, eskd.DocTypeCode, eskd.DocTypeName, nil,
				"ЕСКД", eskd.Designation, []byte(`{}`), nil, now, now)

		mock.ExpectQuery("INSERT INTO documents").
			WithArgs(eskd.ID, eskd.ProductID, eskd.ProductName, eskd.DocTypeCode, eskd.DocTypeName, nil,
				"ЕСКД", eskd.Designation, "p-1|СБ", nil, sqlmock.AnyArg(), nil, now, now).
			WillReturnRows(rows)

		_, err := repo.Create(ctx, &eskd)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("designation taken", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO documents").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_documents_designation"})

		_, err := repo.Create(ctx, doc)

		assert.ErrorIs(t, err, repository.ErrUniqueViolation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(documentCols).
			AddRow("test-id", "p-1", "Программа", "34", "Руководство оператора", nil,
				"ЕСПД", "RU.00000000.01001-01 34 01",
				[]byte(`{"software_type":"ПО","base_doc_revision":"01","doc_number_by_type":"01"}`),
				nil, time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM documents d WHERE d.id = ?").
			WithArgs("test-id").
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, "test-id")

		assert.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "test-id", doc.ID)
		assert.Equal(t, model.ESPDDetails{SoftwareType: "ПО", BaseDocRevision: "01", DocNumberByType: "01"}, doc.Details)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents d WHERE d.id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents d JOIN products p ON p.id = d.product_id WHERE d.product_id = \$1`).
			WithArgs("p-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows(documentCols).
			AddRow("test-id", "p-1", "Изделие", "СБ", "Сборочный чертеж", nil,
				"ЕСКД", "АБВГ.421411.000001 СБ", []byte(`{}`), nil, time.Now(), time.Now())

		mock.ExpectQuery(`SELECT (.+) FROM documents d JOIN products p (.+) ORDER BY p.name DESC NULLS LAST, d.id DESC`).
			WithArgs("p-1", 10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx,
			repository.DocumentFilter{ProductID: "p-1", SortBy: "product_name"},
			repository.PageQuery{Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
		assert.Equal(t, model.ESKDDetails{}, res.Items[0].Details)
	})

	t.Run("search spans the joined product", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) (.+) WHERE d.standard = \$1 AND \((.+) OR p.name ILIKE \$2\)`).
			WithArgs("ГОСТ 34", "%ТЗ%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT (.+) FROM documents d`).
			WithArgs("ГОСТ 34", "%ТЗ%", 5, 5).
			WillReturnRows(sqlmock.NewRows(documentCols))

		res, err := repo.List(ctx,
			repository.DocumentFilter{Standard: model.StandardGOST34, Search: "ТЗ"},
			repository.PageQuery{Limit: 5, Offset: 5})

		assert.NoError(t, err)
		assert.Equal(t, 0, res.Total)
		assert.Empty(t, res.Items)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Counters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT sequence FROM documents").
		WithArgs("ГОСТ 34", "p-1|ТЗ").
		WillReturnRows(sqlmock.NewRows([]string{"sequence"}).AddRow("07"))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM documents WHERE designation = \$1\)`).
		WithArgs("ORG.CC.045.ТЗ.08").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents WHERE product_id = \$1`).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents WHERE standard = \$1 AND doc_type_code = \$2`).
		WithArgs("ГОСТ 34", "ПЯ").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	seq, err := repo.MaxSequence(ctx, designation.ForDocument("p-1", "ТЗ"))
	require.NoError(t, err)
	assert.Equal(t, "07", seq)

	exists, err := repo.ExistsByDesignation(ctx, "ORG.CC.045.ТЗ.08")
	require.NoError(t, err)
	assert.False(t, exists)

	n, err := repo.CountByProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = repo.CountByDocType(ctx, model.StandardGOST34, "ПЯ")
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_UpdateComment(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	comment := "согласовано"

	mock.ExpectQuery("UPDATE documents SET comment").
		WithArgs("d-1", comment).
		WillReturnRows(sqlmock.NewRows(documentCols).
			AddRow("d-1", "p-1", "Изделие", "СБ", "Сборочный чертеж", nil,
				"ЕСКД", "АБВГ.421411.000001 СБ", []byte(`{}`), comment, time.Now(), time.Now()))

	doc, err := repo.UpdateComment(context.Background(), "d-1", &comment)

	require.NoError(t, err)
	require.NotNil(t, doc.Comment)
	assert.Equal(t, comment, *doc.Comment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM documents WHERE id = ?").
		WithArgs("test-id").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM documents WHERE id = ?").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.Delete(ctx, "test-id")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Delete(ctx, "missing")
	assert.NoError(t, err)
	assert.Zero(t, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}
