package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"designator/internal/repository"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))

	plain := errors.New("conn reset")
	assert.Same(t, plain, mapError(plain))

	wrapped := fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505", ConstraintName: "uq_documents_designation"})
	mapped := mapError(wrapped)
	assert.ErrorIs(t, mapped, repository.ErrUniqueViolation)
	assert.Equal(t, "uq_documents_designation", repository.ConstraintName(mapped))
	assert.EqualError(t, mapped, "unique constraint violation: uq_documents_designation")

	name := mapError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_products_name_standard"})
	assert.Equal(t, repository.ConstraintProductNameStandard, repository.ConstraintName(fmt.Errorf("create product: %w", name)))

	fk := &pgconn.PgError{Code: "23503"}
	assert.ErrorIs(t, mapError(fk), repository.ErrForeignKeyViolation)
	assert.Empty(t, repository.ConstraintName(mapError(fk)))
	assert.EqualError(t, mapError(fk), "foreign key violation")

	assert.Empty(t, repository.ConstraintName(plain))

	other := &pgconn.PgError{Code: "40001"}
	assert.Equal(t, error(other), mapError(other))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%50\%%`, likePattern("50%"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
}
