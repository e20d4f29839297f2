package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"designator/internal/repository"
)

// mapError translates driver constraint errors into repository sentinels and
// passes everything else through.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return &repository.ConstraintError{Err: repository.ErrUniqueViolation, Constraint: pgErr.ConstraintName}
	case pgerrcode.ForeignKeyViolation:
		return &repository.ConstraintError{Err: repository.ErrForeignKeyViolation, Constraint: pgErr.ConstraintName}
	}
	return err
}
