// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres) inside this directory.
package repository

import (
	"context"
	"errors"
)

var (
	// ErrUniqueViolation is returned when a write collides with a unique constraint.
	ErrUniqueViolation = errors.New("unique constraint violation")
	// ErrForeignKeyViolation is returned when a write breaks a foreign key.
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

// Constraint names the services tell apart.
const (
	ConstraintProductNameStandard = "uq_products_name_standard"
)

// ConstraintError is a constraint violation together with the constraint that fired.
// It unwraps to ErrUniqueViolation or ErrForeignKeyViolation.
type ConstraintError struct {
	Err        error
	Constraint string
}

func (e *ConstraintError) Error() string {
	if e.Constraint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Constraint
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// ConstraintName returns the violated constraint carried by err, or "".
func ConstraintName(err error) string {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce.Constraint
	}
	return ""
}

// Transactor runs fn in one transaction serialized on key. Repositories called
// with the context passed to fn take part in that transaction.
type Transactor interface {
	InScope(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// SortOrder is ASC or DESC.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)
