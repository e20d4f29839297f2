package designation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"designator/internal/apperr"
	"designator/internal/model"
)

// Kind tells which table a sequence scope lives in.
type Kind string

const (
	KindProduct  Kind = "product"
	KindDocument Kind = "document"
)

// Scope identifies one independent counter: rows of the same Kind and Standard
// sharing Key compete for the same sequence values.
type Scope struct {
	Kind     Kind
	Standard model.Standard
	Key      string
	Width    int
}

// LockKey is the string serialized on by concurrent allocations in this scope.
func (s Scope) LockKey() string {
	return string(s.Kind) + ":" + string(s.Standard) + ":" + s.Key
}

func (s Scope) String() string {
	return fmt.Sprintf("%s %s [%s]", s.Kind, s.Standard, s.Key)
}

// ForProduct returns the counter scope a product's sequential part is drawn from.
func ForProduct(scope model.ProductScope) Scope {
	switch s := scope.(type) {
	case model.ESPDScope:
		return Scope{Kind: KindProduct, Standard: model.StandardESPD, Key: s.Classifier, Width: model.ESPDSequenceWidth}
	case model.ESKDScope:
		return Scope{Kind: KindProduct, Standard: model.StandardESKD, Key: s.OrgCode + "|" + s.ClassChar, Width: model.ESKDSequenceWidth}
	case model.GOST34Scope:
		return Scope{Kind: KindProduct, Standard: model.StandardGOST34, Key: s.OrgCode + "|" + s.ClassCode, Width: model.GOST34SequenceWidth}
	}
	return Scope{Kind: KindProduct}
}

// ForDocument returns the per-product counter scope of a ГОСТ 34 document type.
func ForDocument(productID, docType string) Scope {
	return Scope{
		Kind:     KindDocument,
		Standard: model.StandardGOST34,
		Key:      productID + "|" + docType,
		Width:    model.DocumentSequenceWidth,
	}
}

// SequenceSource reads the highest sequence already committed in a scope.
// An empty string means the scope has no rows yet.
type SequenceSource interface {
	MaxSequence(ctx context.Context, scope Scope) (string, error)
}

// SequenceExhaustedError reports that a scope has no values left at its width.
type SequenceExhaustedError struct {
	Scope Scope
}

func (e *SequenceExhaustedError) Error() string {
	return fmt.Sprintf("sequence numbers exhausted for %s: all %d-digit values are taken", e.Scope, e.Scope.Width)
}

func (e *SequenceExhaustedError) Unwrap() error { return apperr.ErrConflict }

// Next returns current+1 left-padded to width. A current value that is empty or
// not a decimal number counts as zero. ok is false when the result would need
// more than width digits.
func Next(current string, width int) (next string, ok bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(current), 10, 64)
	if err != nil {
		n = 0
	}
	n++
	s := strconv.FormatUint(n, 10)
	if len(s) > width {
		return "", false
	}
	return strings.Repeat("0", width-len(s)) + s, true
}

// ValidOverride reports whether v is exactly width ASCII digits.
func ValidOverride(v string, width int) bool {
	if len(v) != width {
		return false
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}

// Allocate computes the next unused value of scope from its committed maximum.
func Allocate(ctx context.Context, src SequenceSource, scope Scope) (string, error) {
	current, err := src.MaxSequence(ctx, scope)
	if err != nil {
		return "", fmt.Errorf("read max sequence: %w", err)
	}
	next, ok := Next(current, scope.Width)
	if !ok {
		return "", &SequenceExhaustedError{Scope: scope}
	}
	return next, nil
}

// Obtain returns override when it is set and well-formed, otherwise a freshly allocated value.
// allocated reports which of the two happened.
func Obtain(ctx context.Context, src SequenceSource, scope Scope, override string) (seq string, allocated bool, err error) {
	if override != "" {
		if !ValidOverride(override, scope.Width) {
			return "", false, apperr.Validation("sequence override %q must consist of exactly %d digits", override, scope.Width)
		}
		return override, false, nil
	}
	seq, err = Allocate(ctx, src, scope)
	if err != nil {
		return "", false, err
	}
	return seq, true, nil
}
