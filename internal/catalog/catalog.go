// Package catalog resolves document type codes to display names.
//
// ЕСПД and ЕСКД codes come from compiled-in tables. ГОСТ 34 codes are looked up
// in the user-managed custom store first and fall back to the compiled-in table.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"designator/internal/model"
)

// CustomTypeStore is the read side of the custom ГОСТ 34 type store.
// FindByCode returns sql.ErrNoRows when the code is unknown.
type CustomTypeStore interface {
	FindByCode(ctx context.Context, code string) (*model.CustomDocType, error)
	List(ctx context.Context) ([]model.CustomDocType, error)
}

// Resolver looks a code up in one source. ok is false when the source does not know the code.
type Resolver interface {
	Resolve(ctx context.Context, code string) (name string, ok bool, err error)
}

type staticResolver struct {
	entries []Entry
}

func (r staticResolver) Resolve(_ context.Context, code string) (string, bool, error) {
	for _, e := range r.entries {
		if e.Code == code {
			return displayName(e.Name), true, nil
		}
	}
	return "", false, nil
}

type customResolver struct {
	store CustomTypeStore
}

func (r customResolver) Resolve(ctx context.Context, code string) (string, bool, error) {
	t, err := r.store.FindByCode(ctx, strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("find custom type %q: %w", code, err)
	}
	return t.Name, true, nil
}

// Catalog chains resolvers per standard.
type Catalog struct {
	custom CustomTypeStore
	chains map[model.Standard][]Resolver
}

// New builds a catalog. A nil store disables custom ГОСТ 34 types.
func New(custom CustomTypeStore) *Catalog {
	gost34 := []Resolver{staticResolver{entries: gost34Types}}
	if custom != nil {
		gost34 = append([]Resolver{customResolver{store: custom}}, gost34...)
	}
	return &Catalog{
		custom: custom,
		chains: map[model.Standard][]Resolver{
			model.StandardESPD:   {staticResolver{entries: espdTypes}},
			model.StandardESKD:   {staticResolver{entries: eskdTypes}},
			model.StandardGOST34: gost34,
		},
	}
}

// Resolve returns the display name of code. The first resolver that knows the
// code wins; an unknown code resolves to itself.
func (c *Catalog) Resolve(ctx context.Context, std model.Standard, code string) (string, error) {
	for _, r := range c.chains[std] {
		name, ok, err := r.Resolve(ctx, code)
		if err != nil {
			return "", err
		}
		if ok {
			return name, nil
		}
	}
	return code, nil
}

// Entries lists the compiled-in types of std with display names.
func Entries(std model.Standard) []Entry {
	src := fixed[std]
	out := make([]Entry, 0, len(src))
	for _, e := range src {
		out = append(out, Entry{Code: e.Code, Name: displayName(e.Name)})
	}
	return out
}

// List returns the compiled-in types of std; for ГОСТ 34 custom types are merged in, ordered by code.
func (c *Catalog) List(ctx context.Context, std model.Standard) ([]Entry, error) {
	out := Entries(std)
	if std != model.StandardGOST34 || c.custom == nil {
		return out, nil
	}
	custom, err := c.custom.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list custom types: %w", err)
	}
	for _, t := range custom {
		out = append(out, Entry{Code: t.Code, Name: t.Name, Custom: true})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// IsFixedCode reports whether code (case-insensitive) is a compiled-in type of std.
func IsFixedCode(std model.Standard, code string) bool {
	for _, e := range fixed[std] {
		if strings.EqualFold(e.Code, code) {
			return true
		}
	}
	return false
}

var (
	errCodeLength = errors.New("must consist of exactly 2 characters")
	errCodeFirst  = fmt.Errorf("must start with one of %s", strings.Join(strings.Split(customFirstLetters, ""), ", "))
	errCodeSecond = fmt.Errorf("must end with a digit or one of %s", customSecondLetters)
)

// ValidateCustomCode checks the shape of a custom ГОСТ 34 code. code must already be upper-cased.
func ValidateCustomCode(code string) error {
	if utf8.RuneCountInString(code) != 2 {
		return errCodeLength
	}
	first, size := utf8.DecodeRuneInString(code)
	second, _ := utf8.DecodeRuneInString(code[size:])
	if !strings.ContainsRune(customFirstLetters, first) {
		return errCodeFirst
	}
	if (second < '0' || second > '9') && !strings.ContainsRune(customSecondLetters, second) {
		return errCodeSecond
	}
	return nil
}

// displayName strips a "CODE - " prefix.
func displayName(name string) string {
	if i := strings.Index(name, " - "); i >= 0 {
		return name[i+3:]
	}
	return name
}
