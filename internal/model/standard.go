package model

import (
	"errors"
	"fmt"
	"strings"
)

// Standard is one of the three document-numbering regimes a product belongs to.
type Standard string

const (
	StandardESPD   Standard = "ЕСПД"
	StandardESKD   Standard = "ЕСКД"
	StandardGOST34 Standard = "ГОСТ 34"
)

// Standards lists every supported standard in a stable order.
func Standards() []Standard {
	return []Standard{StandardESPD, StandardESKD, StandardGOST34}
}

var standardAliases = map[string]Standard{
	"ЕСПД":    StandardESPD,
	"ESPD":    StandardESPD,
	"ЕСКД":    StandardESKD,
	"ESKD":    StandardESKD,
	"ГОСТ 34": StandardGOST34,
	"ГОСТ34":  StandardGOST34,
	"GOST34":  StandardGOST34,
	"GOST 34": StandardGOST34,
}

var errUnknownStandard = errors.New("must be one of ЕСПД, ЕСКД, ГОСТ 34")

// ParseStandard accepts the canonical Cyrillic names as well as latin aliases (ESPD, ESKD, GOST34).
func ParseStandard(s string) (Standard, error) {
	if std, ok := standardAliases[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return std, nil
	}
	return "", fmt.Errorf("unknown standard %q: %w", s, errUnknownStandard)
}

// Valid reports whether s is one of the canonical standards.
func (s Standard) Valid() bool {
	switch s {
	case StandardESPD, StandardESKD, StandardGOST34:
		return true
	}
	return false
}

// Validate implements validation.Validatable.
func (s Standard) Validate() error {
	if s == "" || s.Valid() {
		return nil
	}
	return errUnknownStandard
}

func (s Standard) String() string { return string(s) }
