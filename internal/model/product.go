package model

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Widths of the product-level sequence numbers.
const (
	ESPDSequenceWidth   = 3
	ESKDSequenceWidth   = 6
	GOST34SequenceWidth = 3
)

var (
	reTwoDigits   = regexp.MustCompile(`^\d{2}$`)
	reThreeDigits = regexp.MustCompile(`^\d{3}$`)
	reSixDigits   = regexp.MustCompile(`^\d{6}$`)
)

// Product is a registered product or system with its generated base designation.
// Scope holds exactly one standard-specific variant matching Standard.
type Product struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Standard        Standard     `json:"standard"`
	Scope           ProductScope `json:"scope"`
	BaseDesignation string       `json:"base_designation"`
	Comment         *string      `json:"comment"`
	ExternalTaskID  *string      `json:"external_task_id"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// UnmarshalJSON decodes Scope according to Standard.
func (p *Product) UnmarshalJSON(data []byte) error {
	type alias Product
	aux := struct {
		*alias
		Scope json.RawMessage `json:"scope"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.Standard == "" {
		return nil
	}
	scope, err := DecodeProductScope(p.Standard, aux.Scope)
	if err != nil {
		return err
	}
	p.Scope = scope
	return nil
}

// ProductScope is the standard-specific part of a product: the fields bounding its
// sequence counter plus the sequence value itself. On input the sequence is an optional override.
type ProductScope interface {
	Standard() Standard
	Sequence() string
	WithSequence(seq string) ProductScope
	Validate() error
	isProductScope()
}

// ESPDScope is the ЕСПД variant. The sequential part is scoped by the classifier.
type ESPDScope struct {
	Classifier     string `json:"classifier"`
	SequentialPart string `json:"sequential_part,omitempty"`
}

func (ESPDScope) Standard() Standard { return StandardESPD }
func (s ESPDScope) Sequence() string { return s.SequentialPart }
func (ESPDScope) isProductScope()    {}

func (s ESPDScope) WithSequence(seq string) ProductScope {
	s.SequentialPart = seq
	return s
}

func (s ESPDScope) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Classifier,
			validation.Required,
			validation.Match(reTwoDigits).Error("must consist of 2 digits")),
		validation.Field(&s.SequentialPart,
			validation.Match(reThreeDigits).Error("must consist of 3 digits")),
	)
}

// ESKDScope is the ЕСКД variant. The serial number is scoped by organization code and class characteristic.
type ESKDScope struct {
	OrgCode   string `json:"org_code"`
	ClassChar string `json:"class_char"`
	SerialNum string `json:"serial_num,omitempty"`
}

func (ESKDScope) Standard() Standard { return StandardESKD }
func (s ESKDScope) Sequence() string { return s.SerialNum }
func (ESKDScope) isProductScope()    {}

func (s ESKDScope) WithSequence(seq string) ProductScope {
	s.SerialNum = seq
	return s
}

func (s ESKDScope) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.OrgCode, validation.Required, validation.RuneLength(1, 4)),
		validation.Field(&s.ClassChar, validation.Required, validation.RuneLength(1, 6)),
		validation.Field(&s.SerialNum,
			validation.Match(reSixDigits).Error("must consist of 6 digits")),
	)
}

// GOST34Scope is the ГОСТ 34 variant. The registration number is scoped by organization and class code.
type GOST34Scope struct {
	OrgCode   string `json:"org_code"`
	ClassCode string `json:"class_code"`
	RegNum    string `json:"reg_num,omitempty"`
}

func (GOST34Scope) Standard() Standard { return StandardGOST34 }
func (s GOST34Scope) Sequence() string { return s.RegNum }
func (GOST34Scope) isProductScope()    {}

func (s GOST34Scope) WithSequence(seq string) ProductScope {
	s.RegNum = seq
	return s
}

func (s GOST34Scope) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.OrgCode, validation.Required, validation.RuneLength(1, 13)),
		validation.Field(&s.ClassCode, validation.Required, validation.RuneLength(1, 10)),
		validation.Field(&s.RegNum,
			validation.Match(reThreeDigits).Error("must consist of 3 digits")),
	)
}

// DecodeProductScope decodes raw JSON into the scope variant of std.
// Empty input yields the zero variant so that validation can report the missing fields.
func DecodeProductScope(std Standard, raw []byte) (ProductScope, error) {
	var scope ProductScope
	switch std {
	case StandardESPD:
		var s ESPDScope
		if err := decodeOptional(raw, &s); err != nil {
			return nil, err
		}
		scope = s
	case StandardESKD:
		var s ESKDScope
		if err := decodeOptional(raw, &s); err != nil {
			return nil, err
		}
		scope = s
	case StandardGOST34:
		var s GOST34Scope
		if err := decodeOptional(raw, &s); err != nil {
			return nil, err
		}
		scope = s
	default:
		return nil, fmt.Errorf("decode scope: %w", errUnknownStandard)
	}
	return scope, nil
}

func decodeOptional(raw []byte, v any) error {
	if isEmptyJSON(raw) {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func isEmptyJSON(raw []byte) bool {
	return len(raw) == 0 || string(raw) == "null"
}
