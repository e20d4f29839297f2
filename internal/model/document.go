package model

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DocumentSequenceWidth is the width of the per-product ГОСТ 34 document sequence number.
const DocumentSequenceWidth = 2

var (
	reRevision   = regexp.MustCompile(`^(0[1-9]|[1-9]\d)$`)
	reOneToNine  = regexp.MustCompile(`^[1-9]$`)
	reTwoToNine  = regexp.MustCompile(`^[2-9]$`)
	softwareKind = []any{"ПО", "ПАК"}
)

// Document is a document of a product with its assigned full designation.
// ProductName is a snapshot taken at assignment time and is never updated afterwards.
type Document struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name_snapshot"`
	DocTypeCode string          `json:"doc_type_code"`
	DocTypeName string          `json:"doc_type_name"`
	CustomName  *string         `json:"custom_name"`
	Standard    Standard        `json:"standard"`
	Designation string          `json:"designation"`
	Details     DocumentDetails `json:"details"`
	Comment     *string         `json:"comment"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// UnmarshalJSON decodes Details according to Standard.
func (d *Document) UnmarshalJSON(data []byte) error {
	type alias Document
	aux := struct {
		*alias
		Details json.RawMessage `json:"details"`
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if d.Standard == "" {
		return nil
	}
	details, err := DecodeDocumentDetails(d.Standard, aux.Details)
	if err != nil {
		return err
	}
	d.Details = details
	return nil
}

// DocumentDetails is the standard-specific detail blob of a document.
// Only the ГОСТ 34 variant carries a sequence number.
type DocumentDetails interface {
	Standard() Standard
	Sequence() string
	WithSequence(seq string) DocumentDetails
	Validate() error
	isDocumentDetails()
}

// ESPDDetails holds the ЕСПД document segments.
type ESPDDetails struct {
	SoftwareType    string `json:"software_type"`
	BaseDocRevision string `json:"base_doc_revision"`
	DocNumberByType string `json:"doc_number_by_type"`
	PartNumber      string `json:"part_number,omitempty"`
}

func (ESPDDetails) Standard() Standard                    { return StandardESPD }
func (ESPDDetails) Sequence() string                      { return "" }
func (d ESPDDetails) WithSequence(string) DocumentDetails { return d }
func (ESPDDetails) isDocumentDetails()                    {}

func (d ESPDDetails) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.SoftwareType, validation.Required, validation.In(softwareKind...)),
		validation.Field(&d.BaseDocRevision,
			validation.Required,
			validation.Match(reRevision).Error("must be between 01 and 99")),
		validation.Field(&d.DocNumberByType,
			validation.Required,
			validation.Match(reRevision).Error("must be between 01 and 99")),
		validation.Field(&d.PartNumber,
			validation.Match(reOneToNine).Error("must be between 1 and 9")),
	)
}

// ESKDDetails holds the optional ЕСКД document segments.
type ESKDDetails struct {
	Revision   string `json:"revision,omitempty"`
	PartNumber string `json:"part_number,omitempty"`
}

func (ESKDDetails) Standard() Standard                    { return StandardESKD }
func (ESKDDetails) Sequence() string                      { return "" }
func (d ESKDDetails) WithSequence(string) DocumentDetails { return d }
func (ESKDDetails) isDocumentDetails()                    {}

func (d ESKDDetails) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Revision,
			validation.Match(reRevision).Error("must be between 01 and 99")),
		validation.Field(&d.PartNumber, validation.RuneLength(0, 10)),
	)
}

// GOST34Details holds the ГОСТ 34 document segments. On input SequenceNum is an optional override.
type GOST34Details struct {
	SequenceNum     string `json:"sequence_num,omitempty"`
	RevisionNum     string `json:"revision_num,omitempty"`
	PartNum         string `json:"part_num,omitempty"`
	MachineReadable bool   `json:"machine_readable"`
}

func (GOST34Details) Standard() Standard { return StandardGOST34 }
func (d GOST34Details) Sequence() string { return d.SequenceNum }
func (GOST34Details) isDocumentDetails() {}

func (d GOST34Details) WithSequence(seq string) DocumentDetails {
	d.SequenceNum = seq
	return d
}

func (d GOST34Details) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.SequenceNum,
			validation.Match(reTwoDigits).Error("must consist of 2 digits")),
		validation.Field(&d.RevisionNum,
			validation.Match(reTwoToNine).Error("must be between 2 and 9")),
		validation.Field(&d.PartNum,
			validation.Match(reOneToNine).Error("must be between 1 and 9")),
	)
}

// DecodeDocumentDetails decodes raw JSON into the details variant of std.
// It returns nil details for empty input.
func DecodeDocumentDetails(std Standard, raw []byte) (DocumentDetails, error) {
	if !std.Valid() {
		return nil, fmt.Errorf("decode details: %w", errUnknownStandard)
	}
	if isEmptyJSON(raw) {
		return nil, nil
	}
	var details DocumentDetails
	switch std {
	case StandardESPD:
		var d ESPDDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		details = d
	case StandardESKD:
		var d ESKDDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		details = d
	case StandardGOST34:
		var d GOST34Details
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		details = d
	}
	return details, nil
}
