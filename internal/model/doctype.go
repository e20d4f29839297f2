package model

import "time"

// CustomDocType is a user-defined ГОСТ 34 document type. Code is always stored upper-cased.
type CustomDocType struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
