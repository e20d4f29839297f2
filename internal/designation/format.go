// Package designation renders base and full designations and allocates the
// sequence numbers embedded in them.
package designation

import (
	"strings"

	"designator/internal/model"
)

// MachineReadableMarker is appended to ГОСТ 34 designations of machine-readable documents.
const MachineReadableMarker = "М"

// ESPDBase renders ORG.CCNNN.
func ESPDBase(org, classifier, seq string) string {
	return normalize(org + "." + classifier + seq)
}

// ESKDBase renders ORG.CCCCCC.NNNNNN.
func ESKDBase(org, classChar, serial string) string {
	return normalize(org + "." + classChar + "." + serial)
}

// GOST34Base renders ORG.CLASS.NNN.
func GOST34Base(org, class, reg string) string {
	return normalize(org + "." + class + "." + reg)
}

// ESPDFull renders BASE-RR T NN[-P].
func ESPDFull(base, docType string, d model.ESPDDetails) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("-")
	b.WriteString(d.BaseDocRevision)
	b.WriteString(" ")
	b.WriteString(docType)
	b.WriteString(" ")
	b.WriteString(d.DocNumberByType)
	if d.PartNumber != "" {
		b.WriteString("-")
		b.WriteString(d.PartNumber)
	}
	return normalize(b.String())
}

// ESKDFull renders BASE[-RR] T[-P].
func ESKDFull(base, docType string, d model.ESKDDetails) string {
	var b strings.Builder
	b.WriteString(base)
	if d.Revision != "" {
		b.WriteString("-")
		b.WriteString(d.Revision)
	}
	b.WriteString(" ")
	b.WriteString(docType)
	if d.PartNumber != "" {
		b.WriteString("-")
		b.WriteString(d.PartNumber)
	}
	return normalize(b.String())
}

// GOST34Full renders BASE.T.SS[.R][-P][.М].
func GOST34Full(base, docType string, d model.GOST34Details) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString(".")
	b.WriteString(docType)
	b.WriteString(".")
	b.WriteString(d.SequenceNum)
	if d.RevisionNum != "" {
		b.WriteString(".")
		b.WriteString(d.RevisionNum)
	}
	if d.PartNum != "" {
		b.WriteString("-")
		b.WriteString(d.PartNum)
	}
	if d.MachineReadable {
		b.WriteString(".")
		b.WriteString(MachineReadableMarker)
	}
	return normalize(b.String())
}

// Base dispatches on the scope variant. espdOrg is only used for ЕСПД.
func Base(scope model.ProductScope, espdOrg string) string {
	switch s := scope.(type) {
	case model.ESPDScope:
		return ESPDBase(espdOrg, s.Classifier, s.SequentialPart)
	case model.ESKDScope:
		return ESKDBase(s.OrgCode, s.ClassChar, s.SerialNum)
	case model.GOST34Scope:
		return GOST34Base(s.OrgCode, s.ClassCode, s.RegNum)
	}
	return ""
}

// Full dispatches on the details variant.
func Full(base, docType string, details model.DocumentDetails) string {
	switch d := details.(type) {
	case model.ESPDDetails:
		return ESPDFull(base, docType, d)
	case model.ESKDDetails:
		return ESKDFull(base, docType, d)
	case model.GOST34Details:
		return GOST34Full(base, docType, d)
	}
	return ""
}

// normalize collapses whitespace runs into a single space and trims the result.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
