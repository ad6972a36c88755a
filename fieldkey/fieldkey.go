// Package fieldkey turns spreadsheet column labels into canonical field keys
// and decides where each field is placed in a case report.
//
// Labels carry input hints such as "(Select one)" or "(dd/mm/yyyy)" that
// are not part of the field's identity:
//
//	fieldkey.Normalize("Date of Loss (dd/mm/yyyy):") // "date of loss"
//	fieldkey.Display("Date of Loss (dd/mm/yyyy):")   // "Date of Loss"
//
// [Classify] maps a key to a [Category] through a fixed table. Keys not in
// the table are narrative sections.
package fieldkey

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// Key is a normalized column label.
type Key string

// hintPattern matches an input hint and an optional trailing colon.
var hintPattern = regexp.MustCompile(`(?i)\s*\((?:select.*|dd/mm/yyyy)\)\s*:?`)

// Normalize strips input hints, case-folds and trims a label. The result is
// a fixed point: Normalize(string(Normalize(s))) == Normalize(s).
func Normalize(label string) Key {
	s := label
	for {
		next := strings.TrimSpace(cases.Fold().String(hintPattern.ReplaceAllString(s, "")))
		if next == s {
			return Key(next)
		}
		s = next
	}
}

// Display strips input hints and trims a label without changing its case.
// It is the text used for headings and metadata labels.
func Display(label string) string {
	return strings.TrimSpace(hintPattern.ReplaceAllString(label, ""))
}

// Category says how and where a field is placed in the report.
type Category int

const (
	// NarrativeSection is a heading followed by the value paragraph.
	NarrativeSection Category = iota
	// MetadataPrimary is a label/value pair in the left metadata column.
	MetadataPrimary
	// MetadataSecondary is a label/value pair in the right metadata column.
	MetadataSecondary
	// ReserveNoteProducer is a bulleted reserve line whose text after "HST"
	// becomes the note of a later consumer field.
	ReserveNoteProducer
	// ReserveNoteConsumer is a bulleted reserve line followed by the note.
	ReserveNoteConsumer
	// ManagerSignoff is the product manager's name in the metadata block and
	// a closing salutation.
	ManagerSignoff
	// NarrativeConclusion is a narrative section set apart by a blank line.
	NarrativeConclusion
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case NarrativeSection:
		return "narrative-section"
	case MetadataPrimary:
		return "metadata-primary"
	case MetadataSecondary:
		return "metadata-secondary"
	case ReserveNoteProducer:
		return "reserve-note-producer"
	case ReserveNoteConsumer:
		return "reserve-note-consumer"
	case ManagerSignoff:
		return "manager-signoff"
	case NarrativeConclusion:
		return "narrative-conclusion"
	default:
		return "unknown"
	}
}

// IsMetadata reports whether the category belongs to the metadata block.
func (c Category) IsMetadata() bool {
	return c == MetadataPrimary || c == MetadataSecondary
}

// Well-known keys.
const (
	Policyholder      Key = "policyholder"
	Address           Key = "address"
	Insurer           Key = "insurer"
	Adjuster          Key = "adjuster"
	DescriptionOfRisk Key = "description of risk"
	ClaimNumber       Key = "claim #"
	DateOfReport      Key = "date of report"
	DateAssigned      Key = "date assigned"
	DateOfInspection  Key = "date of inspection"
	DateOfLoss        Key = "date of loss"
	TypeOfLoss        Key = "type of loss"
	CauseOfLoss       Key = "cause of loss"
	AssignedGC        Key = "assigned gc"
	PMContact         Key = "pm contact"
	IndemnityReserves Key = "indemnity reserves:"
	ExpenseReserves   Key = "expense reserves:"
	ProductManager    Key = "product manager"
	Conclusion        Key = "conclusion"

	// TrinityReserves is the narrative field rendered with 1.5 line
	// spacing instead of a trailing break.
	TrinityReserves Key = "recommended reserves for trinity's involvement:"
)

var table = map[Key]Category{
	Policyholder:      MetadataPrimary,
	Address:           MetadataPrimary,
	Insurer:           MetadataPrimary,
	Adjuster:          MetadataPrimary,
	DescriptionOfRisk: MetadataPrimary,
	DateOfInspection:  MetadataPrimary,
	DateOfLoss:        MetadataPrimary,
	TypeOfLoss:        MetadataPrimary,
	CauseOfLoss:       MetadataPrimary,
	ClaimNumber:       MetadataSecondary,
	DateOfReport:      MetadataSecondary,
	DateAssigned:      MetadataSecondary,
	AssignedGC:        MetadataSecondary,
	PMContact:         MetadataSecondary,
	IndemnityReserves: ReserveNoteProducer,
	ExpenseReserves:   ReserveNoteConsumer,
	ProductManager:    ManagerSignoff,
	Conclusion:        NarrativeConclusion,
}

// Classify returns the placement category of a key.
func Classify(k Key) Category {
	if c, ok := table[k]; ok {
		return c
	}
	return NarrativeSection
}

// Known reports whether the key appears in the placement table.
func Known(k Key) bool {
	_, ok := table[k]
	return ok
}

// Metadata table rows that hold a single accented field.
const (
	RowDescriptionOfRisk = 2
	RowCauseOfLoss       = 3
)

// Slot returns the dedicated metadata table row of a key, if it has one.
// Fields with a slot are written on their own line below the label.
func Slot(k Key) (row int, ok bool) {
	switch k {
	case DescriptionOfRisk:
		return RowDescriptionOfRisk, true
	case CauseOfLoss:
		return RowCauseOfLoss, true
	}
	return 0, false
}
