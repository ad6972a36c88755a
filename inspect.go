package reportgen

import (
	"github.com/tsawler/reportgen/fieldkey"
)

// Placement describes where a spreadsheet column lands in the report.
type Placement struct {
	Column   int
	Label    string
	Key      fieldkey.Key
	Category fieldkey.Category
	Known    bool
	// Row is the metadata table row for fields with a dedicated slot, or -1.
	Row int
}

// Placements classifies every column of the source's header row.
func (g *Generator) Placements() ([]Placement, error) {
	records, err := g.Records()
	if err != nil {
		return nil, err
	}

	labels := records[0].Labels
	out := make([]Placement, 0, len(labels))
	for i, label := range labels {
		k := fieldkey.Normalize(label)
		p := Placement{
			Column:   i,
			Label:    label,
			Key:      k,
			Category: fieldkey.Classify(k),
			Known:    fieldkey.Known(k),
			Row:      -1,
		}
		if row, ok := fieldkey.Slot(k); ok {
			p.Row = row
		}
		out = append(out, p)
	}
	return out, nil
}
