package xlsx

import (
	"strings"
	"time"
)

// Record is one data row keyed by the header row's labels. Labels keeps the
// sheet's column order; Values is parallel to it.
type Record struct {
	Labels []string
	Values []string
	Index  int // 0-based position among the data rows
}

// Len returns the number of columns.
func (r Record) Len() int {
	return len(r.Labels)
}

// Records returns the data rows of the first sheet. The first non-blank row
// supplies the labels; columns with a blank label and rows with no values
// are skipped. Missing cells read as "".
func (r *Reader) Records() ([]Record, error) {
	sheet, err := r.Sheet(0)
	if err != nil {
		return nil, ErrNoRows
	}
	return SheetRecords(sheet)
}

// SheetRecords converts a sheet into records the way Records does.
func SheetRecords(sheet *Sheet) ([]Record, error) {
	header := -1
	for i, row := range sheet.Rows {
		if !blankRow(row) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, ErrNoRows
	}

	var labels []string
	var cols []int
	for col, c := range sheet.Rows[header] {
		label := strings.TrimSpace(c.Value)
		if label == "" {
			continue
		}
		labels = append(labels, c.Value)
		cols = append(cols, col)
	}

	var records []Record
	for _, row := range sheet.Rows[header+1:] {
		values := make([]string, len(cols))
		empty := true
		for i, col := range cols {
			if col < len(row) {
				values[i] = row[col].Value
				if !row[col].IsEmpty() {
					empty = false
				}
			}
		}
		if empty {
			continue
		}
		records = append(records, Record{Labels: labels, Values: values, Index: len(records)})
	}

	if len(records) == 0 {
		return nil, ErrNoRows
	}
	return records, nil
}

func blankRow(row []Cell) bool {
	for _, c := range row {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// parseISODate parses the value of a t="d" cell.
func parseISODate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
