package xlsx

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CellType represents the type of data in a cell.
type CellType int

const (
	// CellTypeEmpty indicates an empty cell.
	CellTypeEmpty CellType = iota
	// CellTypeString indicates a string value.
	CellTypeString
	// CellTypeNumber indicates a numeric value.
	CellTypeNumber
	// CellTypeDate indicates a number displayed with a date format.
	CellTypeDate
	// CellTypeBoolean indicates a boolean value.
	CellTypeBoolean
	// CellTypeError indicates an error value such as #N/A.
	CellTypeError
)

// String returns the string representation of the cell type.
func (t CellType) String() string {
	switch t {
	case CellTypeEmpty:
		return "empty"
	case CellTypeString:
		return "string"
	case CellTypeNumber:
		return "number"
	case CellTypeDate:
		return "date"
	case CellTypeBoolean:
		return "boolean"
	case CellTypeError:
		return "error"
	default:
		return "unknown"
	}
}

// Cell is one worksheet cell.
type Cell struct {
	Value    string    // display value
	RawValue string    // value as stored in the sheet XML
	Type     CellType
	Time     time.Time // set for CellTypeDate
}

// IsEmpty reports whether the cell displays nothing.
func (c Cell) IsEmpty() bool {
	return c.Type == CellTypeEmpty || strings.TrimSpace(c.Value) == ""
}

// Sheet is a worksheet as a dense grid of cells.
type Sheet struct {
	Name string
	Rows [][]Cell
}

// ParseCellRef parses a reference like "A1" or "AA100" into 0-indexed
// column and row. "$" anchors are ignored.
func ParseCellRef(ref string) (col, row int, err error) {
	ref = strings.ReplaceAll(ref, "$", "")
	i := 0
	for i < len(ref) && isLetter(ref[i]) {
		i++
	}
	switch {
	case ref == "":
		return 0, 0, fmt.Errorf("empty cell reference")
	case i == 0:
		return 0, 0, fmt.Errorf("invalid cell reference %q: no column letters", ref)
	case i == len(ref):
		return 0, 0, fmt.Errorf("invalid cell reference %q: no row number", ref)
	}

	col = ColumnToIndex(ref[:i])
	n, err := strconv.Atoi(ref[i:])
	if err != nil || n < 1 {
		return 0, 0, fmt.Errorf("invalid row in %q", ref)
	}
	return col, n - 1, nil
}

// ColumnToIndex converts column letters to a 0-indexed column number
// (A=0, Z=25, AA=26). It returns -1 for anything but letters.
func ColumnToIndex(letters string) int {
	if letters == "" {
		return -1
	}
	n := 0
	for _, c := range strings.ToUpper(letters) {
		if c < 'A' || c > 'Z' {
			return -1
		}
		n = n*26 + int(c-'A') + 1
	}
	return n - 1
}

// IndexToColumn converts a 0-indexed column number to letters.
func IndexToColumn(index int) string {
	if index < 0 {
		return ""
	}
	var buf []byte
	for index++; index > 0; index = (index - 1) / 26 {
		buf = append([]byte{byte('A' + (index-1)%26)}, buf...)
	}
	return string(buf)
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
