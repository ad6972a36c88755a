package xlsx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// ErrNoRows is returned by Records when the first sheet has no data rows.
var ErrNoRows = errors.New("workbook contains no rows")

// Reader provides access to the worksheets of an XLSX workbook. All parts
// are parsed when the reader is opened.
type Reader struct {
	files         map[string]*zip.File
	workbook      workbookXML
	sharedStrings []string
	numFmts       []int          // numFmtId per cellXfs index
	customFmts    map[int]string // numFmtId -> format code
	sheetRels     map[string]string
	date1904      bool
	sheets        []*Sheet
}

// Open opens and parses an XLSX file.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()
	return newReader(&zr.Reader)
}

// OpenBytes parses an XLSX workbook held in memory.
func OpenBytes(data []byte) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return newReader(zr)
}

func newReader(zr *zip.Reader) (*Reader, error) {
	r := &Reader{
		files:      make(map[string]*zip.File, len(zr.File)),
		customFmts: make(map[int]string),
		sheetRels:  make(map[string]string),
	}
	for _, f := range zr.File {
		r.files[f.Name] = f
	}

	// Validate required files exist
	for _, name := range []string{"[Content_Types].xml", "xl/workbook.xml"} {
		if r.files[name] == nil {
			return nil, fmt.Errorf("missing required file: %s", name)
		}
	}

	if err := r.parseRelationships(); err != nil {
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}
	if err := r.parseWorkbook(); err != nil {
		return nil, fmt.Errorf("parsing workbook: %w", err)
	}

	// Shared strings and styles are optional.
	_ = r.parseSharedStrings()
	_ = r.parseStyles()

	if err := r.parseWorksheets(); err != nil {
		return nil, fmt.Errorf("parsing worksheets: %w", err)
	}
	return r, nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	f := r.files[name]
	if f == nil {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// parseRelationships maps workbook relationship ids to part names.
func (r *Reader) parseRelationships() error {
	data, err := r.getFileContent("xl/_rels/workbook.xml.rels")
	if err != nil {
		return nil // Relationships are optional
	}

	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return err
	}
	for _, rel := range rels.Relationship {
		target := rel.Target
		if strings.HasPrefix(target, "/") {
			target = strings.TrimPrefix(target, "/")
		} else {
			target = path.Join("xl", target)
		}
		r.sheetRels[rel.ID] = target
	}
	return nil
}

func (r *Reader) parseWorkbook() error {
	data, err := r.getFileContent("xl/workbook.xml")
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(data, &r.workbook); err != nil {
		return err
	}
	switch strings.ToLower(r.workbook.WorkbookPr.Date1904) {
	case "1", "true":
		r.date1904 = true
	}
	return nil
}

func (r *Reader) parseSharedStrings() error {
	data, err := r.getFileContent("xl/sharedStrings.xml")
	if err != nil {
		return err
	}

	var sst sharedStringsXML
	if err := xml.Unmarshal(data, &sst); err != nil {
		return err
	}
	r.sharedStrings = make([]string, len(sst.SI))
	for i, si := range sst.SI {
		r.sharedStrings[i] = si.text()
	}
	return nil
}

func (r *Reader) parseStyles() error {
	data, err := r.getFileContent("xl/styles.xml")
	if err != nil {
		return err
	}

	var styles stylesXML
	if err := xml.Unmarshal(data, &styles); err != nil {
		return err
	}
	if styles.NumFmts != nil {
		for _, nf := range styles.NumFmts.NumFmt {
			r.customFmts[nf.NumFmtID] = nf.FormatCode
		}
	}
	if styles.CellXfs != nil {
		for _, xf := range styles.CellXfs.Xf {
			r.numFmts = append(r.numFmts, xf.NumFmtID)
		}
	}
	return nil
}

func (r *Reader) parseWorksheets() error {
	for i, ref := range r.workbook.Sheets.Sheet {
		target := r.sheetRels[ref.RID]
		if target == "" {
			target = fmt.Sprintf("xl/worksheets/sheet%d.xml", i+1)
		}

		data, err := r.getFileContent(target)
		if err != nil {
			continue // Skip sheets we can't read
		}
		sheet, err := r.parseWorksheet(data, ref.Name)
		if err != nil {
			continue // Skip sheets that fail to parse
		}
		r.sheets = append(r.sheets, sheet)
	}

	if len(r.sheets) == 0 {
		return fmt.Errorf("no worksheets found")
	}
	return nil
}

// parseWorksheet builds a dense grid from the sheet's rows. Rows and cells
// without a reference take the position after their predecessor.
func (r *Reader) parseWorksheet(data []byte, name string) (*Sheet, error) {
	var ws worksheetXML
	if err := xml.Unmarshal(data, &ws); err != nil {
		return nil, err
	}

	sheet := &Sheet{Name: name}
	rowIdx := -1
	for _, row := range ws.SheetData.Rows {
		if row.R > 0 {
			rowIdx = row.R - 1
		} else {
			rowIdx++
		}
		for len(sheet.Rows) <= rowIdx {
			sheet.Rows = append(sheet.Rows, nil)
		}

		col := -1
		for _, c := range row.Cells {
			if c.R != "" {
				if cc, _, err := ParseCellRef(c.R); err == nil {
					col = cc
				} else {
					col++
				}
			} else {
				col++
			}
			cells := sheet.Rows[rowIdx]
			for len(cells) <= col {
				cells = append(cells, Cell{})
			}
			cells[col] = r.cellValue(c)
			sheet.Rows[rowIdx] = cells
		}
	}
	return sheet, nil
}

// cellValue interprets one cell according to its type and style.
func (r *Reader) cellValue(c cellXML) Cell {
	cell := Cell{RawValue: c.V}
	switch c.T {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(c.V))
		if err == nil && idx >= 0 && idx < len(r.sharedStrings) {
			cell.Value = r.sharedStrings[idx]
		}
		cell.Type = CellTypeString
	case "str":
		cell.Type = CellTypeString
		cell.Value = c.V
	case "inlineStr":
		cell.Type = CellTypeString
		if c.Is != nil {
			cell.Value = c.Is.text()
		}
	case "b":
		cell.Type = CellTypeBoolean
		cell.Value = "FALSE"
		if strings.TrimSpace(c.V) == "1" {
			cell.Value = "TRUE"
		}
	case "e":
		cell.Type = CellTypeError
		cell.Value = c.V
	case "d":
		// ISO 8601 date cells written by some producers.
		if t, ok := parseISODate(c.V); ok {
			cell.Type = CellTypeDate
			cell.Time = t
			cell.Value = t.Format(DateLayout)
		} else {
			cell.Type = CellTypeString
			cell.Value = c.V
		}
	default:
		if c.V == "" {
			return cell
		}
		if r.isDateStyle(c.S) {
			if f, err := strconv.ParseFloat(strings.TrimSpace(c.V), 64); err == nil && f >= 0 {
				cell.Type = CellTypeDate
				cell.Time = serialToTime(f, r.date1904)
				cell.Value = cell.Time.Format(DateLayout)
				return cell
			}
		}
		cell.Type = CellTypeNumber
		cell.Value = formatGeneral(c.V)
	}
	return cell
}

// isDateStyle reports whether the cellXfs entry at index uses a date format.
func (r *Reader) isDateStyle(index int) bool {
	if index < 0 || index >= len(r.numFmts) {
		return false
	}
	id := r.numFmts[index]
	if code, ok := r.customFmts[id]; ok {
		return isDateFormatCode(code)
	}
	return builtinDateFormats[id]
}

// SheetCount returns the number of sheets in the workbook.
func (r *Reader) SheetCount() int {
	return len(r.sheets)
}

// SheetNames returns the names of all sheets.
func (r *Reader) SheetNames() []string {
	names := make([]string, len(r.sheets))
	for i, s := range r.sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet returns the sheet at the given index (0-indexed).
func (r *Reader) Sheet(index int) (*Sheet, error) {
	if index < 0 || index >= len(r.sheets) {
		return nil, fmt.Errorf("sheet index %d out of range (0-%d)", index, len(r.sheets)-1)
	}
	return r.sheets[index], nil
}
