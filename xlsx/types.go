// Package xlsx reads the case rows of an XLSX workbook.
//
// The first worksheet is treated as a table whose first non-blank row holds
// column labels. Cells carrying a date number format are rendered as
// DD-MM-YYYY; every other value is rendered the way Excel's General format
// shows it.
package xlsx

import "encoding/xml"

// workbookXML represents the xl/workbook.xml file structure.
type workbookXML struct {
	XMLName    xml.Name      `xml:"workbook"`
	WorkbookPr workbookPrXML `xml:"workbookPr"`
	Sheets     sheetsXML     `xml:"sheets"`
}

type workbookPrXML struct {
	Date1904 string `xml:"date1904,attr"`
}

type sheetsXML struct {
	Sheet []sheetRefXML `xml:"sheet"`
}

type sheetRefXML struct {
	Name    string `xml:"name,attr"`
	SheetID string `xml:"sheetId,attr"`
	RID     string `xml:"id,attr"` // r:id attribute for relationship
}

// worksheetXML represents a xl/worksheets/sheet*.xml file structure.
type worksheetXML struct {
	XMLName   xml.Name     `xml:"worksheet"`
	SheetData sheetDataXML `xml:"sheetData"`
}

type sheetDataXML struct {
	Rows []rowXML `xml:"row"`
}

type rowXML struct {
	R     int       `xml:"r,attr"` // Row number (1-indexed), 0 when omitted
	Cells []cellXML `xml:"c"`
}

type cellXML struct {
	R  string       `xml:"r,attr"` // Cell reference (e.g., "A1"), may be omitted
	T  string       `xml:"t,attr"` // s, n, b, str, inlineStr, e, d
	S  int          `xml:"s,attr"` // Style index
	V  string       `xml:"v"`
	F  string       `xml:"f"`
	Is *richTextXML `xml:"is"`
}

// sharedStringsXML represents the xl/sharedStrings.xml file structure.
type sharedStringsXML struct {
	XMLName xml.Name      `xml:"sst"`
	SI      []richTextXML `xml:"si"`
}

// richTextXML is a shared or inline string: plain text or a list of runs.
type richTextXML struct {
	T string `xml:"t"`
	R []rXML `xml:"r"`
}

type rXML struct {
	T string `xml:"t"`
}

// text returns the string content, concatenating rich text runs.
func (s richTextXML) text() string {
	if len(s.R) == 0 {
		return s.T
	}
	out := s.T
	for _, r := range s.R {
		out += r.T
	}
	return out
}

// stylesXML represents the xl/styles.xml file structure.
type stylesXML struct {
	XMLName xml.Name    `xml:"styleSheet"`
	NumFmts *numFmtsXML `xml:"numFmts"`
	CellXfs *cellXfsXML `xml:"cellXfs"`
}

type numFmtsXML struct {
	NumFmt []numFmtXML `xml:"numFmt"`
}

type numFmtXML struct {
	NumFmtID   int    `xml:"numFmtId,attr"`
	FormatCode string `xml:"formatCode,attr"`
}

type cellXfsXML struct {
	Xf []xfXML `xml:"xf"`
}

type xfXML struct {
	NumFmtID int `xml:"numFmtId,attr"`
}

// relationshipsXML represents .rels files.
type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}
