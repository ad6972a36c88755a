// Package canvas defines the small document-formatting capability that the
// layout and photo grid packages draw on.
//
// The interfaces describe only what a case report needs: headings, styled
// paragraphs, runs with character formatting, tables with padded cells and
// inline pictures. The docx package provides the WordprocessingML
// implementation; nothing above this package depends on a document library's
// object model.
package canvas

import "fmt"

// Alignment is a paragraph's horizontal alignment.
type Alignment int

const (
	// AlignInherit leaves the alignment to the paragraph style.
	AlignInherit Alignment = iota
	// AlignLeft aligns text to the left margin.
	AlignLeft
	// AlignCenter centres text.
	AlignCenter
	// AlignRight aligns text to the right margin.
	AlignRight
	// AlignJustify justifies text to both margins.
	AlignJustify
)

// String returns the string representation of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "both"
	default:
		return ""
	}
}

// VAlign is a table cell's vertical alignment.
type VAlign int

const (
	// VAlignInherit leaves the vertical alignment unset.
	VAlignInherit VAlign = iota
	// VAlignTop aligns content to the top of the cell.
	VAlignTop
	// VAlignCenter centres content vertically.
	VAlignCenter
	// VAlignBottom aligns content to the bottom of the cell.
	VAlignBottom
)

// String returns the string representation of the vertical alignment.
func (v VAlign) String() string {
	switch v {
	case VAlignTop:
		return "top"
	case VAlignCenter:
		return "center"
	case VAlignBottom:
		return "bottom"
	default:
		return ""
	}
}

// Color is a 24-bit RGB colour.
type Color struct {
	R, G, B uint8
}

// RGB returns a Color from its components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Hex returns the colour as six upper-case hex digits, e.g. "2F5496".
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Length is a distance in English Metric Units (914400 per inch).
type Length int64

const (
	// EMUPerInch is the number of EMUs in one inch.
	EMUPerInch = 914400
	// EMUPerPoint is the number of EMUs in one point.
	EMUPerPoint = 12700
)

// Inches returns a Length of n inches.
func Inches(n float64) Length {
	return Length(n * EMUPerInch)
}

// Inches returns the length in inches.
func (l Length) Inches() float64 {
	return float64(l) / EMUPerInch
}

// Twips is a distance in twentieths of a point.
type Twips int

// Padding holds cell margins in twips.
type Padding struct {
	Top, Start, Bottom, End Twips
}

// UniformPadding returns a Padding with the same margin on every side.
func UniformPadding(t Twips) Padding {
	return Padding{Top: t, Start: t, Bottom: t, End: t}
}

// Body is a flow of block content: the document body or a table cell.
type Body interface {
	// AddHeading appends a heading paragraph at the given outline level.
	AddHeading(text string, level int) Paragraph
	// AddParagraph appends a plain paragraph. Empty text adds no run.
	AddParagraph(text string) Paragraph
	// AddStyledParagraph appends a paragraph bound to a named document style
	// such as "List Bullet".
	AddStyledParagraph(text, styleName string) Paragraph
	// AddTable appends a rows x cols table.
	AddTable(rows, cols int) Table
	// AddPageBreak appends a paragraph holding a page break.
	AddPageBreak()
}

// Paragraph is a block of runs.
type Paragraph interface {
	// AddRun appends a run. Newlines in text become line breaks.
	AddRun(text string) Run
	// Runs returns the paragraph's runs in order.
	Runs() []Run
	// Text returns the concatenated run text.
	Text() string
	SetAlignment(Alignment)
	Alignment() Alignment
	// SetLineSpacing sets the line spacing as a multiple of single spacing.
	SetLineSpacing(multiple float64)
	LineSpacing() float64
}

// Run is a span of text sharing character formatting.
type Run interface {
	Text() string
	// AddBreak appends a line break to the run.
	AddBreak()
	// AddPicture appends an inline picture loaded from path. A zero width and
	// height place the picture at its natural size; a zero in only one of
	// them keeps the aspect ratio.
	AddPicture(path string, width, height Length) error
	// AddPictureWithin appends an inline picture at its natural size, scaled
	// down to maxWidth when it is wider.
	AddPictureWithin(path string, maxWidth Length) error
	SetFont(name string)
	SetSize(points float64)
	SetBold(bool)
	SetItalic(bool)
	SetUnderline(bool)
	SetColor(Color)
	Format() RunFormat
}

// RunFormat is a snapshot of a run's character formatting.
type RunFormat struct {
	Font      string
	Size      float64
	Bold      bool
	Italic    bool
	Underline bool
	Color     Color
	HasColor  bool
}

// Table is a grid of cells.
type Table interface {
	Rows() int
	Cols() int
	// Cell returns the cell at row, col (0-indexed). It panics when out of
	// range, like indexing a slice.
	Cell(row, col int) Cell
}

// Cell is a table cell. Every cell starts with one empty paragraph.
type Cell interface {
	Body
	// Paragraphs returns the cell's top-level paragraphs.
	Paragraphs() []Paragraph
	// SetText replaces the cell's content with a single paragraph.
	SetText(text string)
	SetPadding(Padding)
	SetVerticalAlignment(VAlign)
}
