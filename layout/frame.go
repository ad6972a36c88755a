package layout

import (
	"github.com/tsawler/reportgen/canvas"
	"github.com/tsawler/reportgen/style"
)

// DefaultTitle is the heading at the top of every report.
const DefaultTitle = "FIRST INSPECTION REPORT"

// Metadata table rows.
const (
	RowMetadata = 0
	RowHeader   = 1
	frameRows   = 4
)

// Frame is the fixed skeleton of a report: the title and the metadata table.
type Frame struct {
	body   canvas.Body
	table  canvas.Table
	nested canvas.Table
}

// NewFrame appends the title heading and the metadata table to body. An
// empty title uses DefaultTitle.
func NewFrame(body canvas.Body, styles *style.Registry, title string) *Frame {
	if title == "" {
		title = DefaultTitle
	}
	heading := body.AddHeading(title, 1)
	styles.Apply(heading, style.Heading1)

	table := body.AddTable(frameRows, 1)
	nested := table.Cell(RowMetadata, 0).AddTable(1, 2)
	return &Frame{body: body, table: table, nested: nested}
}

// Body returns the flow that narrative content is appended to.
func (f *Frame) Body() canvas.Body { return f.body }

// Table returns the outer metadata table.
func (f *Frame) Table() canvas.Table { return f.table }

// Primary returns the left metadata cell.
func (f *Frame) Primary() canvas.Cell { return f.nested.Cell(0, 0) }

// Secondary returns the right metadata cell.
func (f *Frame) Secondary() canvas.Cell { return f.nested.Cell(0, 1) }

// HeaderSlot returns the cell that holds the header image.
func (f *Frame) HeaderSlot() canvas.Cell { return f.table.Cell(RowHeader, 0) }

// Row returns the outer table cell of a row.
func (f *Frame) Row(row int) canvas.Cell { return f.table.Cell(row, 0) }
