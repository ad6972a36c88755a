// Package photogrid places case photographs into a report: the header image
// in the metadata table and a PHOTOGRAPHS section with one titled grid of
// 2x2 tables per sub-category.
package photogrid

import (
	"strings"

	"github.com/tsawler/reportgen/canvas"
	"github.com/tsawler/reportgen/imageset"
	"github.com/tsawler/reportgen/runlog"
	"github.com/tsawler/reportgen/style"
)

const (
	// PerTable is the number of images in one grid table.
	PerTable = gridRows * gridCols

	gridRows = 2
	gridCols = 2

	// RoomHeadingSize is the font size of sub-category headings in points.
	RoomHeadingSize = 18

	// DefaultHeading titles the photographs section.
	DefaultHeading = "PHOTOGRAPHS"
)

// Placeholder texts.
const (
	HeaderNotProvided = "[Header image not provided]"
	HeaderMissing     = "[Header image missing]"
	NoPhotographs     = "[No photographs provided]"
	ImageMissing      = "[Image missing]"
)

// Composer places images. The exported fields may be changed before use.
type Composer struct {
	// CellSize is the width and height of every grid picture.
	CellSize canvas.Length
	// Padding is applied to every grid cell that holds an image.
	Padding canvas.Padding
	// HeaderMaxWidth caps the width of the header picture.
	HeaderMaxWidth canvas.Length
	// Heading titles the photographs section.
	Heading string

	styles *style.Registry
	log    *runlog.Logger
}

// NewComposer returns a Composer with 2.5in square pictures, 200 twip cell
// padding and a 6in header limit.
func NewComposer(styles *style.Registry, log runlog.Func) *Composer {
	return &Composer{
		CellSize:       canvas.Inches(2.5),
		Padding:        canvas.UniformPadding(200),
		HeaderMaxWidth: canvas.Inches(6),
		Heading:        DefaultHeading,
		styles:         styles,
		log:            runlog.New(log),
	}
}

// PlaceHeader puts the first image of the set's header group into slot,
// centred between line breaks. The slot holds a placeholder text when there
// is no header group or the image cannot be placed.
func (c *Composer) PlaceHeader(slot canvas.Cell, set imageset.Set) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("Failed to load image header: %v", r)
		}
	}()

	slot.SetVerticalAlignment(canvas.VAlignCenter)
	header, ok := set.Header()
	if !ok || len(header.Images) == 0 {
		slot.SetText(HeaderNotProvided)
		return
	}

	p := slot.Paragraphs()[0]
	run := p.AddRun("")
	run.AddBreak()
	run.AddBreak()
	if err := run.AddPictureWithin(header.Images[0], c.HeaderMaxWidth); err != nil {
		slot.SetText(HeaderMissing)
		c.log.Warn("Failed to insert header image: %v", err)
		return
	}
	p.SetAlignment(canvas.AlignCenter)
	run.AddBreak()
}

// Compose appends the photographs section to body and returns the number of
// grid tables written. Nothing is written when the set holds no images.
func (c *Composer) Compose(body canvas.Body, set imageset.Set) int {
	if set.Empty() {
		return 0
	}

	body.AddPageBreak()
	heading := body.AddHeading(c.Heading, 1)
	heading.AddRun("").AddBreak()
	c.styles.Apply(heading, style.Heading1)

	rooms := set.Rooms()
	if len(rooms) == 0 {
		body.AddParagraph(NoPhotographs)
		return 0
	}

	tables := 0
	for i, room := range rooms {
		c.roomHeading(body, room.Name)
		for start := 0; start < len(room.Images); start += PerTable {
			end := min(start+PerTable, len(room.Images))
			c.grid(body, room.Images[start:end])
			tables++
		}
		if i < len(rooms)-1 {
			body.AddPageBreak()
		}
	}
	return tables
}

func (c *Composer) roomHeading(body canvas.Body, name string) {
	h := body.AddHeading(strings.ToUpper(name), 3)
	h.AddRun("").AddBreak()
	c.styles.Apply(h, style.Normal)
	h.SetAlignment(canvas.AlignCenter)
	for _, r := range h.Runs() {
		r.SetSize(RoomHeadingSize)
	}
}

// grid writes up to PerTable images into one 2x2 table, left column
// pictures aligned right and right column pictures aligned left.
func (c *Composer) grid(body canvas.Body, batch []string) {
	t := body.AddTable(gridRows, gridCols)
	for i, img := range batch {
		row, col := i/gridCols, i%gridCols
		cell := t.Cell(row, col)
		p := cell.Paragraphs()[0]
		if col == 0 {
			p.SetAlignment(canvas.AlignRight)
		} else {
			p.SetAlignment(canvas.AlignLeft)
		}
		run := p.AddRun("")
		cell.SetPadding(c.Padding)
		if err := run.AddPicture(img, c.CellSize, c.CellSize); err != nil {
			cell.SetText(ImageMissing)
			c.log.Warn("Failed to insert image %s: %v", img, err)
		}
	}
}
