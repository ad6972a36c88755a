package docx

import (
	"strings"

	"github.com/tsawler/reportgen/canvas"
)

// Page geometry used for blank documents (US Letter, one inch margins).
const (
	pageWidthTwips   = 12240
	pageHeightTwips  = 15840
	pageMarginTwips  = 1440
	contentWidthTwip = pageWidthTwips - 2*pageMarginTwips
)

// Document is an in-memory WordprocessingML document under construction.
// It implements canvas.Body for its main story.
type Document struct {
	body     container
	media    []mediaPart
	template *Template
	core     CoreProperties
	nextID   int
}

// CoreProperties holds the Dublin Core metadata written to docProps/core.xml.
type CoreProperties struct {
	Title   string
	Subject string
	Creator string
}

// New returns a blank document.
func New() *Document {
	d := &Document{}
	d.body = container{doc: d, width: contentWidthTwip}
	return d
}

// NewFromTemplate returns a document whose package parts come from t. New
// content is appended after the template's own body content. Edits to the
// document never change t, so one template can serve many documents.
func NewFromTemplate(t *Template) *Document {
	d := New()
	d.template = t.clone()
	return d
}

// Template returns the template the document was created from, or nil.
func (d *Document) Template() *Template {
	return d.template
}

// SetCoreProperties sets the document metadata.
func (d *Document) SetCoreProperties(p CoreProperties) {
	d.core = p
}

// AddHeading implements canvas.Body.
func (d *Document) AddHeading(text string, level int) canvas.Paragraph {
	return d.body.AddHeading(text, level)
}

// AddParagraph implements canvas.Body.
func (d *Document) AddParagraph(text string) canvas.Paragraph {
	return d.body.AddParagraph(text)
}

// AddStyledParagraph implements canvas.Body.
func (d *Document) AddStyledParagraph(text, styleName string) canvas.Paragraph {
	return d.body.AddStyledParagraph(text, styleName)
}

// AddTable implements canvas.Body.
func (d *Document) AddTable(rows, cols int) canvas.Table {
	return d.body.AddTable(rows, cols)
}

// AddPageBreak implements canvas.Body.
func (d *Document) AddPageBreak() {
	d.body.AddPageBreak()
}

// Paragraphs returns the top-level paragraphs of the body.
func (d *Document) Paragraphs() []*Paragraph {
	return d.body.paragraphs()
}

// Tables returns the top-level tables of the body.
func (d *Document) Tables() []*Table {
	var out []*Table
	for _, b := range d.body.blocks {
		if t, ok := b.(*Table); ok {
			out = append(out, t)
		}
	}
	return out
}

// newID returns a document-unique drawing id.
func (d *Document) newID() int {
	d.nextID++
	return d.nextID
}

// block is a body-level element: a paragraph or a table.
type block interface {
	writeXML(b *xmlBuilder)
}

// container is a flow of blocks shared by the document body and table cells.
type container struct {
	doc    *Document
	blocks []block
	width  int // available width in twips
}

func (c *container) AddHeading(text string, level int) canvas.Paragraph {
	p := c.newParagraph(text)
	p.style = headingStyleID(level)
	return p
}

func (c *container) AddParagraph(text string) canvas.Paragraph {
	return c.newParagraph(text)
}

func (c *container) AddStyledParagraph(text, styleName string) canvas.Paragraph {
	p := c.newParagraph(text)
	p.style = StyleID(styleName)
	return p
}

func (c *container) AddTable(rows, cols int) canvas.Table {
	t := newTable(c.doc, rows, cols, c.width)
	c.blocks = append(c.blocks, t)
	return t
}

func (c *container) AddPageBreak() {
	p := &Paragraph{doc: c.doc}
	r := &Run{doc: c.doc}
	r.items = append(r.items, runItem{kind: itemPageBreak})
	p.runs = append(p.runs, r)
	c.blocks = append(c.blocks, p)
}

func (c *container) newParagraph(text string) *Paragraph {
	p := &Paragraph{doc: c.doc}
	if text != "" {
		p.AddRun(text)
	}
	c.blocks = append(c.blocks, p)
	return p
}

func (c *container) paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, b := range c.blocks {
		if p, ok := b.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

// headingStyleID maps an outline level to the built-in heading style id.
// Level 0 is the Title style.
func headingStyleID(level int) string {
	switch {
	case level <= 0:
		return "Title"
	case level > 9:
		level = 9
	}
	return "Heading" + string(rune('0'+level))
}

// StyleID converts a style display name such as "List Bullet" to the style id
// Word writes for it ("ListBullet").
func StyleID(name string) string {
	return strings.ReplaceAll(name, " ", "")
}

// Paragraph is a WordprocessingML paragraph. It implements canvas.Paragraph.
type Paragraph struct {
	doc     *Document
	style   string
	align   canvas.Alignment
	spacing float64
	runs    []*Run
}

// Style returns the paragraph's style id.
func (p *Paragraph) Style() string {
	return p.style
}

// AddRun implements canvas.Paragraph.
func (p *Paragraph) AddRun(text string) canvas.Run {
	r := &Run{doc: p.doc}
	r.appendText(text)
	p.runs = append(p.runs, r)
	return r
}

// Runs implements canvas.Paragraph.
func (p *Paragraph) Runs() []canvas.Run {
	out := make([]canvas.Run, len(p.runs))
	for i, r := range p.runs {
		out[i] = r
	}
	return out
}

// Text implements canvas.Paragraph.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.runs {
		sb.WriteString(r.Text())
	}
	return sb.String()
}

// SetAlignment implements canvas.Paragraph.
func (p *Paragraph) SetAlignment(a canvas.Alignment) { p.align = a }

// Alignment implements canvas.Paragraph.
func (p *Paragraph) Alignment() canvas.Alignment { return p.align }

// SetLineSpacing implements canvas.Paragraph.
func (p *Paragraph) SetLineSpacing(multiple float64) { p.spacing = multiple }

// LineSpacing implements canvas.Paragraph.
func (p *Paragraph) LineSpacing() float64 { return p.spacing }

// HasPageBreak reports whether the paragraph holds a page break.
func (p *Paragraph) HasPageBreak() bool {
	for _, r := range p.runs {
		for _, it := range r.items {
			if it.kind == itemPageBreak {
				return true
			}
		}
	}
	return false
}

// PictureCount returns the number of inline pictures in the paragraph.
func (p *Paragraph) PictureCount() int {
	n := 0
	for _, r := range p.runs {
		for _, it := range r.items {
			if it.kind == itemPicture {
				n++
			}
		}
	}
	return n
}

type itemKind int

const (
	itemText itemKind = iota
	itemBreak
	itemTab
	itemPageBreak
	itemPicture
)

// runItem is one piece of run content, kept in document order.
type runItem struct {
	kind    itemKind
	text    string
	picture *picture
}

// tristate is an on/off/unset run property.
type tristate int8

const (
	unset tristate = iota
	on
	off
)

func toTristate(v bool) tristate {
	if v {
		return on
	}
	return off
}

// Run is a WordprocessingML run. It implements canvas.Run.
type Run struct {
	doc       *Document
	items     []runItem
	font      string
	size      float64
	bold      tristate
	italic    tristate
	underline tristate
	color     *canvas.Color
}

// appendText splits text into text, tab and line break items.
func (r *Run) appendText(text string) {
	if text == "" {
		return
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			r.items = append(r.items, runItem{kind: itemBreak})
		}
		parts := strings.Split(line, "\t")
		for j, part := range parts {
			if j > 0 {
				r.items = append(r.items, runItem{kind: itemTab})
			}
			if part != "" {
				r.items = append(r.items, runItem{kind: itemText, text: part})
			}
		}
	}
}

// Text implements canvas.Run. Line breaks read back as "\n".
func (r *Run) Text() string {
	var sb strings.Builder
	for _, it := range r.items {
		switch it.kind {
		case itemText:
			sb.WriteString(it.text)
		case itemBreak:
			sb.WriteString("\n")
		case itemTab:
			sb.WriteString("\t")
		}
	}
	return sb.String()
}

// AddBreak implements canvas.Run.
func (r *Run) AddBreak() {
	r.items = append(r.items, runItem{kind: itemBreak})
}

// AddPicture implements canvas.Run.
func (r *Run) AddPicture(path string, width, height canvas.Length) error {
	pic, err := r.doc.addPicture(path, width, height, 0)
	if err != nil {
		return err
	}
	r.items = append(r.items, runItem{kind: itemPicture, picture: pic})
	return nil
}

// AddPictureWithin implements canvas.Run.
func (r *Run) AddPictureWithin(path string, maxWidth canvas.Length) error {
	pic, err := r.doc.addPicture(path, 0, 0, maxWidth)
	if err != nil {
		return err
	}
	r.items = append(r.items, runItem{kind: itemPicture, picture: pic})
	return nil
}

// SetFont implements canvas.Run.
func (r *Run) SetFont(name string) { r.font = name }

// SetSize implements canvas.Run.
func (r *Run) SetSize(points float64) { r.size = points }

// SetBold implements canvas.Run.
func (r *Run) SetBold(v bool) { r.bold = toTristate(v) }

// SetItalic implements canvas.Run.
func (r *Run) SetItalic(v bool) { r.italic = toTristate(v) }

// SetUnderline implements canvas.Run.
func (r *Run) SetUnderline(v bool) { r.underline = toTristate(v) }

// SetColor implements canvas.Run.
func (r *Run) SetColor(c canvas.Color) { r.color = &c }

// Format implements canvas.Run.
func (r *Run) Format() canvas.RunFormat {
	f := canvas.RunFormat{
		Font:      r.font,
		Size:      r.size,
		Bold:      r.bold == on,
		Italic:    r.italic == on,
		Underline: r.underline == on,
	}
	if r.color != nil {
		f.Color = *r.color
		f.HasColor = true
	}
	return f
}

// Table is a WordprocessingML table. It implements canvas.Table.
type Table struct {
	doc   *Document
	cells [][]*Cell
	width int
}

func newTable(d *Document, rows, cols, width int) *Table {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	t := &Table{doc: d, width: width}
	colWidth := width / cols
	t.cells = make([][]*Cell, rows)
	for i := range t.cells {
		t.cells[i] = make([]*Cell, cols)
		for j := range t.cells[i] {
			c := &Cell{width: colWidth}
			c.content = container{doc: d, width: colWidth}
			c.content.blocks = []block{&Paragraph{doc: d}}
			t.cells[i][j] = c
		}
	}
	return t
}

// Rows implements canvas.Table.
func (t *Table) Rows() int { return len(t.cells) }

// Cols implements canvas.Table.
func (t *Table) Cols() int { return len(t.cells[0]) }

// Cell implements canvas.Table.
func (t *Table) Cell(row, col int) canvas.Cell {
	return t.cells[row][col]
}

// CellAt returns the concrete cell at row, col.
func (t *Table) CellAt(row, col int) *Cell {
	return t.cells[row][col]
}

// Cell is a table cell. It implements canvas.Cell.
type Cell struct {
	content container
	width   int
	padding *canvas.Padding
	valign  canvas.VAlign
}

// AddHeading implements canvas.Body.
func (c *Cell) AddHeading(text string, level int) canvas.Paragraph {
	return c.content.AddHeading(text, level)
}

// AddParagraph implements canvas.Body.
func (c *Cell) AddParagraph(text string) canvas.Paragraph {
	return c.content.AddParagraph(text)
}

// AddStyledParagraph implements canvas.Body.
func (c *Cell) AddStyledParagraph(text, styleName string) canvas.Paragraph {
	return c.content.AddStyledParagraph(text, styleName)
}

// AddTable implements canvas.Body. As in Word, a paragraph follows the
// nested table so the cell never ends with a table.
func (c *Cell) AddTable(rows, cols int) canvas.Table {
	t := c.content.AddTable(rows, cols)
	c.content.blocks = append(c.content.blocks, &Paragraph{doc: c.content.doc})
	return t
}

// AddPageBreak implements canvas.Body.
func (c *Cell) AddPageBreak() {
	c.content.AddPageBreak()
}

// Paragraphs implements canvas.Cell.
func (c *Cell) Paragraphs() []canvas.Paragraph {
	ps := c.content.paragraphs()
	out := make([]canvas.Paragraph, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}

// Tables returns the tables nested directly in the cell.
func (c *Cell) Tables() []*Table {
	var out []*Table
	for _, b := range c.content.blocks {
		if t, ok := b.(*Table); ok {
			out = append(out, t)
		}
	}
	return out
}

// Text returns the text of the cell's paragraphs joined by newlines.
func (c *Cell) Text() string {
	var parts []string
	for _, p := range c.content.paragraphs() {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}

// SetText implements canvas.Cell.
func (c *Cell) SetText(text string) {
	p := &Paragraph{doc: c.content.doc}
	if text != "" {
		p.AddRun(text)
	}
	c.content.blocks = []block{p}
}

// SetPadding implements canvas.Cell.
func (c *Cell) SetPadding(p canvas.Padding) { c.padding = &p }

// Padding returns the cell margins and whether they were set.
func (c *Cell) Padding() (canvas.Padding, bool) {
	if c.padding == nil {
		return canvas.Padding{}, false
	}
	return *c.padding, true
}

// SetVerticalAlignment implements canvas.Cell.
func (c *Cell) SetVerticalAlignment(v canvas.VAlign) { c.valign = v }

// VerticalAlignment returns the cell's vertical alignment.
func (c *Cell) VerticalAlignment() canvas.VAlign { return c.valign }
