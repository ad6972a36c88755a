package docx

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/tsawler/reportgen/canvas"
)

// Namespaces declared on the drawing fragments so they stay valid inside any
// template's document root.
const (
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
)

// twipsPerLine is the OOXML value for single line spacing.
const twipsPerLine = 240

// xmlBuilder accumulates WordprocessingML markup.
type xmlBuilder struct {
	sb strings.Builder
}

func (b *xmlBuilder) raw(s string) {
	b.sb.WriteString(s)
}

// open writes a start tag with attributes given as name/value pairs.
func (b *xmlBuilder) open(name string, attrs ...string) {
	b.sb.WriteByte('<')
	b.sb.WriteString(name)
	b.attrs(attrs)
	b.sb.WriteByte('>')
}

// empty writes a self-closing element.
func (b *xmlBuilder) empty(name string, attrs ...string) {
	b.sb.WriteByte('<')
	b.sb.WriteString(name)
	b.attrs(attrs)
	b.sb.WriteString("/>")
}

func (b *xmlBuilder) close(name string) {
	b.sb.WriteString("</")
	b.sb.WriteString(name)
	b.sb.WriteByte('>')
}

func (b *xmlBuilder) attrs(attrs []string) {
	for i := 0; i+1 < len(attrs); i += 2 {
		b.sb.WriteByte(' ')
		b.sb.WriteString(attrs[i])
		b.sb.WriteString(`="`)
		b.text(attrs[i+1])
		b.sb.WriteByte('"')
	}
}

func (b *xmlBuilder) text(s string) {
	_ = xml.EscapeText(&b.sb, []byte(s))
}

func (b *xmlBuilder) String() string {
	return b.sb.String()
}

// bodyXML renders the body blocks without the enclosing w:body element.
func (d *Document) bodyXML() string {
	var b xmlBuilder
	for _, blk := range d.body.blocks {
		blk.writeXML(&b)
	}
	return b.String()
}

func (p *Paragraph) writeXML(b *xmlBuilder) {
	b.open("w:p")
	if p.style != "" || p.spacing > 0 || p.align != canvas.AlignInherit {
		b.open("w:pPr")
		if p.style != "" {
			b.empty("w:pStyle", "w:val", p.style)
		}
		if p.spacing > 0 {
			line := int(p.spacing*twipsPerLine + 0.5)
			b.empty("w:spacing", "w:line", strconv.Itoa(line), "w:lineRule", "auto")
		}
		if p.align != canvas.AlignInherit {
			b.empty("w:jc", "w:val", p.align.String())
		}
		b.close("w:pPr")
	}
	for _, r := range p.runs {
		r.writeXML(b)
	}
	b.close("w:p")
}

func (r *Run) writeXML(b *xmlBuilder) {
	b.open("w:r")
	r.writeProps(b)
	for _, it := range r.items {
		switch it.kind {
		case itemText:
			b.open("w:t", "xml:space", "preserve")
			b.text(it.text)
			b.close("w:t")
		case itemBreak:
			b.empty("w:br")
		case itemTab:
			b.empty("w:tab")
		case itemPageBreak:
			b.empty("w:br", "w:type", "page")
		case itemPicture:
			it.picture.writeXML(b)
		}
	}
	b.close("w:r")
}

func (r *Run) writeProps(b *xmlBuilder) {
	if r.font == "" && r.size == 0 && r.bold == unset && r.italic == unset &&
		r.underline == unset && r.color == nil {
		return
	}
	b.open("w:rPr")
	if r.font != "" {
		b.empty("w:rFonts", "w:ascii", r.font, "w:hAnsi", r.font, "w:cs", r.font, "w:eastAsia", r.font)
	}
	writeToggle(b, "w:b", r.bold)
	writeToggle(b, "w:i", r.italic)
	if r.color != nil {
		b.empty("w:color", "w:val", r.color.Hex())
	}
	if r.size > 0 {
		half := strconv.Itoa(int(r.size*2 + 0.5))
		b.empty("w:sz", "w:val", half)
		b.empty("w:szCs", "w:val", half)
	}
	switch r.underline {
	case on:
		b.empty("w:u", "w:val", "single")
	case off:
		b.empty("w:u", "w:val", "none")
	}
	b.close("w:rPr")
}

func writeToggle(b *xmlBuilder, name string, v tristate) {
	switch v {
	case on:
		b.empty(name)
	case off:
		b.empty(name, "w:val", "0")
	}
}

func (t *Table) writeXML(b *xmlBuilder) {
	b.open("w:tbl")
	b.open("w:tblPr")
	b.empty("w:tblW", "w:w", "0", "w:type", "auto")
	b.empty("w:tblLayout", "w:type", "autofit")
	b.empty("w:tblLook", "w:val", "04A0", "w:firstRow", "1", "w:lastRow", "0",
		"w:firstColumn", "1", "w:lastColumn", "0", "w:noHBand", "0", "w:noVBand", "1")
	b.close("w:tblPr")

	b.open("w:tblGrid")
	for _, c := range t.cells[0] {
		b.empty("w:gridCol", "w:w", strconv.Itoa(c.width))
	}
	b.close("w:tblGrid")

	for _, row := range t.cells {
		b.open("w:tr")
		for _, c := range row {
			c.writeXML(b)
		}
		b.close("w:tr")
	}
	b.close("w:tbl")
}

func (c *Cell) writeXML(b *xmlBuilder) {
	b.open("w:tc")
	b.open("w:tcPr")
	b.empty("w:tcW", "w:w", strconv.Itoa(c.width), "w:type", "dxa")
	if c.padding != nil {
		b.open("w:tcMar")
		b.empty("w:top", "w:w", strconv.Itoa(int(c.padding.Top)), "w:type", "dxa")
		b.empty("w:left", "w:w", strconv.Itoa(int(c.padding.Start)), "w:type", "dxa")
		b.empty("w:bottom", "w:w", strconv.Itoa(int(c.padding.Bottom)), "w:type", "dxa")
		b.empty("w:right", "w:w", strconv.Itoa(int(c.padding.End)), "w:type", "dxa")
		b.close("w:tcMar")
	}
	if c.valign != canvas.VAlignInherit {
		b.empty("w:vAlign", "w:val", c.valign.String())
	}
	b.close("w:tcPr")

	blocks := c.content.blocks
	if len(blocks) == 0 {
		b.empty("w:p")
	}
	for _, blk := range blocks {
		blk.writeXML(b)
	}
	if len(blocks) > 0 {
		if _, ok := blocks[len(blocks)-1].(*Table); ok {
			b.empty("w:p")
		}
	}
	b.close("w:tc")
}

func (p *picture) writeXML(b *xmlBuilder) {
	cx := strconv.FormatInt(int64(p.width), 10)
	cy := strconv.FormatInt(int64(p.height), 10)
	id := strconv.Itoa(p.id)

	b.open("w:drawing")
	b.open("wp:inline", "xmlns:wp", nsWP, "distT", "0", "distB", "0", "distL", "0", "distR", "0")
	b.empty("wp:extent", "cx", cx, "cy", cy)
	b.empty("wp:docPr", "id", id, "name", "Picture "+id)
	b.open("wp:cNvGraphicFramePr")
	b.empty("a:graphicFrameLocks", "xmlns:a", nsA, "noChangeAspect", "1")
	b.close("wp:cNvGraphicFramePr")
	b.open("a:graphic", "xmlns:a", nsA)
	b.open("a:graphicData", "uri", nsPic)
	b.open("pic:pic", "xmlns:pic", nsPic)
	b.open("pic:nvPicPr")
	b.empty("pic:cNvPr", "id", id, "name", p.name)
	b.empty("pic:cNvPicPr")
	b.close("pic:nvPicPr")
	b.open("pic:blipFill")
	b.empty("a:blip", "xmlns:r", nsR, "r:embed", p.relID)
	b.open("a:stretch")
	b.empty("a:fillRect")
	b.close("a:stretch")
	b.close("pic:blipFill")
	b.open("pic:spPr")
	b.open("a:xfrm")
	b.empty("a:off", "x", "0", "y", "0")
	b.empty("a:ext", "cx", cx, "cy", cy)
	b.close("a:xfrm")
	b.open("a:prstGeom", "prst", "rect")
	b.empty("a:avLst")
	b.close("a:prstGeom")
	b.close("pic:spPr")
	b.close("pic:pic")
	b.close("a:graphicData")
	b.close("a:graphic")
	b.close("wp:inline")
	b.close("w:drawing")
}
