// Package docx writes and reads WordprocessingML (.docx) documents.
//
// Document builds a report in memory and serializes it either as a blank
// package or on top of a Template's parts. Reader opens a finished file and
// exposes its body as ordered blocks for inspection and tests.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// Reader provides access to DOCX document content.
type Reader struct {
	blocks      []Block
	controlTags []string
	styleNames  map[string]string
	media       []string
	mainType    string
	coreProps   corePropertiesXML
	relsByID    map[string]string
	contentType map[string]string
}

// Block is a body-level element. Exactly one of Paragraph and Table is set.
type Block struct {
	Paragraph *ParagraphInfo
	Table     *TableInfo
}

// ParagraphInfo is a paragraph read back from a document.
type ParagraphInfo struct {
	Style       string
	Alignment   string
	LineSpacing float64 // multiple of single spacing, 0 when unset
	Runs        []RunInfo
}

// RunInfo is a run read back from a document.
type RunInfo struct {
	Text      string // breaks read as "\n", tabs as "\t"
	Font      string
	Size      float64 // points
	Bold      bool
	Italic    bool
	Underline bool
	Color     string // hex, empty when unset
	Pictures  int
	PageBreak bool
}

// TableInfo is a table read back from a document.
type TableInfo struct {
	Rows [][]CellInfo
}

// CellInfo is a table cell read back from a document.
type CellInfo struct {
	Width      int // twips
	VAlign     string
	Margins    [4]int // top, start, bottom, end in twips
	HasMargins bool
	Blocks     []Block
}

// Open opens a DOCX file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()
	return newReader(&zr.Reader)
}

// OpenBytes reads a DOCX package held in memory.
func OpenBytes(data []byte) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return newReader(zr)
}

func newReader(zr *zip.Reader) (*Reader, error) {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	// Validate required files exist
	for _, name := range []string{partContentTypes, partDocument} {
		if files[name] == nil {
			return nil, fmt.Errorf("missing required file: %s", name)
		}
	}

	r := &Reader{
		styleNames:  make(map[string]string),
		relsByID:    make(map[string]string),
		contentType: make(map[string]string),
	}

	data, err := readZipFile(files[partContentTypes])
	if err != nil {
		return nil, err
	}
	var ct contentTypesXML
	if err := xml.Unmarshal(data, &ct); err != nil {
		return nil, fmt.Errorf("parsing content types: %w", err)
	}
	for _, o := range ct.Overrides {
		r.contentType[strings.TrimPrefix(o.PartName, "/")] = o.ContentType
	}
	r.mainType = r.contentType[partDocument]

	data, err = readZipFile(files[partDocument])
	if err != nil {
		return nil, err
	}
	var doc documentXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling document.xml: %w", err)
	}
	r.blocks = convertFlow(doc.Body)
	r.controlTags = controlTags(data)

	// Styles, relationships and metadata are optional.
	if f := files[partStyles]; f != nil {
		if data, err := readZipFile(f); err == nil {
			var styles stylesXML
			if xml.Unmarshal(data, &styles) == nil {
				for _, s := range styles.Styles {
					r.styleNames[s.StyleID] = s.Name.Val
				}
			}
		}
	}
	if f := files[partDocumentRels]; f != nil {
		if data, err := readZipFile(f); err == nil {
			var rels relationshipsXML
			if xml.Unmarshal(data, &rels) == nil {
				for _, rel := range rels.Relationships {
					r.relsByID[rel.ID] = rel.Target
				}
			}
		}
	}
	if f := files[partCore]; f != nil {
		if data, err := readZipFile(f); err == nil {
			xml.Unmarshal(data, &r.coreProps)
		}
	}

	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/media/") && !f.FileInfo().IsDir() {
			r.media = append(r.media, path.Base(f.Name))
		}
	}

	return r, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	return data, nil
}

// Blocks returns the body's paragraphs and tables in document order.
func (r *Reader) Blocks() []Block {
	return r.blocks
}

// Paragraphs returns the top-level paragraphs.
func (r *Reader) Paragraphs() []*ParagraphInfo {
	var out []*ParagraphInfo
	for _, b := range r.blocks {
		if b.Paragraph != nil {
			out = append(out, b.Paragraph)
		}
	}
	return out
}

// Tables returns the top-level tables.
func (r *Reader) Tables() []*TableInfo {
	var out []*TableInfo
	for _, b := range r.blocks {
		if b.Table != nil {
			out = append(out, b.Table)
		}
	}
	return out
}

// StyleName returns the display name of a style id, or "" when the styles
// part does not define it.
func (r *Reader) StyleName(id string) string {
	return r.styleNames[id]
}

// MediaNames returns the file names stored under word/media.
func (r *Reader) MediaNames() []string {
	return r.media
}

// RelationshipTarget returns the target of a document relationship.
func (r *Reader) RelationshipTarget(id string) (string, bool) {
	t, ok := r.relsByID[id]
	return t, ok
}

// MainContentType returns the content type of word/document.xml.
func (r *Reader) MainContentType() string {
	return r.mainType
}

// CoreProperties returns the document metadata.
func (r *Reader) CoreProperties() CoreProperties {
	return CoreProperties{
		Title:   r.coreProps.Title,
		Subject: r.coreProps.Subject,
		Creator: r.coreProps.Creator,
	}
}

// Text extracts all text content, including text inside tables, one
// paragraph per line.
func (r *Reader) Text() string {
	var lines []string
	collectText(r.blocks, &lines)
	return strings.Join(lines, "\n")
}

var placeholderPattern = regexp.MustCompile(`\{\{[^{}\n]+\}\}`)

// Placeholders returns the distinct {{TOKEN}} placeholders in the body, in
// document order.
func (r *Reader) Placeholders() []string {
	var out []string
	seen := make(map[string]bool)
	for _, tok := range placeholderPattern.FindAllString(r.Text(), -1) {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}

// ControlTags returns the tags of the body's content controls in document
// order.
func (r *Reader) ControlTags() []string {
	return r.controlTags
}

// controlTags scans document.xml for w:tag elements in content control
// properties.
func controlTags(data []byte) []string {
	var tags []string
	d := xml.NewDecoder(bytes.NewReader(data))
	inProps := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return tags
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch {
			case el.Name.Local == "sdtPr":
				inProps++
			case el.Name.Local == "tag" && inProps > 0:
				for _, a := range el.Attr {
					if a.Name.Local == "val" {
						tags = append(tags, a.Value)
					}
				}
			}
		case xml.EndElement:
			if el.Name.Local == "sdtPr" && inProps > 0 {
				inProps--
			}
		}
	}
}

func collectText(blocks []Block, lines *[]string) {
	for _, b := range blocks {
		switch {
		case b.Paragraph != nil:
			*lines = append(*lines, b.Paragraph.Text())
		case b.Table != nil:
			for _, row := range b.Table.Rows {
				for _, c := range row {
					collectText(c.Blocks, lines)
				}
			}
		}
	}
}

// Text returns the concatenated text of the paragraph's runs.
func (p *ParagraphInfo) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Pictures returns the number of inline pictures in the paragraph.
func (p *ParagraphInfo) Pictures() int {
	n := 0
	for _, r := range p.Runs {
		n += r.Pictures
	}
	return n
}

// HeadingLevel returns the outline level implied by the paragraph style:
// 0 for Title, 1-9 for HeadingN and -1 otherwise.
func (p *ParagraphInfo) HeadingLevel() int {
	id := strings.ToLower(p.Style)
	if id == "title" {
		return 0
	}
	if n, ok := strings.CutPrefix(id, "heading"); ok {
		if level, err := strconv.Atoi(n); err == nil && level >= 1 && level <= 9 {
			return level
		}
	}
	return -1
}

// Paragraphs returns the paragraphs directly inside the cell.
func (c *CellInfo) Paragraphs() []*ParagraphInfo {
	var out []*ParagraphInfo
	for _, b := range c.Blocks {
		if b.Paragraph != nil {
			out = append(out, b.Paragraph)
		}
	}
	return out
}

// Tables returns the tables nested directly inside the cell.
func (c *CellInfo) Tables() []*TableInfo {
	var out []*TableInfo
	for _, b := range c.Blocks {
		if b.Table != nil {
			out = append(out, b.Table)
		}
	}
	return out
}

// Text returns the cell's paragraph text joined by newlines.
func (c *CellInfo) Text() string {
	var parts []string
	for _, p := range c.Paragraphs() {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}

func convertFlow(f flowXML) []Block {
	out := make([]Block, 0, len(f.Blocks))
	for _, b := range f.Blocks {
		switch {
		case b.Paragraph != nil:
			out = append(out, Block{Paragraph: convertParagraph(b.Paragraph)})
		case b.Table != nil:
			out = append(out, Block{Table: convertTable(b.Table)})
		}
	}
	return out
}

func convertParagraph(p *paragraphXML) *ParagraphInfo {
	info := &ParagraphInfo{
		Style:     p.Properties.Style.Val,
		Alignment: p.Properties.Justify.Val,
	}
	if line := twipsAttr(p.Properties.Spacing.Line); line > 0 &&
		(p.Properties.Spacing.LineRule == "" || p.Properties.Spacing.LineRule == "auto") {
		info.LineSpacing = float64(line) / twipsPerLine
	}
	for _, r := range p.Runs {
		info.Runs = append(info.Runs, convertRun(r))
	}
	return info
}

func convertRun(r runXML) RunInfo {
	props := r.Properties
	info := RunInfo{
		Font:      props.Fonts.ASCII,
		Bold:      props.Bold.enabled(),
		Italic:    props.Italic.enabled(),
		Underline: props.Underline.enabled(),
		Color:     props.Color.Val,
	}
	if half := twipsAttr(props.Size.Val); half > 0 {
		info.Size = float64(half) / 2
	}

	var sb strings.Builder
	for _, it := range r.Items {
		switch it.Kind {
		case itemText:
			sb.WriteString(it.Text)
		case itemBreak:
			sb.WriteString("\n")
		case itemTab:
			sb.WriteString("\t")
		case itemPageBreak:
			info.PageBreak = true
		case itemPicture:
			info.Pictures++
		}
	}
	info.Text = sb.String()
	return info
}

func convertTable(t *tableXML) *TableInfo {
	info := &TableInfo{Rows: make([][]CellInfo, len(t.Rows))}
	for i, row := range t.Rows {
		for _, c := range row.Cells {
			cell := CellInfo{
				Width:  twipsAttr(c.Properties.Width.W),
				VAlign: c.Properties.VAlign.Val,
				Blocks: convertFlow(c.Content),
			}
			if m := c.Properties.Margins; m.XMLName.Local != "" {
				cell.HasMargins = true
				cell.Margins = [4]int{
					twipsAttr(m.Top.W),
					twipsAttr(firstNonEmpty(m.Start.W, m.Left.W)),
					twipsAttr(m.Bottom.W),
					twipsAttr(firstNonEmpty(m.End.W, m.Right.W)),
				}
			}
			info.Rows[i] = append(info.Rows[i], cell)
		}
	}
	return info
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
