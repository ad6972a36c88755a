package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/tsawler/reportgen/canvas"
)

// Template is a Word document or template whose package parts are reused
// for generated documents.
type Template struct {
	parts    []templatePart
	document []byte
	styleIDs map[string]bool
}

type templatePart struct {
	name string
	data []byte
}

// LoadTemplate reads a .docx or .dotx file.
func LoadTemplate(filename string) (*Template, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()

	t := &Template{styleIDs: make(map[string]bool)}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		t.parts = append(t.parts, templatePart{name: f.Name, data: data})
	}

	// Validate required files exist
	for _, name := range []string{partContentTypes, partDocument} {
		if t.part(name) == nil {
			return nil, fmt.Errorf("missing required file: %s", name)
		}
	}

	t.document = t.part(partDocument)
	if !bytes.Contains(t.document, []byte("</w:body>")) {
		return nil, fmt.Errorf("template document has no w:body")
	}

	if data := t.part(partStyles); data != nil {
		var styles stylesXML
		if err := xml.Unmarshal(data, &styles); err == nil {
			for _, s := range styles.Styles {
				t.styleIDs[s.StyleID] = true
			}
		}
	}

	return t, nil
}

// clone returns a copy whose body document can be edited independently.
// The other parts are shared; they are never modified.
func (t *Template) clone() *Template {
	c := *t
	c.document = bytes.Clone(t.document)
	return &c
}

// part returns the content of a package part, or nil.
func (t *Template) part(name string) []byte {
	for _, p := range t.parts {
		if p.name == name {
			return p.data
		}
	}
	return nil
}

// HasStyle reports whether the template defines the given style id.
func (t *Template) HasStyle(id string) bool {
	return t.styleIDs[id]
}

var (
	paragraphPattern = regexp.MustCompile(`(?s)<w:p(?:\s[^>]*[^/>])?>.*?</w:p>`)
	paragraphOpen    = regexp.MustCompile(`<w:p(?:\s[^>]*[^/])?>`)
	textPattern      = regexp.MustCompile(`(?s)(<w:t(?:\s[^>]*)?>)(.*?)(</w:t>)`)
	sdtTagPattern    = regexp.MustCompile(`<w:sdt(?:\s[^>]*)?>|</w:sdt>`)
	sdtContentOpen   = regexp.MustCompile(`<w:sdtContent(?:\s[^>]*)?>`)
)

// ReplacePlaceholders substitutes each key of values (e.g. "{{INSURER}}")
// wherever it appears in a paragraph of a template-based document, including
// paragraphs inside table cells. A placeholder may span several runs; the
// paragraph's text is then rewritten into its first text element so it keeps
// that run's formatting. It returns the number of paragraphs changed.
func (d *Document) ReplacePlaceholders(values map[string]string) int {
	if d.template == nil || len(values) == 0 {
		return 0
	}

	changed := 0
	doc := paragraphPattern.ReplaceAllFunc(d.template.document, func(para []byte) []byte {
		texts := textPattern.FindAllSubmatchIndex(para, -1)
		if len(texts) == 0 {
			return para
		}

		var full strings.Builder
		for _, m := range texts {
			full.WriteString(html.UnescapeString(string(para[m[4]:m[5]])))
		}
		replaced := full.String()
		for key, value := range values {
			replaced = strings.ReplaceAll(replaced, key, value)
		}
		if replaced == full.String() {
			return para
		}
		changed++

		var out bytes.Buffer
		last := 0
		for i, m := range texts {
			out.Write(para[last:m[0]])
			if i == 0 {
				out.WriteString(textRunContent(replaced))
			} else {
				out.WriteString(`<w:t></w:t>`)
			}
			last = m[1]
		}
		out.Write(para[last:])
		return out.Bytes()
	})

	d.template.document = doc
	return changed
}

// textRunContent renders text as the content of a run: line breaks become
// w:br and tabs become w:tab between preserved text elements.
func textRunContent(text string) string {
	var b xmlBuilder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.empty("w:br")
		}
		for j, part := range strings.Split(line, "\t") {
			if j > 0 {
				b.empty("w:tab")
			}
			b.open("w:t", "xml:space", "preserve")
			b.text(part)
			b.close("w:t")
		}
	}
	return b.String()
}

// ReplacePictureControl replaces the content of the content control whose tag
// is tag with the picture at path, scaled to width. A control inside a
// paragraph receives a run; a block-level control receives a paragraph. It
// reports whether the control was found.
func (d *Document) ReplacePictureControl(tag, path string, width canvas.Length) (bool, error) {
	if d.template == nil {
		return false, nil
	}

	doc := d.template.document
	start, end, ok := findControl(doc, tag)
	if !ok {
		return false, nil
	}
	sdt := doc[start:end]

	open := sdtContentOpen.FindIndex(sdt)
	closeAt := bytes.LastIndex(sdt, []byte("</w:sdtContent>"))
	if open == nil || closeAt < open[1] {
		return true, fmt.Errorf("content control %q has no content", tag)
	}

	pic, err := d.addPicture(path, width, 0, 0)
	if err != nil {
		return true, err
	}

	inline := insideParagraph(doc[:start])
	var b xmlBuilder
	if !inline {
		b.open("w:p")
	}
	b.open("w:r")
	pic.writeXML(&b)
	b.close("w:r")
	if !inline {
		b.close("w:p")
	}

	var out bytes.Buffer
	out.Write(doc[:start])
	out.Write(sdt[:open[1]])
	out.WriteString(b.String())
	out.Write(sdt[closeAt:])
	out.Write(doc[end:])
	d.template.document = out.Bytes()
	return true, nil
}

// findControl returns the bounds of the first w:sdt element whose own
// properties carry tag. Controls nest, so each start tag is paired with its
// matching end tag by depth.
func findControl(doc []byte, tag string) (start, end int, ok bool) {
	tagAttr := []byte(`<w:tag w:val="` + tag + `"/>`)
	var stack []int
	for _, m := range sdtTagPattern.FindAllIndex(doc, -1) {
		if doc[m[0]+1] != '/' {
			stack = append(stack, m[0])
			continue
		}
		if len(stack) == 0 {
			continue
		}
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// w:sdtPr comes first and cannot hold another control.
		el := doc[s:m[1]]
		prEnd := bytes.Index(el, []byte("</w:sdtPr>"))
		content := sdtContentOpen.FindIndex(el)
		if prEnd < 0 || (content != nil && content[0] < prEnd) || !bytes.Contains(el[:prEnd], tagAttr) {
			continue
		}
		if !ok || s < start {
			start, end, ok = s, m[1], true
		}
	}
	return start, end, ok
}

// insideParagraph reports whether the end of prefix lies inside an open w:p.
func insideParagraph(prefix []byte) bool {
	opens := paragraphOpen.FindAllIndex(prefix, -1)
	if len(opens) == 0 {
		return false
	}
	return bytes.LastIndex(prefix, []byte("</w:p>")) < opens[len(opens)-1][0]
}
