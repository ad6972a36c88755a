package reportgen

import (
	"archive/zip"
	"bytes"
	"html"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/tsawler/reportgen/docx"
	"github.com/tsawler/reportgen/imageset"
	"github.com/tsawler/reportgen/xlsx"
)

// writeWorkbook writes a one-sheet XLSX whose rows hold inline strings and
// returns its path. The first row is the header.
func writeWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()

	var data strings.Builder
	for r, row := range rows {
		data.WriteString(`<row r="` + strconv.Itoa(r+1) + `">`)
		for c, v := range row {
			ref := xlsx.IndexToColumn(c) + strconv.Itoa(r+1)
			data.WriteString(`<c r="` + ref + `" t="inlineStr"><is><t>` + html.EscapeString(v) + `</t></is></c>`)
		}
		data.WriteString(`</row>`)
	}

	files := []struct{ name, body string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>
</Types>`},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="xl/workbook.xml"/>
</Relationships>`},
		{"xl/_rels/workbook.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
</Relationships>`},
		{"xl/workbook.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="Claims" sheetId="1" r:id="rId1"/></sheets></workbook>`},
		{"xl/worksheets/sheet1.xml", `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>` +
			data.String() + `</sheetData></worksheet>`},
	}

	p := filepath.Join(t.TempDir(), "cases.xlsx")
	writeZip(t, p, files)
	return p
}

// writeTemplate writes a minimal .docx whose body is body.
func writeTemplate(t *testing.T, body string) string {
	t.Helper()
	files := []struct{ name, body string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`},
		{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>` + body + `</w:body>
</w:document>`},
	}
	p := filepath.Join(t.TempDir(), "template.docx")
	writeZip(t, p, files)
	return p
}

func writeZip(t *testing.T, path string, files []struct{ name, body string }) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			t.Fatalf("Failed to create %s in zip: %v", f.name, err)
		}
		if _, err := w.Write([]byte(f.body)); err != nil {
			t.Fatalf("Failed to write %s: %v", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// writePNG writes a w×h PNG and returns its path.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 160, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// caseImages builds a set with a header image and n kitchen photographs.
func caseImages(t *testing.T, n int) imageset.Set {
	t.Helper()
	dir := t.TempDir()
	set := imageset.Set{Groups: []imageset.Group{
		{Name: "home", Images: []string{writePNG(t, filepath.Join(dir, "home"), "front.png", 40, 20)}},
	}}
	if n > 0 {
		kitchen := imageset.Group{Name: "Kitchen"}
		for i := 0; i < n; i++ {
			kitchen.Images = append(kitchen.Images, writePNG(t, filepath.Join(dir, "Kitchen"), string(rune('a'+i))+".png", 8, 8))
		}
		set.Groups = append(set.Groups, kitchen)
	}
	return set
}

// claimRows is a header and two cases.
var claimRows = [][]string{
	{"Policyholder", "Insurer", "Claim #", "Scope of Work", "Conclusion"},
	{"Alice", "Acme", "C-1", "Dry out basement", "Covered."},
	{"Bob", "Zenith", "C-2", "Replace roof", "Declined."},
}

type recorder struct{ messages []string }

func (r *recorder) log(m string) { r.messages = append(r.messages, m) }

func (r *recorder) has(m string) bool {
	for _, got := range r.messages {
		if got == m {
			return true
		}
	}
	return false
}

func (r *recorder) hasPrefix(prefix string) bool {
	for _, got := range r.messages {
		if strings.HasPrefix(got, prefix) {
			return true
		}
	}
	return false
}

func openDoc(t *testing.T, path string) *docx.Reader {
	t.Helper()
	r, err := docx.Open(path)
	if err != nil {
		t.Fatalf("docx.Open(%s) error = %v", path, err)
	}
	return r
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
