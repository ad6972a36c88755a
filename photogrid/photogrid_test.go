package photogrid

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tsawler/reportgen/canvas"
	"github.com/tsawler/reportgen/docx"
	"github.com/tsawler/reportgen/imageset"
	"github.com/tsawler/reportgen/style"
)

// writePNG writes a w×h PNG and returns its path.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 90, B: 160, A: 255})
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

func writePNGs(t *testing.T, dir, prefix string, n int) []string {
	t.Helper()
	var out []string
	for i := 0; i < n; i++ {
		out = append(out, writePNG(t, dir, prefix+string(rune('a'+i))+".png", 8, 8))
	}
	return out
}

type recorder struct{ messages []string }

func (r *recorder) log(m string) { r.messages = append(r.messages, m) }

func paragraphTexts(doc *docx.Document) []string {
	var out []string
	for _, p := range doc.Paragraphs() {
		out = append(out, p.Text())
	}
	return out
}

func TestComposeFiveImagesMakeTwoTables(t *testing.T) {
	dir := t.TempDir()
	set := imageset.Set{Groups: []imageset.Group{
		{Name: "Kitchen", Images: writePNGs(t, dir, "k", 5)},
	}}

	doc := docx.New()
	var rec recorder
	n := NewComposer(style.Default(), rec.log).Compose(doc, set)

	if n != 2 || len(doc.Tables()) != 2 {
		t.Fatalf("Compose() = %d tables, document has %d; want 2", n, len(doc.Tables()))
	}
	second := doc.Tables()[1]
	if second.CellAt(0, 0).Paragraphs()[0].(*docx.Paragraph).PictureCount() != 1 {
		t.Error("the fifth image belongs in the first cell of the second table")
	}
	if _, ok := second.CellAt(0, 1).Padding(); ok {
		t.Error("empty cells keep default padding")
	}
	if len(rec.messages) != 0 {
		t.Errorf("unexpected messages: %v", rec.messages)
	}
}

func TestComposeSectionStructure(t *testing.T) {
	dir := t.TempDir()
	set := imageset.Set{Groups: []imageset.Group{
		{Name: "Home", Images: writePNGs(t, dir, "h", 1)},
		{Name: "Kitchen", Images: writePNGs(t, dir, "k", 4)},
		{Name: "living room", Images: writePNGs(t, dir, "l", 1)},
	}}

	doc := docx.New()
	NewComposer(style.Default(), nil).Compose(doc, set)

	want := []string{"", "PHOTOGRAPHS\n", "KITCHEN\n", "", "LIVING ROOM\n"}
	if diff := cmp.Diff(want, paragraphTexts(doc)); diff != "" {
		t.Errorf("paragraphs mismatch (-want +got):\n%s", diff)
	}

	ps := doc.Paragraphs()
	if !ps[0].HasPageBreak() || !ps[3].HasPageBreak() {
		t.Error("expected page breaks before the section and between rooms")
	}
	if ps[len(ps)-1].HasPageBreak() {
		t.Error("no page break after the last room")
	}
	if ps[1].Style() != "Heading1" || ps[1].Alignment() != canvas.AlignCenter {
		t.Errorf("section heading style = %q", ps[1].Style())
	}
	room := ps[2]
	if room.Style() != "Heading3" || room.Alignment() != canvas.AlignCenter {
		t.Errorf("room heading style = %q align = %v", room.Style(), room.Alignment())
	}
	for _, r := range room.Runs() {
		if f := r.Format(); f.Size != RoomHeadingSize || f.Bold {
			t.Errorf("room heading run format = %+v", f)
		}
	}

	grid := doc.Tables()[0]
	for col, want := range []canvas.Alignment{canvas.AlignRight, canvas.AlignLeft} {
		cell := grid.CellAt(1, col)
		if got := cell.Paragraphs()[0].Alignment(); got != want {
			t.Errorf("cell (1,%d) alignment = %v, want %v", col, got, want)
		}
		if pad, ok := cell.Padding(); !ok || pad != canvas.UniformPadding(200) {
			t.Errorf("cell (1,%d) padding = %+v, %v", col, pad, ok)
		}
	}
}

func TestComposeOnlyHeader(t *testing.T) {
	dir := t.TempDir()
	set := imageset.Set{Groups: []imageset.Group{{Name: "home", Images: writePNGs(t, dir, "h", 1)}}}

	doc := docx.New()
	NewComposer(style.Default(), nil).Compose(doc, set)

	texts := paragraphTexts(doc)
	if texts[len(texts)-1] != NoPhotographs {
		t.Errorf("got %q", texts)
	}
}

func TestComposeEmptySet(t *testing.T) {
	doc := docx.New()
	if n := NewComposer(style.Default(), nil).Compose(doc, imageset.Set{}); n != 0 {
		t.Errorf("Compose() = %d", n)
	}
	if len(doc.Paragraphs()) != 0 {
		t.Error("an empty set writes nothing")
	}
}

func TestComposeBadImage(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.jpg")
	os.WriteFile(bad, []byte("not a jpeg"), 0o644)
	set := imageset.Set{Groups: []imageset.Group{
		{Name: "Garage", Images: append(writePNGs(t, dir, "g", 1), bad)},
	}}

	doc := docx.New()
	var rec recorder
	NewComposer(style.Default(), rec.log).Compose(doc, set)

	if got := doc.Tables()[0].CellAt(0, 1).Text(); got != ImageMissing {
		t.Errorf("failed cell text = %q", got)
	}
	if len(rec.messages) != 1 || !strings.HasPrefix(rec.messages[0], "[WARNING] Failed to insert image "+bad+": ") {
		t.Errorf("messages = %v", rec.messages)
	}
}

func TestPlaceHeader(t *testing.T) {
	dir := t.TempDir()
	home := writePNG(t, dir, "front.png", 720, 360)

	doc := docx.New()
	slot := doc.AddTable(1, 1).(*docx.Table).CellAt(0, 0)
	c := NewComposer(style.Default(), nil)
	c.PlaceHeader(slot, imageset.Set{Groups: []imageset.Group{{Name: "HOME", Images: []string{home}}}})

	p := slot.Paragraphs()[0].(*docx.Paragraph)
	if p.PictureCount() != 1 || p.Alignment() != canvas.AlignCenter {
		t.Errorf("header paragraph: %d pictures, align %v", p.PictureCount(), p.Alignment())
	}
	if p.Text() != "\n\n\n" {
		t.Errorf("header run text = %q, want three breaks", p.Text())
	}
	if slot.VerticalAlignment() != canvas.VAlignCenter {
		t.Error("slot should be vertically centred")
	}
}

func TestPlaceHeaderPlaceholders(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "home.png")
	os.WriteFile(bad, []byte("garbage"), 0o644)

	tests := []struct {
		name     string
		set      imageset.Set
		want     string
		warnings int
	}{
		{"no header group", imageset.Set{Groups: []imageset.Group{{Name: "Kitchen", Images: []string{bad}}}}, HeaderNotProvided, 0},
		{"unreadable image", imageset.Set{Groups: []imageset.Group{{Name: "Home", Images: []string{bad}}}}, HeaderMissing, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := docx.New()
			slot := doc.AddTable(1, 1).(*docx.Table).CellAt(0, 0)
			var rec recorder
			NewComposer(style.Default(), rec.log).PlaceHeader(slot, tt.set)

			if slot.Text() != tt.want {
				t.Errorf("slot text = %q, want %q", slot.Text(), tt.want)
			}
			if len(rec.messages) != tt.warnings {
				t.Errorf("messages = %v", rec.messages)
			}
		})
	}
}
