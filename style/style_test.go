package style

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tsawler/reportgen/canvas"
	"github.com/tsawler/reportgen/docx"
)

func TestResolve(t *testing.T) {
	r := Default()

	h1 := r.Resolve(Heading1)
	want := Spec{
		Font: "Times New Roman", Size: 18, Bold: true, Underline: true,
		Color: AccentColor, Alignment: canvas.AlignCenter, LineSpacing: 1.5,
	}
	if diff := cmp.Diff(want, h1); diff != "" {
		t.Errorf("Resolve(Heading 1) mismatch (-want +got):\n%s", diff)
	}

	if got := r.Resolve("No Such Style"); got != r.Resolve(Normal) {
		t.Errorf("unknown style should resolve to Normal, got %+v", got)
	}
	if r.Resolve(Conclusion) != r.Resolve(Heading3) {
		t.Error("Conclusion should look like Heading 3")
	}
	if r.Resolve(ListParagraph).Bold != true {
		t.Error("List Paragraph should be bold")
	}
}

func TestPalettes(t *testing.T) {
	if got := NewRegistry(Mono).Resolve(Heading3).Color; got != Black {
		t.Errorf("mono heading colour = %v", got)
	}
	if got := NewRegistry(Accent).Resolve(Heading3).Color.Hex(); got != "2F5496" {
		t.Errorf("accent heading colour = %s", got)
	}
	if NewRegistry(Accent).Accent() != AccentColor || NewRegistry(Mono).Accent() != Black {
		t.Error("Accent() does not follow the palette")
	}
	if NewRegistry(Mono).WithFont("Arial").Accent() != Black {
		t.Error("copies must keep the accent colour")
	}

	tests := []struct {
		in      string
		want    Palette
		wantErr bool
	}{
		{"", Accent, false},
		{"Accent", Accent, false},
		{" mono ", Mono, false},
		{"neon", Accent, true},
	}
	for _, tt := range tests {
		got, err := ParsePalette(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParsePalette(%q) = %v, %v", tt.in, got, err)
		}
	}
	if Mono.String() != "mono" {
		t.Errorf("Mono.String() = %q", Mono.String())
	}
}

func TestApply(t *testing.T) {
	r := Default()
	doc := docx.New()
	p := doc.AddParagraph("")
	label := p.AddRun("Insurer: ")
	label.SetBold(true)
	p.AddRun("Acme")

	r.Apply(p, Normal)

	if p.LineSpacing() != 1.15 {
		t.Errorf("line spacing = %v", p.LineSpacing())
	}
	if p.Alignment() != canvas.AlignInherit {
		t.Error("Normal defines no alignment and must not set one")
	}
	for i, run := range p.Runs() {
		f := run.Format()
		if f.Font != "Times New Roman" || f.Size != 12 || f.Bold || !f.HasColor || f.Color != Black {
			t.Errorf("run %d format = %+v", i, f)
		}
	}
}

func TestApplyIdempotent(t *testing.T) {
	r := Default()
	doc := docx.New()

	once := doc.AddHeading("PHOTOGRAPHS", 1)
	once.AddRun("").AddBreak()
	r.Apply(once, Heading1)

	twice := doc.AddHeading("PHOTOGRAPHS", 1)
	twice.AddRun("").AddBreak()
	r.Apply(twice, Heading1)
	r.Apply(twice, Heading1)

	if once.Alignment() != twice.Alignment() || once.LineSpacing() != twice.LineSpacing() {
		t.Error("paragraph formatting differs after re-applying")
	}
	a, b := once.Runs(), twice.Runs()
	if len(a) != len(b) {
		t.Fatalf("run counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if diff := cmp.Diff(a[i].Format(), b[i].Format()); diff != "" {
			t.Errorf("run %d differs (-once +twice):\n%s", i, diff)
		}
	}
}

func TestWithFont(t *testing.T) {
	base := Default()
	arial := base.WithFont("Arial")

	for _, name := range arial.Names() {
		if arial.Resolve(name).Font != "Arial" {
			t.Errorf("%s font = %q", name, arial.Resolve(name).Font)
		}
	}
	if base.Resolve(Normal).Font != "Times New Roman" {
		t.Error("WithFont must not modify the receiver")
	}
	if base.WithFont("") != base {
		t.Error("empty font should return the receiver")
	}

	names := base.Names()
	sort.Strings(names)
	want := []string{Conclusion, Heading1, Heading3, ListParagraph, Normal}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestWith(t *testing.T) {
	base := Default()
	custom := base.With("Caption", Spec{Font: "Arial", Size: 9, LineSpacing: 1})
	if custom.Resolve("Caption").Size != 9 {
		t.Error("With() did not register the style")
	}
	if base.Resolve("Caption") != base.Resolve(Normal) {
		t.Error("With() must not modify the receiver")
	}
}
