// Package style holds the named paragraph looks used in case reports and
// applies them to canvas paragraphs.
package style

import (
	"fmt"
	"strings"

	"github.com/tsawler/reportgen/canvas"
)

// Style names.
const (
	Normal        = "Normal"
	Heading1      = "Heading 1"
	Heading3      = "Heading 3"
	ListParagraph = "List Paragraph"
	Conclusion    = "Conclusion"
)

// Spec is the complete formatting of a named style. Alignment is left to
// the paragraph when it is canvas.AlignInherit.
type Spec struct {
	Font        string
	Size        float64 // points
	Bold        bool
	Italic      bool
	Underline   bool
	Color       canvas.Color
	Alignment   canvas.Alignment
	LineSpacing float64
}

// Palette selects the heading colours.
type Palette int

const (
	// Accent colours headings blue.
	Accent Palette = iota
	// Mono keeps every style black, for templates that bring their own
	// colour scheme.
	Mono
)

// String returns the string representation of the palette.
func (p Palette) String() string {
	switch p {
	case Accent:
		return "accent"
	case Mono:
		return "mono"
	default:
		return fmt.Sprintf("Palette(%d)", int(p))
	}
}

// ParsePalette parses "accent" or "mono" (case-insensitive).
func ParsePalette(s string) (Palette, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "accent":
		return Accent, nil
	case "mono":
		return Mono, nil
	}
	return Accent, fmt.Errorf("unknown palette %q", s)
}

// AccentColor is the blue used for headings and accented labels.
var AccentColor = canvas.RGB(47, 84, 150)

// Black is the default text colour.
var Black = canvas.RGB(0, 0, 0)

// Registry maps style names to specs. A Registry is immutable once built;
// With* methods return modified copies.
type Registry struct {
	specs  map[string]Spec
	accent canvas.Color
}

// NewRegistry returns the built-in styles for a palette.
func NewRegistry(p Palette) *Registry {
	heading := AccentColor
	if p == Mono {
		heading = Black
	}
	const font = "Times New Roman"

	h3 := Spec{Font: font, Size: 12, Bold: true, Color: heading, Alignment: canvas.AlignLeft, LineSpacing: 1.5}
	return &Registry{accent: heading, specs: map[string]Spec{
		Normal:        {Font: font, Size: 12, Color: Black, LineSpacing: 1.15},
		Heading1:      {Font: font, Size: 18, Bold: true, Underline: true, Color: heading, Alignment: canvas.AlignCenter, LineSpacing: 1.5},
		Heading3:      h3,
		ListParagraph: {Font: font, Size: 12, Bold: true, Color: Black, LineSpacing: 1.15},
		Conclusion:    h3,
	}}
}

// Default returns the accent palette registry.
func Default() *Registry {
	return NewRegistry(Accent)
}

func (r *Registry) clone() *Registry {
	specs := make(map[string]Spec, len(r.specs))
	for k, v := range r.specs {
		specs[k] = v
	}
	return &Registry{specs: specs, accent: r.accent}
}

// Accent returns the palette's accent colour, used for highlighted labels.
func (r *Registry) Accent() canvas.Color {
	return r.accent
}

// With returns a copy of the registry with name bound to s.
func (r *Registry) With(name string, s Spec) *Registry {
	c := r.clone()
	c.specs[name] = s
	return c
}

// WithFont returns a copy of the registry with every style using font.
// An empty font returns r unchanged.
func (r *Registry) WithFont(font string) *Registry {
	if font == "" {
		return r
	}
	c := r.clone()
	for k, v := range c.specs {
		v.Font = font
		c.specs[k] = v
	}
	return c
}

// Names returns the registered style names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for k := range r.specs {
		names = append(names, k)
	}
	return names
}

// Resolve returns the spec for name, falling back to Normal.
func (r *Registry) Resolve(name string) Spec {
	if s, ok := r.specs[name]; ok {
		return s
	}
	return r.specs[Normal]
}

// Apply sets the paragraph's line spacing and alignment and every run's
// character formatting to the named style. Applying the same style again
// changes nothing.
func (r *Registry) Apply(p canvas.Paragraph, name string) {
	s := r.Resolve(name)
	p.SetLineSpacing(s.LineSpacing)
	if s.Alignment != canvas.AlignInherit {
		p.SetAlignment(s.Alignment)
	}
	for _, run := range p.Runs() {
		run.SetFont(s.Font)
		run.SetSize(s.Size)
		run.SetBold(s.Bold)
		run.SetItalic(s.Italic)
		run.SetUnderline(s.Underline)
		run.SetColor(s.Color)
	}
}
