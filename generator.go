package reportgen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/reportgen/canvas"
	"github.com/tsawler/reportgen/docx"
	"github.com/tsawler/reportgen/fieldkey"
	"github.com/tsawler/reportgen/imageset"
	"github.com/tsawler/reportgen/layout"
	"github.com/tsawler/reportgen/photogrid"
	"github.com/tsawler/reportgen/runlog"
	"github.com/tsawler/reportgen/style"
	"github.com/tsawler/reportgen/xlsx"
)

// DefaultOutput is the output path used when none is set.
const DefaultOutput = "report.docx"

// Creator is written to the core properties of every generated document.
const Creator = "reportgen"

// Generator provides a fluent interface for generating case reports.
// Each configuration method returns a new Generator instance, making it
// safe for concurrent use and allowing method chaining.
type Generator struct {
	// Source
	source    string
	records   []xlsx.Record
	preloaded bool

	// Case
	images   imageset.Set
	caseName string
	row      int
	output   string

	// Shared template parts, loaded once per batch
	template *docx.Template

	log     runlog.Func
	options GenerateOptions
}

// clone creates a shallow copy of the Generator with a deep copy of options.
// Records and the template are shared; neither is modified.
func (g *Generator) clone() *Generator {
	c := *g
	c.options = g.options.clone()
	return &c
}

// ============================================================================
// Configuration Methods (return new Generator instance)
// ============================================================================

// Images sets the case photographs. The "home" group supplies the header
// image; every other group becomes a titled section.
func (g *Generator) Images(set imageset.Set) *Generator {
	c := g.clone()
	c.images = set
	return c
}

// Case names the case. The name is stored as the document subject.
func (g *Generator) Case(name string) *Generator {
	c := g.clone()
	c.caseName = name
	return c
}

// Row selects the data row (0-based). Out of range rows are clamped to the
// nearest valid row with a warning.
func (g *Generator) Row(index int) *Generator {
	c := g.clone()
	c.row = index
	return c
}

// Output sets the path of the generated document. Missing parent
// directories are created.
func (g *Generator) Output(path string) *Generator {
	c := g.clone()
	c.output = path
	return c
}

// Logger sets the callback receiving prefixed progress messages.
//
// Example:
//
//	reportgen.New("cases.xlsx").Logger(runlog.Terminal(os.Stderr)).Generate()
func (g *Generator) Logger(fn runlog.Func) *Generator {
	c := g.clone()
	c.log = fn
	return c
}

// Template sets a .docx or .dotx file whose parts are reused. A template
// that cannot be opened falls back to a blank document with a warning.
func (g *Generator) Template(path string) *Generator {
	c := g.clone()
	c.options.templatePath = path
	c.template = nil
	return c
}

// Mode selects how the template is used. Fill mode without a usable
// template builds the report layout on a blank document.
func (g *Generator) Mode(m Mode) *Generator {
	c := g.clone()
	c.options.mode = m
	return c
}

// PictureControl sets the tag of the content control that receives the
// header image in fill mode, and the image width.
func (g *Generator) PictureControl(tag string, width canvas.Length) *Generator {
	c := g.clone()
	c.options.pictureTag = tag
	c.options.pictureWidth = width
	return c
}

// Title sets the report title heading.
func (g *Generator) Title(title string) *Generator {
	c := g.clone()
	c.options.title = title
	return c
}

// Palette sets the heading colours.
func (g *Generator) Palette(p style.Palette) *Generator {
	c := g.clone()
	c.options.palette = p
	return c
}

// Font replaces the font of every style.
func (g *Generator) Font(name string) *Generator {
	c := g.clone()
	c.options.font = name
	return c
}

// WarnUnmatched logs a warning for every column that is not a known field.
func (g *Generator) WarnUnmatched() *Generator {
	c := g.clone()
	c.options.engine.WarnUnmatched = true
	return c
}

// SpacedFields replaces the narrative fields rendered with 1.5 line spacing.
// Labels are normalized.
func (g *Generator) SpacedFields(labels ...string) *Generator {
	c := g.clone()
	c.options.engine.SpacedFields = make([]fieldkey.Key, 0, len(labels))
	for _, l := range labels {
		c.options.engine.SpacedFields = append(c.options.engine.SpacedFields, fieldkey.Normalize(l))
	}
	return c
}

// PhotoHeading sets the title of the photographs section.
func (g *Generator) PhotoHeading(heading string) *Generator {
	c := g.clone()
	c.options.photoHeading = heading
	return c
}

// PhotoSize sets the width and height of every grid picture.
func (g *Generator) PhotoSize(size canvas.Length) *Generator {
	c := g.clone()
	c.options.cellSize = size
	return c
}

// CellPadding sets the margin of every grid cell that holds a picture.
func (g *Generator) CellPadding(t canvas.Twips) *Generator {
	c := g.clone()
	c.options.cellPadding = t
	return c
}

// HeaderMaxWidth caps the width of the header picture in build mode.
func (g *Generator) HeaderMaxWidth(width canvas.Length) *Generator {
	c := g.clone()
	c.options.headerMaxWidth = width
	return c
}

// ArchiveName sets the file name of the zip archive written by Batch.
func (g *Generator) ArchiveName(name string) *Generator {
	c := g.clone()
	c.options.archiveName = name
	return c
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Generate writes the report for the selected row and returns the output
// path. Source read and save failures are logged and returned; every other
// problem is logged as a warning and the document is still produced.
func (g *Generator) Generate() (string, error) {
	log := runlog.New(g.log)

	records, err := g.loadRecords()
	if err != nil {
		if errors.Is(err, xlsx.ErrNoRows) {
			log.Error("Excel file contains no rows.")
		} else {
			log.Error("Failed to read Excel file: %v", err)
		}
		return "", fmt.Errorf("%w: %w", ErrSourceRead, err)
	}
	rec := records[g.clampRow(len(records), log)]

	doc, tmpl := g.newDocument(log)
	styles := g.options.styles()
	composer := g.composer(styles)

	if g.options.mode == ModeFill && tmpl != nil {
		g.fill(doc, rec, log)
	} else {
		if tmpl != nil {
			checkStyles(tmpl, log)
		}
		frame := layout.NewFrame(doc, styles, g.options.title)
		composer.PlaceHeader(frame.HeaderSlot(), g.images)
		layout.NewEngineWithConfig(styles, g.options.engine, g.log).Render(frame, rec)
	}
	composer.Compose(doc, g.images)

	doc.SetCoreProperties(docx.CoreProperties{
		Title:   g.options.title,
		Subject: g.caseName,
		Creator: Creator,
	})

	output := g.output
	if output == "" {
		output = DefaultOutput
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		log.Error("Failed to create output folder: %v", err)
		return "", fmt.Errorf("creating output folder: %w", err)
	}
	if err := doc.Save(output); err != nil {
		log.Error("Failed to save document: %v", err)
		return "", fmt.Errorf("saving %s: %w", output, err)
	}

	log.Success("Document saved: %s", output)
	return output, nil
}

// Records returns the data rows of the source spreadsheet.
func (g *Generator) Records() ([]xlsx.Record, error) {
	records, err := g.loadRecords()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceRead, err)
	}
	return records, nil
}

// loadRecords returns the preloaded rows or reads the source.
func (g *Generator) loadRecords() ([]xlsx.Record, error) {
	if g.preloaded {
		if len(g.records) == 0 {
			return nil, xlsx.ErrNoRows
		}
		return g.records, nil
	}
	if g.source == "" {
		return nil, errors.New("no source spreadsheet")
	}
	r, err := xlsx.Open(g.source)
	if err != nil {
		return nil, err
	}
	if n := r.SheetCount(); n > 1 {
		runlog.New(g.log).Info("Workbook has %d sheets. Reading the first sheet, %q.", n, r.SheetNames()[0])
	}
	return r.Records()
}

// clampRow returns a valid row index for n rows.
func (g *Generator) clampRow(n int, log *runlog.Logger) int {
	switch {
	case g.row >= n:
		log.Warn("Row index %d out of bounds. Using last available row.", g.row)
		return n - 1
	case g.row < 0:
		log.Warn("Row index %d out of bounds. Using first available row.", g.row)
		return 0
	}
	return g.row
}

// newDocument opens the configured template, falling back to a blank
// document. The template is nil when none is used.
func (g *Generator) newDocument(log *runlog.Logger) (*docx.Document, *docx.Template) {
	if g.template != nil {
		return docx.NewFromTemplate(g.template), g.template
	}
	if g.options.templatePath == "" {
		return docx.New(), nil
	}
	t, err := docx.LoadTemplate(g.options.templatePath)
	if err != nil {
		log.Warn("Template missing or inaccessible. Using blank document.")
		return docx.New(), nil
	}
	return docx.NewFromTemplate(t), t
}

// layoutStyles are the paragraph styles the report layout refers to.
var layoutStyles = []string{"Heading1", "Heading2", "Heading3", docx.StyleID(layout.ListBulletStyle)}

// checkStyles warns about layout styles the template does not define. Word
// formats paragraphs with an undefined style as Normal.
func checkStyles(t *docx.Template, log *runlog.Logger) {
	for _, id := range layoutStyles {
		if !t.HasStyle(id) {
			log.Warn("Template does not define the %s style. Those paragraphs will use Normal.", id)
		}
	}
}

func (g *Generator) composer(styles *style.Registry) *photogrid.Composer {
	c := photogrid.NewComposer(styles, g.log)
	c.CellSize = g.options.cellSize
	c.Padding = canvas.UniformPadding(g.options.cellPadding)
	c.HeaderMaxWidth = g.options.headerMaxWidth
	if strings.TrimSpace(g.options.photoHeading) != "" {
		c.Heading = g.options.photoHeading
	}
	return c
}

// fill writes the row into the template's placeholders and picture control.
func (g *Generator) fill(doc *docx.Document, rec xlsx.Record, log *runlog.Logger) {
	if header, ok := g.images.Header(); ok && len(header.Images) > 0 {
		found, err := doc.ReplacePictureControl(g.options.pictureTag, header.Images[0], g.options.pictureWidth)
		switch {
		case err != nil:
			log.Warn("Failed to insert header image: %v", err)
		case !found:
			log.Warn("Image placeholder not found.")
		}
	}
	doc.ReplacePlaceholders(fieldkey.Replacements(recordLookup(rec)))
}

// recordLookup indexes a record by normalized label. The first column wins
// when two labels normalize to the same key.
func recordLookup(rec xlsx.Record) func(fieldkey.Key) (string, bool) {
	values := make(map[fieldkey.Key]string, rec.Len())
	for i, label := range rec.Labels {
		if i >= len(rec.Values) {
			break
		}
		k := fieldkey.Normalize(label)
		if _, dup := values[k]; !dup {
			values[k] = rec.Values[i]
		}
	}
	return func(k fieldkey.Key) (string, bool) {
		v, ok := values[k]
		return v, ok
	}
}
