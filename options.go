package reportgen

import (
	"github.com/tsawler/reportgen/canvas"
	"github.com/tsawler/reportgen/fieldkey"
	"github.com/tsawler/reportgen/layout"
	"github.com/tsawler/reportgen/photogrid"
	"github.com/tsawler/reportgen/style"
)

// Mode selects how a template is used.
type Mode int

const (
	// ModeBuild keeps the template body and appends the generated report.
	ModeBuild Mode = iota
	// ModeFill replaces {{PLACEHOLDER}} tokens and the picture content
	// control in the template, then appends the photographs section.
	ModeFill
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	if m == ModeFill {
		return "fill"
	}
	return "build"
}

// Defaults for fill mode.
const (
	DefaultPictureTag  = "front_of_risk"
	DefaultArchiveName = "Generated_Reports.zip"
)

// DefaultPictureWidth is the width of the header image in fill mode.
var DefaultPictureWidth = canvas.Inches(4.5)

// GenerateOptions holds configuration for document generation.
type GenerateOptions struct {
	// Template
	templatePath string
	mode         Mode
	pictureTag   string
	pictureWidth canvas.Length

	// Look
	title   string
	palette style.Palette
	font    string
	engine  layout.EngineConfig

	// Photographs
	photoHeading   string
	cellSize       canvas.Length
	cellPadding    canvas.Twips
	headerMaxWidth canvas.Length

	// Batch packaging
	archiveName string
}

// defaultOptions returns the default generation options.
func defaultOptions() GenerateOptions {
	return GenerateOptions{
		templatePath:   "", // empty means a blank document
		mode:           ModeBuild,
		pictureTag:     DefaultPictureTag,
		pictureWidth:   DefaultPictureWidth,
		title:          layout.DefaultTitle,
		palette:        style.Accent,
		engine:         layout.DefaultEngineConfig(),
		photoHeading:   photogrid.DefaultHeading,
		cellSize:       canvas.Inches(2.5),
		cellPadding:    200,
		headerMaxWidth: canvas.Inches(6),
		archiveName:    DefaultArchiveName,
	}
}

// clone creates a deep copy of GenerateOptions.
func (o GenerateOptions) clone() GenerateOptions {
	newOpts := o

	// Deep copy spaced fields
	if o.engine.SpacedFields != nil {
		newOpts.engine.SpacedFields = make([]fieldkey.Key, len(o.engine.SpacedFields))
		copy(newOpts.engine.SpacedFields, o.engine.SpacedFields)
	}

	return newOpts
}

// styles builds the style registry the options describe.
func (o GenerateOptions) styles() *style.Registry {
	return style.NewRegistry(o.palette).WithFont(o.font)
}
