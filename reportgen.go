// Package reportgen turns spreadsheet rows and per-case photograph folders
// into Word case reports.
//
// Basic usage:
//
//	set, _ := imageset.LoadCase("claims/Smith")
//	path, err := reportgen.New("cases.xlsx").
//	    Images(set).
//	    Output("out/Smith.docx").
//	    Generate()
//	if err != nil {
//	    // handle error
//	}
//
// With a template and a log sink:
//
//	path, err := reportgen.New("cases.xlsx").
//	    Template("templates/report.dotx").
//	    Mode(reportgen.ModeFill).
//	    Logger(func(msg string) { fmt.Println(msg) }).
//	    Row(2).
//	    Images(set).
//	    Output("out/Smith.docx").
//	    Generate()
//
// A whole upload is handled by Batch, which writes one document per case and
// packages them into a zip archive.
package reportgen

import (
	"errors"

	"github.com/tsawler/reportgen/xlsx"
)

// ErrSourceRead is returned when the spreadsheet cannot be read or holds no
// data rows.
var ErrSourceRead = errors.New("failed to read source spreadsheet")

// New returns a Generator reading its rows from the spreadsheet at source.
// The file is read when Generate is called.
//
// Example:
//
//	path, err := reportgen.New("cases.xlsx").Output("report.docx").Generate()
func New(source string) *Generator {
	return &Generator{
		source:  source,
		output:  DefaultOutput,
		options: defaultOptions(),
	}
}

// FromRecords returns a Generator over rows that were already read. This is
// useful when many documents are generated from one spreadsheet.
//
// Example:
//
//	r, err := xlsx.Open("cases.xlsx")
//	if err != nil {
//	    // handle error
//	}
//	records, err := r.Records()
//	path, err := reportgen.FromRecords(records).Row(3).Generate()
func FromRecords(records []xlsx.Record) *Generator {
	g := New("")
	g.records = records
	g.preloaded = true
	return g
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	path := reportgen.Must(reportgen.New("cases.xlsx").Generate())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
