package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tsawler/reportgen"
	"github.com/tsawler/reportgen/docx"
	"github.com/tsawler/reportgen/fieldkey"
)

var (
	inspectSource   string
	inspectTemplate string
)

// inspectCmd shows where each spreadsheet column lands in a report
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show how spreadsheet columns are placed in a report",
	Long: `Reads the header row of a spreadsheet and prints, for every column, the
normalized field key and the report section it is rendered into. Columns
marked "no" under KNOWN are not in the field table and become narrative
sections.

With --template, also lists the template's {{TOKEN}} placeholders with the
field that fills them, and its content control tags. The control tagged
with template.picture_tag receives the header image in fill mode.

Examples:
  reportgen inspect --source cases.xlsx
  reportgen inspect --template letterhead.docx`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectSource, "source", "s", "", "Spreadsheet to inspect")
	inspectCmd.Flags().StringVarP(&inspectTemplate, "template", "t", "", "Word template to inspect")
	inspectCmd.MarkFlagsOneRequired("source", "template")
}

func runInspect(cmd *cobra.Command, args []string) error {
	if inspectSource == "" && inspectTemplate == "" {
		return errors.New("nothing to inspect: set --source or --template")
	}
	if inspectSource != "" {
		if err := inspectColumns(cmd.OutOrStdout()); err != nil {
			return err
		}
	}
	if inspectTemplate != "" {
		return inspectFields(cmd.OutOrStdout())
	}
	return nil
}

// inspectColumns prints where each spreadsheet column is placed.
func inspectColumns(w io.Writer) error {
	placements, err := reportgen.New(inspectSource).Placements()
	if err != nil {
		return err
	}

	t := newTable("Column placement", "COL", "LABEL", "KEY", "PLACEMENT", "KNOWN")
	for _, p := range placements {
		placement := p.Category.String()
		if p.Row >= 0 {
			placement += " (row " + strconv.Itoa(p.Row) + ")"
		}
		known := "yes"
		if !p.Known {
			known = "no"
		}
		t.addRow(strconv.Itoa(p.Column+1), p.Label, string(p.Key), placement, known)
	}
	t.render(w)
	return nil
}

// inspectFields prints the template's placeholders and content controls.
func inspectFields(w io.Writer) error {
	r, err := docx.Open(inspectTemplate)
	if err != nil {
		return fmt.Errorf("failed to open template: %w", err)
	}

	t := newTable("Template fields", "FIELD", "KIND", "FILLED FROM")
	for _, token := range r.Placeholders() {
		from := "(left as is)"
		if k, ok := fieldkey.Placeholders[token]; ok {
			from = string(k)
		}
		t.addRow(token, "placeholder", from)
	}
	for _, tag := range r.ControlTags() {
		from := "(left as is)"
		if tag == cfg.Template.PictureTag {
			from = "header image"
		}
		t.addRow(tag, "content control", from)
	}
	t.render(w)
	return nil
}

// table renders static rows with lipgloss.
type table struct {
	title   string
	headers []string
	rows    [][]string
}

func newTable(title string, headers ...string) *table {
	return &table{title: title, headers: headers}
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(w io.Writer) {
	r := lipgloss.NewRenderer(w)
	titleStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle := r.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := r.NewStyle().Padding(0, 1)
	sepStyle := r.NewStyle().Foreground(lipgloss.Color("8"))

	// Column widths include the padding
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h) + 2
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell)+2 > widths[i] {
				widths[i] = lipgloss.Width(cell) + 2
			}
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(widths))
		for i := range widths {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = style.Width(widths[i]).Render(cell)
		}
		return strings.Join(parts, sepStyle.Render("|"))
	}

	if t.title != "" {
		fmt.Fprintln(w, titleStyle.Render(t.title))
	}
	fmt.Fprintln(w, line(t.headers, headerStyle))
	total := len(widths) - 1
	for _, wd := range widths {
		total += wd
	}
	fmt.Fprintln(w, sepStyle.Render(strings.Repeat("-", total)))
	for _, row := range t.rows {
		fmt.Fprintln(w, line(row, cellStyle))
	}
}
