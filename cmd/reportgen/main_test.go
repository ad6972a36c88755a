package main

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tsawler/reportgen/internal/config"
	"github.com/tsawler/reportgen/internal/watch"
)

// setup resets the globals the commands read.
func setup(t *testing.T) {
	t.Helper()
	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	cfg.Template.Path = ""
	cfg.Paths.UploadDir = filepath.Join(t.TempDir(), "uploads")
	cfg.Paths.OutputDir = filepath.Join(t.TempDir(), "outputs")
	verbose = false

	genSource, genImages, genOutDir, genOutput, genTemplate, genMode = "", "", "", "", "", ""
	genRow = 0
	inspectSource, inspectTemplate = "", ""
}

func zipBytes(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// writeWorkbook writes a workbook with a header row and two cases.
func writeWorkbook(t *testing.T, dir string) string {
	t.Helper()
	row := func(n string, vals ...string) string {
		var sb strings.Builder
		sb.WriteString(`<row r="` + n + `">`)
		for i, v := range vals {
			sb.WriteString(`<c r="` + string(rune('A'+i)) + n + `" t="inlineStr"><is><t>` + v + `</t></is></c>`)
		}
		sb.WriteString(`</row>`)
		return sb.String()
	}
	sheet := row("1", "Policyholder", "Description of Risk", "Origins of Loss") +
		row("2", "Alice", "Bungalow", "Pipe") +
		row("3", "Bob", "Condo", "Roof")

	data := zipBytes(t, map[string][]byte{
		"[Content_Types].xml": []byte(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`),
		"xl/_rels/workbook.xml.rels": []byte(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/></Relationships>`),
		"xl/workbook.xml": []byte(`<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="Claims" sheetId="1" r:id="rId1"/></sheets></workbook>`),
		"xl/worksheets/sheet1.xml": []byte(`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>` + sheet + `</sheetData></worksheet>`),
	})
	p := filepath.Join(dir, "cases.xlsx")
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

// writeCases writes two case folders under dir/claims and returns that root.
func writeCases(t *testing.T, dir string) string {
	t.Helper()
	img := pngBytes(t)
	root := filepath.Join(dir, "claims")
	for _, p := range []string{"Smith/home/front.png", "Smith/Kitchen/1.png", "Jones/Bath/1.png"} {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, img, 0o644))
	}
	return root
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		l, err := newLogger(config.LoggingConfig{Level: "warn", Format: format})
		require.NoError(t, err, format)
		assert.False(t, l.Core().Enabled(zap.InfoLevel))
		assert.True(t, l.Core().Enabled(zap.WarnLevel))
	}

	verbose = true
	defer func() { verbose = false }()
	l, err := newLogger(config.LoggingConfig{Level: "error", Format: "json"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	_, err = newLogger(config.LoggingConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func TestRunInspect(t *testing.T) {
	setup(t)
	inspectSource = writeWorkbook(t, t.TempDir())

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, runInspect(cmd, nil))

	text := out.String()
	assert.Contains(t, text, "Column placement")
	assert.Contains(t, text, "policyholder")
	assert.Contains(t, text, "(row 2)")
	assert.Contains(t, text, "origins of loss")
	assert.Contains(t, text, "no")

	inspectSource = filepath.Join(t.TempDir(), "missing.xlsx")
	assert.Error(t, runInspect(cmd, nil))
}

func TestRunInspectTemplate(t *testing.T) {
	setup(t)
	body := `<w:p><w:r><w:t>Insurer: {{INSURER}} {{CUSTOM}}</w:t></w:r></w:p>` +
		`<w:sdt><w:sdtPr><w:tag w:val="front_of_risk"/><w:picture/></w:sdtPr>` +
		`<w:sdtContent><w:p><w:r><w:t>Click to add picture</w:t></w:r></w:p></w:sdtContent></w:sdt>`
	inspectTemplate = filepath.Join(t.TempDir(), "letterhead.docx")
	require.NoError(t, os.WriteFile(inspectTemplate, zipBytes(t, map[string][]byte{
		"[Content_Types].xml": []byte(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`),
		"word/document.xml": []byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body + `</w:body></w:document>`),
	}), 0o644))

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, runInspect(cmd, nil))

	text := out.String()
	assert.Contains(t, text, "Template fields")
	assert.Contains(t, text, "{{INSURER}}")
	assert.Contains(t, text, "insurer")
	assert.Contains(t, text, "{{CUSTOM}}")
	assert.Contains(t, text, "(left as is)")
	assert.Contains(t, text, "front_of_risk")
	assert.Contains(t, text, "header image")
	assert.NotContains(t, text, "Column placement")

	inspectTemplate = ""
	assert.Error(t, runInspect(cmd, nil))
}

func TestRunGenerateBatch(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	genSource = writeWorkbook(t, dir)
	genImages = writeCases(t, dir)
	genOutDir = filepath.Join(dir, "reports")

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, runGenerate(cmd, nil))

	for _, name := range []string{"Jones.docx", "Smith.docx", cfg.Paths.ArchiveName, cfg.Paths.Transcript} {
		assert.FileExists(t, filepath.Join(genOutDir, name))
	}
	assert.Contains(t, out.String(), "[SUCCESS] 2 document(s) generated in "+genOutDir)

	logPage, err := os.ReadFile(filepath.Join(genOutDir, cfg.Paths.Transcript))
	require.NoError(t, err)
	assert.Contains(t, string(logPage), "Packaged 2 documents")
}

func TestRunGenerateSingle(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	genSource = writeWorkbook(t, dir)
	genImages = filepath.Join(writeCases(t, dir), "Smith")
	genOutput = filepath.Join(dir, "single", "Smith.docx")

	cmd := &cobra.Command{}
	cmd.Flags().IntVar(&genRow, "row", 0, "")
	require.NoError(t, cmd.Flags().Set("row", "1"))
	cmd.SetOut(&bytes.Buffer{})

	require.NoError(t, runGenerate(cmd, nil))
	assert.FileExists(t, genOutput)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir(), cfg.Paths.ArchiveName))
}

func TestRunGenerateRejectsBadMode(t *testing.T) {
	setup(t)
	genMode = "merge"
	err := runGenerate(&cobra.Command{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid template mode")
}

func TestCycleHandler(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	source := writeWorkbook(t, dir)
	img := pngBytes(t)
	archive := filepath.Join(dir, "upload.zip")
	require.NoError(t, os.WriteFile(archive, zipBytes(t, map[string][]byte{
		"claims/Smith/home/front.png": img,
		"claims/Smith/Kitchen/1.png":  img,
	}), 0o644))

	outDir := filepath.Join(dir, "reports")
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	err := cycleHandler(cmd, outDir)(context.Background(), watch.Job{Source: source, Archive: archive})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, cfg.Paths.ArchiveName))
	assert.FileExists(t, filepath.Join(outDir, cfg.Paths.Transcript))
	assert.NoFileExists(t, filepath.Join(outDir, "Smith.docx"), "packaged documents should be removed")

	entries, err := os.ReadDir(cfg.UploadDir())
	require.NoError(t, err)
	assert.Empty(t, entries, "upload folder should be cleared after a cycle")

	cfg.Watch.Clean = false
	keepDir := filepath.Join(dir, "kept")
	err = cycleHandler(cmd, keepDir)(context.Background(), watch.Job{Source: source, Archive: archive})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(keepDir, "Smith.docx"))
	assert.FileExists(t, filepath.Join(keepDir, cfg.Paths.ArchiveName))
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "reportgen dev\n", out.String())
}
