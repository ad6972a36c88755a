package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/reportgen/style"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ModeBuild, cfg.Template.Mode)
	assert.Equal(t, "front_of_risk", cfg.Template.PictureTag)
	assert.Equal(t, 4.5, cfg.Template.PictureWidth)
	assert.Equal(t, "Generated_Reports.zip", cfg.Paths.ArchiveName)
	assert.Equal(t, "FIRST INSPECTION REPORT", cfg.Report.Title)
	assert.False(t, cfg.Report.WarnUnmatched)
	assert.Equal(t, 2.5, cfg.Photos.CellSize)
	assert.Equal(t, 200, cfg.Photos.Padding)
	assert.Equal(t, style.Accent, cfg.Palette())
	assert.Equal(t, 2*time.Second, cfg.DebounceDuration())
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultFileName)
		data := `
template:
  path: forms/report.dotx
  mode: fill
report:
  palette: mono
  warn_unmatched: true
photos:
  cell_size: 3
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "forms/report.dotx", cfg.Template.Path)
		assert.Equal(t, ModeFill, cfg.Template.Mode)
		assert.Equal(t, style.Mono, cfg.Palette())
		assert.True(t, cfg.Report.WarnUnmatched)
		assert.Equal(t, 3.0, cfg.Photos.CellSize)
		// Untouched keys keep their defaults.
		assert.Equal(t, "front_of_risk", cfg.Template.PictureTag)
		assert.Equal(t, 200, cfg.Photos.Padding)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultFileName)
		require.NoError(t, os.WriteFile(path, []byte("template: [unclosed"), 0o644))

		_, err := Load(path)
		assert.ErrorContains(t, err, "failed to parse config")
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REPORTGEN_TEMPLATE", "/srv/template.docx")
	t.Setenv("REPORTGEN_TEMPLATE_MODE", ModeFill)
	t.Setenv("REPORTGEN_OUTPUT_DIR", "/srv/out")
	t.Setenv("REPORTGEN_UPLOAD_DIR", "/srv/in")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "/srv/template.docx", cfg.Template.Path)
	assert.Equal(t, ModeFill, cfg.Template.Mode)
	assert.Equal(t, "/srv/out", cfg.OutputDir())
	assert.Equal(t, "/srv/in", cfg.UploadDir())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)
	cfg := DefaultConfig()
	cfg.Report.Font = "Arial"
	cfg.Watch.Inbox = "/srv/inbox"

	require.NoError(t, cfg.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad mode", func(c *Config) { c.Template.Mode = "merge" }, "invalid template mode"},
		{"fill without width", func(c *Config) { c.Template.Mode = ModeFill; c.Template.PictureWidth = 0 }, "picture_width"},
		{"bad palette", func(c *Config) { c.Report.Palette = "neon" }, "invalid report palette"},
		{"zero cell size", func(c *Config) { c.Photos.CellSize = 0 }, "photo sizes"},
		{"negative padding", func(c *Config) { c.Photos.Padding = -1 }, "padding"},
		{"archive with path", func(c *Config) { c.Paths.ArchiveName = "../out.zip" }, "invalid archive name"},
		{"archive without zip", func(c *Config) { c.Paths.ArchiveName = "reports.tar" }, "invalid archive name"},
		{"bad debounce", func(c *Config) { c.Watch.Debounce = "soon" }, "invalid watch debounce"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "invalid logging format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestDefaultDirsUseDataDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", base)
	t.Setenv("LOCALAPPDATA", base)

	cfg := DefaultConfig()
	assert.Equal(t, "uploads", filepath.Base(cfg.UploadDir()))
	assert.Equal(t, "outputs", filepath.Base(cfg.OutputDir()))
	assert.Equal(t, "DocumentGenerator", filepath.Base(filepath.Dir(cfg.OutputDir())))
}
