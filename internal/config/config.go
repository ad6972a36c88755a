// Package config loads the reportgen configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/reportgen/internal/fsutil"
	"github.com/tsawler/reportgen/style"
)

// DefaultFileName is the configuration file looked up in the working
// directory.
const DefaultFileName = "reportgen.yaml"

// Template modes.
const (
	ModeBuild = "build"
	ModeFill  = "fill"
)

// Config holds all reportgen configuration.
type Config struct {
	Paths    PathsConfig    `yaml:"paths"`
	Template TemplateConfig `yaml:"template"`
	Report   ReportConfig   `yaml:"report"`
	Photos   PhotosConfig   `yaml:"photos"`
	Watch    WatchConfig    `yaml:"watch"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PathsConfig locates the working folders. Empty folders resolve under the
// per-user data directory.
type PathsConfig struct {
	UploadDir   string `yaml:"upload_dir"`
	OutputDir   string `yaml:"output_dir"`
	ArchiveName string `yaml:"archive_name"`
	Transcript  string `yaml:"transcript"` // HTML run log written next to the outputs; empty disables
}

// TemplateConfig selects the Word template and how it is used.
type TemplateConfig struct {
	Path         string  `yaml:"path"`
	Mode         string  `yaml:"mode"` // build, fill
	PictureTag   string  `yaml:"picture_tag"`
	PictureWidth float64 `yaml:"picture_width"` // inches
}

// ReportConfig shapes the generated content.
type ReportConfig struct {
	Title         string   `yaml:"title"`
	Palette       string   `yaml:"palette"` // accent, mono
	Font          string   `yaml:"font"`
	WarnUnmatched bool     `yaml:"warn_unmatched"`
	SpacedFields  []string `yaml:"spaced_fields"`
}

// PhotosConfig sizes the photographs section.
type PhotosConfig struct {
	Heading        string  `yaml:"heading"`
	CellSize       float64 `yaml:"cell_size"`        // inches
	Padding        int     `yaml:"padding"`          // twips
	HeaderMaxWidth float64 `yaml:"header_max_width"` // inches
}

// WatchConfig configures the inbox watcher.
type WatchConfig struct {
	Inbox    string `yaml:"inbox"`
	Debounce string `yaml:"debounce"`
	Clean    bool   `yaml:"clean"` // clear uploads and packaged documents after each cycle
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			ArchiveName: "Generated_Reports.zip",
			Transcript:  "run_log.html",
		},
		Template: TemplateConfig{
			Path:         filepath.Join("templates", "template.docx"),
			Mode:         ModeBuild,
			PictureTag:   "front_of_risk",
			PictureWidth: 4.5,
		},
		Report: ReportConfig{
			Title:        "FIRST INSPECTION REPORT",
			Palette:      "accent",
			SpacedFields: []string{"recommended reserves for trinity's involvement:"},
		},
		Photos: PhotosConfig{
			Heading:        "PHOTOGRAPHS",
			CellSize:       2.5,
			Padding:        200,
			HeaderMaxWidth: 6,
		},
		Watch: WatchConfig{
			Debounce: "2s",
			Clean:    true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from path. A missing file yields the defaults.
// Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("REPORTGEN_TEMPLATE"); v != "" {
		c.Template.Path = v
	}
	if v := os.Getenv("REPORTGEN_TEMPLATE_MODE"); v != "" {
		c.Template.Mode = v
	}
	if v := os.Getenv("REPORTGEN_OUTPUT_DIR"); v != "" {
		c.Paths.OutputDir = v
	}
	if v := os.Getenv("REPORTGEN_UPLOAD_DIR"); v != "" {
		c.Paths.UploadDir = v
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	switch c.Template.Mode {
	case ModeBuild, ModeFill:
	default:
		return fmt.Errorf("invalid template mode: %q (valid: %s, %s)", c.Template.Mode, ModeBuild, ModeFill)
	}
	if c.Template.Mode == ModeFill && c.Template.PictureWidth <= 0 {
		return fmt.Errorf("template picture_width must be positive")
	}
	if _, err := style.ParsePalette(c.Report.Palette); err != nil {
		return fmt.Errorf("invalid report palette: %w", err)
	}
	if c.Photos.CellSize <= 0 || c.Photos.HeaderMaxWidth <= 0 {
		return fmt.Errorf("photo sizes must be positive")
	}
	if c.Photos.Padding < 0 {
		return fmt.Errorf("photo padding must not be negative")
	}
	name := c.Paths.ArchiveName
	if name == "" || strings.ContainsAny(name, `/\`) || !strings.EqualFold(filepath.Ext(name), ".zip") {
		return fmt.Errorf("invalid archive name: %q", name)
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("invalid watch debounce: %w", err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logging format: %q", c.Logging.Format)
	}
	return nil
}

// Palette returns the parsed report palette.
func (c *Config) Palette() style.Palette {
	p, _ := style.ParsePalette(c.Report.Palette)
	return p
}

// DebounceDuration returns the parsed watch debounce, or 2s when invalid.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// UploadDir returns the upload folder.
func (c *Config) UploadDir() string {
	if c.Paths.UploadDir != "" {
		return c.Paths.UploadDir
	}
	return filepath.Join(fsutil.DataDir(), "uploads")
}

// OutputDir returns the output folder.
func (c *Config) OutputDir() string {
	if c.Paths.OutputDir != "" {
		return c.Paths.OutputDir
	}
	return filepath.Join(fsutil.DataDir(), "outputs")
}
