package reportgen

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tsawler/reportgen/docx"
	"github.com/tsawler/reportgen/imageset"
	"github.com/tsawler/reportgen/internal/fsutil"
	"github.com/tsawler/reportgen/runlog"
)

// BatchResult describes one batch run.
type BatchResult struct {
	// RunID identifies the run in process logs.
	RunID string
	// Documents are the generated files in case order.
	Documents []string
	// Failed names the cases that produced no document.
	Failed []string
	// Archive is the zip holding every document, empty when none was
	// generated.
	Archive string
}

// Batch writes one document per case into outDir and packages them into a
// zip archive there. Case i takes row i of the source. A failing case is
// logged and skipped; the returned error reports only problems that stop
// the whole run: an unreadable source, an unusable outDir, a cancelled
// context or a packaging failure. The context is checked between cases.
func (g *Generator) Batch(ctx context.Context, cases []imageset.Case, outDir string) (*BatchResult, error) {
	log := runlog.New(g.log)
	res := &BatchResult{RunID: uuid.NewString()}

	log.Info("Preparing to generate documents...")

	records, err := g.loadRecords()
	if err != nil {
		log.Error("Failed to read Excel file: %v", err)
		return res, fmt.Errorf("%w: %w", ErrSourceRead, err)
	}
	if _, err := fsutil.EnsureDir(outDir); err != nil {
		log.Error("Failed to create output folder: %v", err)
		return res, err
	}

	base := g.clone()
	base.records = records
	base.preloaded = true
	if base.template == nil && base.options.templatePath != "" {
		if t, err := docx.LoadTemplate(base.options.templatePath); err == nil {
			base.template = t
		}
	}

	seen := make(map[string]bool, len(cases))
	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			log.Warn("Generation cancelled after %d of %d claim(s).", i, len(cases))
			return res, err
		}

		name := fsutil.SanitizeName(c.Name, i+1)
		path := fsutil.UniquePath(filepath.Join(outDir, name+".docx"), seen)
		log.Info("Generating document for claim: %s -> %s", c.Name, path)

		out, err := base.Case(c.Name).Images(c.Images).Row(i).Output(path).generateCase()
		if err != nil || out == "" {
			log.Warn("Document generation returned no result for claim: %s", c.Name)
			res.Failed = append(res.Failed, c.Name)
			continue
		}
		res.Documents = append(res.Documents, out)
	}

	if len(res.Documents) == 0 {
		log.Warn("No documents were generated.")
		return res, nil
	}
	log.Success("%d document(s) generated in %s", len(res.Documents), outDir)

	archive := filepath.Join(outDir, g.options.archiveName)
	if err := Package(res.Documents, archive); err != nil {
		log.Error("Failed to package documents: %v", err)
		return res, err
	}
	res.Archive = archive
	log.Info("Packaged %d documents into: %s", len(res.Documents), archive)
	return res, nil
}

// generateCase runs Generate behind a panic boundary.
func (g *Generator) generateCase() (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			runlog.New(g.log).Error("Unexpected error while generating document: %v", r)
			out, err = "", fmt.Errorf("generating document: %v", r)
		}
	}()
	return g.Generate()
}

// Package writes the files into a new zip archive at archivePath, each
// stored under its base name.
func Package(files []string, archivePath string) error {
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return fmt.Errorf("creating archive folder: %w", err)
	}
	f, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}

	zw := zip.NewWriter(f)
	for _, name := range files {
		if err := addFile(zw, name); err != nil {
			zw.Close()
			f.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("closing archive: %w", err)
	}
	return f.Close()
}

func addFile(zw *zip.Writer, name string) error {
	src, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	hdr.Name = filepath.Base(name)
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
