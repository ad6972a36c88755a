package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsawler/reportgen"
	"github.com/tsawler/reportgen/imageset"
	"github.com/tsawler/reportgen/internal/fsutil"
	"github.com/tsawler/reportgen/runlog"
)

var (
	genSource   string
	genImages   string
	genOutDir   string
	genOutput   string
	genTemplate string
	genMode     string
	genRow      int
)

// generateCmd generates reports from a spreadsheet and an image collection
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one report per case",
	Long: `Generates one Word document per case folder and packages them into a ZIP
archive in the output folder. Case folders are taken in name order; the
first case uses the first spreadsheet row, the second case the second row,
and so on.

With --row, a single report is generated from one case folder.

Examples:
  reportgen generate --source cases.xlsx --images photos.zip
  reportgen generate --source cases.xlsx --images photos/ --out reports/
  reportgen generate --source cases.xlsx --images photos/Smith --row 3 --output Smith.docx`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genSource, "source", "s", "", "Spreadsheet with one row per case (required)")
	generateCmd.Flags().StringVarP(&genImages, "images", "i", "", "Folder or ZIP archive of case folders (required)")
	generateCmd.Flags().StringVarP(&genOutDir, "out", "o", "", "Output folder (default: from config)")
	generateCmd.Flags().StringVar(&genOutput, "output", "", "Output file for a single report (with --row)")
	generateCmd.Flags().StringVarP(&genTemplate, "template", "t", "", "Word template (default: from config)")
	generateCmd.Flags().StringVar(&genMode, "mode", "", "Template mode: build or fill (default: from config)")
	generateCmd.Flags().IntVarP(&genRow, "row", "r", 0, "Spreadsheet row for a single report (0-based)")
	_ = generateCmd.MarkFlagRequired("source")
	_ = generateCmd.MarkFlagRequired("images")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if genTemplate != "" {
		cfg.Template.Path = genTemplate
	}
	if genMode != "" {
		cfg.Template.Mode = genMode
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	outDir := genOutDir
	if outDir == "" {
		outDir = cfg.OutputDir()
	}

	transcript := runlog.NewTranscript("Report generation log")
	sink := runSink(cmd.OutOrStdout(), transcript)
	defer saveTranscript(transcript, outDir)

	if cmd.Flags().Changed("row") {
		return generateOne(sink, outDir)
	}

	ctx, cancel := signalContext()
	defer cancel()

	coll, err := reportgen.LoadImages(genImages, cfg.UploadDir(), sink)
	if err != nil {
		return err
	}

	res, err := newGenerator(genSource, sink).Batch(ctx, coll.Cases, outDir)
	if res != nil {
		logger.Info("Batch finished",
			zap.String("run_id", res.RunID),
			zap.Int("documents", len(res.Documents)),
			zap.Int("failed", len(res.Failed)),
			zap.String("archive", res.Archive))
	}
	return err
}

// generateOne writes the report for a single case folder.
func generateOne(sink runlog.Func, outDir string) error {
	set, err := imageset.LoadCase(genImages)
	if err != nil {
		return fmt.Errorf("failed to load case images: %w", err)
	}
	name := filepath.Base(filepath.Clean(genImages))

	output := genOutput
	if output == "" {
		output = filepath.Join(outDir, fsutil.SanitizeName(name, genRow+1)+".docx")
	}

	path, err := newGenerator(genSource, sink).
		Images(set).
		Case(name).
		Row(genRow).
		Output(output).
		Generate()
	if err != nil {
		if errors.Is(err, reportgen.ErrSourceRead) {
			return fmt.Errorf("cannot read %s: %w", genSource, err)
		}
		return err
	}
	logger.Info("Report generated",
		zap.String("case", name),
		zap.String("path", path),
		zap.String("mode", cfg.Template.Mode))
	return nil
}
