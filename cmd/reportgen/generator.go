package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/tsawler/reportgen"
	"github.com/tsawler/reportgen/canvas"
	"github.com/tsawler/reportgen/internal/config"
	"github.com/tsawler/reportgen/runlog"
)

// newGenerator returns a generator for source configured from cfg.
func newGenerator(source string, log runlog.Func) *reportgen.Generator {
	mode := reportgen.ModeBuild
	if cfg.Template.Mode == config.ModeFill {
		mode = reportgen.ModeFill
	}

	g := reportgen.New(source).
		Template(cfg.Template.Path).
		Mode(mode).
		PictureControl(cfg.Template.PictureTag, canvas.Inches(cfg.Template.PictureWidth)).
		Title(cfg.Report.Title).
		Palette(cfg.Palette()).
		Font(cfg.Report.Font).
		SpacedFields(cfg.Report.SpacedFields...).
		PhotoHeading(cfg.Photos.Heading).
		PhotoSize(canvas.Inches(cfg.Photos.CellSize)).
		CellPadding(canvas.Twips(cfg.Photos.Padding)).
		HeaderMaxWidth(canvas.Inches(cfg.Photos.HeaderMaxWidth)).
		ArchiveName(cfg.Paths.ArchiveName).
		Logger(log)
	if cfg.Report.WarnUnmatched {
		g = g.WarnUnmatched()
	}
	return g
}

// runSink sends run messages to the terminal and the transcript, and to the
// process logger when verbose.
func runSink(w io.Writer, transcript *runlog.Transcript) runlog.Func {
	fns := []runlog.Func{runlog.Terminal(w), transcript.Func()}
	if verbose && logger != nil {
		fns = append(fns, runlog.Zap(logger.Named("run")))
	}
	return runlog.Tee(fns...)
}

// saveTranscript writes the run log next to the outputs when configured.
func saveTranscript(transcript *runlog.Transcript, outDir string) {
	if cfg.Paths.Transcript == "" {
		return
	}
	path := filepath.Join(outDir, cfg.Paths.Transcript)
	if err := transcript.Save(path); err != nil {
		logger.Warn("Failed to save run log", zap.String("path", path), zap.Error(err))
		return
	}
	logger.Debug("Run log saved", zap.String("path", path))
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
