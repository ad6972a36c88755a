package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsawler/reportgen"
	"github.com/tsawler/reportgen/internal/fsutil"
	"github.com/tsawler/reportgen/internal/watch"
	"github.com/tsawler/reportgen/runlog"
)

var (
	watchInbox  string
	watchOutDir string
)

// watchCmd generates reports whenever an upload lands in the inbox
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Generate reports for every upload dropped into an inbox folder",
	Long: `Watches an inbox folder. When it holds a spreadsheet and a ZIP archive of
case folders and has been quiet for the configured debounce, one batch of
reports is generated from the newest of each. Cycles run one at a time;
uploads arriving during a cycle are handled after it finishes.

When watch.clean is set, the upload folder is cleared after each cycle and
the generated documents are removed once they are packaged, leaving the
ZIP archive and the run log in the output folder.

Example:
  reportgen watch --inbox ~/Dropbox/claims`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchInbox, "inbox", "", "Folder to watch (default: from config)")
	watchCmd.Flags().StringVarP(&watchOutDir, "out", "o", "", "Output folder (default: from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	inbox := watchInbox
	if inbox == "" {
		inbox = cfg.Watch.Inbox
	}
	if inbox == "" {
		inbox = filepath.Join(fsutil.DataDir(), "inbox")
	}
	if _, err := fsutil.EnsureDir(inbox); err != nil {
		return err
	}

	outDir := watchOutDir
	if outDir == "" {
		outDir = cfg.OutputDir()
	}

	ctx, cancel := signalContext()
	defer cancel()

	w, err := watch.New(inbox, cfg.DebounceDuration(), cycleHandler(cmd, outDir), runlog.Zap(logger.Named("watch")))
	if err != nil {
		return err
	}

	logger.Info("Watching inbox", zap.String("inbox", inbox), zap.String("output", outDir))
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("Watcher stopped")
	return nil
}

// cycleHandler returns the handler that runs one batch per upload.
func cycleHandler(cmd *cobra.Command, outDir string) watch.Handler {
	return func(ctx context.Context, job watch.Job) error {
		transcript := runlog.NewTranscript("Report generation log")
		sink := runSink(cmd.OutOrStdout(), transcript)
		defer saveTranscript(transcript, outDir)

		uploads := cfg.UploadDir()
		if cfg.Watch.Clean {
			defer func() {
				if err := fsutil.CleanDir(uploads); err != nil {
					logger.Warn("Failed to clean upload folder", zap.String("dir", uploads), zap.Error(err))
				}
			}()
		}

		coll, err := reportgen.LoadImages(job.Archive, uploads, sink)
		if err != nil {
			return fmt.Errorf("loading %s: %w", filepath.Base(job.Archive), err)
		}
		res, err := newGenerator(job.Source, sink).Batch(ctx, coll.Cases, outDir)
		if res == nil {
			return err
		}
		logger.Info("Cycle finished",
			zap.String("run_id", res.RunID),
			zap.Int("documents", len(res.Documents)),
			zap.Int("failed", len(res.Failed)),
			zap.String("archive", res.Archive))

		if cfg.Watch.Clean && res.Archive != "" {
			if rmErr := fsutil.RemoveFiles(res.Documents...); rmErr != nil {
				logger.Warn("Failed to clean output folder", zap.String("dir", outDir), zap.Error(rmErr))
			}
		}
		return err
	}
}
