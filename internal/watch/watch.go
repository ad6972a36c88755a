// Package watch runs report cycles when a spreadsheet and a photo archive
// land in an inbox directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tsawler/reportgen/format"
	"github.com/tsawler/reportgen/runlog"
)

// Job is one complete upload: a spreadsheet and a photo archive.
type Job struct {
	Source  string
	Archive string
}

// Handler runs one cycle. It is never called concurrently.
type Handler func(ctx context.Context, job Job) error

// Watcher watches an inbox directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	handler  Handler
	log      *runlog.Logger
	watcher  *fsnotify.Watcher
	done     map[string]time.Time // processed file -> modification time
}

// New creates a watcher for dir. Cycles start once the inbox has been quiet
// for debounce.
func New(dir string, debounce time.Duration, handler Handler, log runlog.Func) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		handler:  handler,
		log:      runlog.New(log),
		watcher:  w,
		done:     make(map[string]time.Time),
	}, nil
}

// Run handles inbox events until ctx is cancelled. Files already in the
// inbox are picked up at start. A running cycle always completes before the
// next event is read.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			resetTimer(timer, w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Watcher error: %v", err)
		case <-timer.C:
			w.cycle(ctx)
		}
	}
}

func (w *Watcher) cycle(ctx context.Context) {
	job, ok := w.Scan()
	if !ok || w.processed(job) {
		return
	}
	w.log.Info("Starting cycle for %s and %s", filepath.Base(job.Source), filepath.Base(job.Archive))
	if err := w.handler(ctx, job); err != nil {
		w.log.Error("Cycle failed: %v", err)
	}
	w.markProcessed(job)
}

// Scan returns the newest spreadsheet and the newest archive in the inbox.
func (w *Watcher) Scan() (Job, bool) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return Job{}, false
	}
	var job Job
	var srcTime, arcTime time.Time
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(w.dir, e.Name())
		switch format.Detect(e.Name()) {
		case format.XLSX:
			if job.Source == "" || info.ModTime().After(srcTime) {
				job.Source, srcTime = path, info.ModTime()
			}
		case format.ZIP:
			if job.Archive == "" || info.ModTime().After(arcTime) {
				job.Archive, arcTime = path, info.ModTime()
			}
		}
	}
	return job, job.Source != "" && job.Archive != ""
}

// processed reports whether both files of job were handled before and have
// not changed since.
func (w *Watcher) processed(job Job) bool {
	for _, p := range []string{job.Source, job.Archive} {
		t, ok := w.done[p]
		if !ok {
			return false
		}
		info, err := os.Stat(p)
		if err != nil || !info.ModTime().Equal(t) {
			return false
		}
	}
	return true
}

func (w *Watcher) markProcessed(job Job) {
	for _, p := range []string{job.Source, job.Archive} {
		info, err := os.Stat(p)
		if errors.Is(err, os.ErrNotExist) {
			delete(w.done, p)
			continue
		}
		if err == nil {
			w.done[p] = info.ModTime()
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return false
	}
	switch format.Detect(event.Name) {
	case format.XLSX, format.ZIP:
		return true
	}
	return false
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
