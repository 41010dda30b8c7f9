package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/joseph-ayodele/contracts-extractor/constants"
)

type WatchConfig struct {
	Roots       []string      // directories to watch (recursive)
	InitialScan bool          // emit files that already exist
	Debounce    time.Duration // coalesce create/write bursts
}

// Watch emits the paths of accepted, non-hidden files created or written under the roots.
// Both channels are closed once ctx is done.
func Watch(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		return nil, nil, errors.New("ingest: no watch roots")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("create watcher: %w", err)
	}
	var initial []string
	for _, root := range cfg.Roots {
		found, err := addTree(w, root)
		if err != nil {
			_ = w.Close()
			return nil, nil, fmt.Errorf("watch %s: %w", root, err)
		}
		if cfg.InitialScan {
			initial = append(initial, found...)
		}
	}

	events := make(chan string, 256)
	errs := make(chan error, 1)
	go watchLoop(ctx, w, cfg.Debounce, initial, events, errs, logger)

	logger.Info("ingest.watch.start", "roots", cfg.Roots, "initial", len(initial))
	return events, errs, nil
}

func watchLoop(ctx context.Context, w *fsnotify.Watcher, debounce time.Duration, initial []string,
	events chan<- string, errs chan<- error, logger *slog.Logger) {
	defer close(errs)
	defer close(events)
	defer func() {
		if err := w.Close(); err != nil {
			logger.Warn("ingest.watch.close", "error", err)
		}
	}()

	emit := func(paths ...string) bool {
		for _, p := range paths {
			select {
			case events <- p:
			case <-ctx.Done():
				return false
			}
		}
		return true
	}
	if !emit(initial...) {
		return
	}

	pending := map[string]struct{}{}
	flush := func() bool {
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		clear(pending)
		slices.Sort(paths)
		return emit(paths...)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					found, err := addTree(w, ev.Name)
					if err != nil {
						logger.Warn("ingest.watch.add_dir", "path", ev.Name, "error", err)
					}
					for _, p := range found {
						pending[p] = struct{}{}
					}
				}
			}
			if (ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write)) && accepted(ev.Name) {
				pending[ev.Name] = struct{}{}
			}
			if len(pending) == 0 {
				continue
			}
			if debounce <= 0 {
				if !flush() {
					return
				}
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if !flush() {
				return
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("ingest.watch.error", "error", err)
			select {
			case errs <- err:
			default:
			}
		}
	}
}

// addTree watches root and every non-hidden directory below it, returning the accepted files
// found on the way.
func addTree(w *fsnotify.Watcher, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return w.Add(path)
		}
		if accepted(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func accepted(path string) bool {
	return !IsHidden(path) && constants.IsAllowedExt(filepath.Ext(path))
}
