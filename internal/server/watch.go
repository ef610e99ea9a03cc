package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long a file must stay quiet before it is loaded.
const watchDebounce = 250 * time.Millisecond

// isExport reports whether path names a model export.
func isExport(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".vpax")
}

// watch loads exports created or rewritten in dir until ctx is done.
// Writes are debounced per file so a half-copied archive is not read.
func (s *Server) watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	s.logger.Info("watching for model exports", "dir", dir)

	var (
		mu     sync.Mutex
		timers = make(map[string]*time.Timer)
	)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !isExport(event.Name) {
				continue
			}

			path := event.Name
			mu.Lock()
			if t, exists := timers[path]; exists {
				t.Stop()
			}
			timers[path] = time.AfterFunc(watchDebounce, func() {
				mu.Lock()
				delete(timers, path)
				mu.Unlock()
				if ctx.Err() != nil {
					return
				}
				s.loadFile(path)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// loadFile ingests the export at path. Failures are logged and keep the current snapshot.
func (s *Server) loadFile(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		s.logger.Error("failed to read export", "file", path, "error", err)
		return
	}
	if int64(len(raw)) > s.cfg.MaxUploadBytes {
		s.logger.Warn("export exceeds upload limit", "file", path, "bytes", len(raw))
		return
	}
	if _, err := s.Ingest(filepath.Base(path), "watch", raw); err != nil {
		s.logger.Warn("ignored export", "file", path, "error", err)
	}
}
