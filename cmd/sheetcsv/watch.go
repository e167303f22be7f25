package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchTick is how often pending files are checked against the debounce.
const watchTick = 100 * time.Millisecond

// isWorkbook reports whether path has a spreadsheet extension.
func isWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xls", ".xlsx", ".xlsm":
		return true
	default:
		return false
	}
}

// watch converts workbooks created or rewritten in dir until ctx is done.
// A file is converted once it has not changed for debounce.
func (c *converter) watch(ctx context.Context, dir string, debounce time.Duration) error {
	if c.originalDir != "" && filepath.Clean(c.originalDir) == filepath.Clean(dir) {
		return fmt.Errorf("original directory must differ from the watched directory %s", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	c.logger.Info("watching directory", "dir", dir, "debounce", debounce)

	ticker := time.NewTicker(watchTick)
	defer ticker.Stop()

	pending := make(map[string]time.Time) // path -> last change
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isWorkbook(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
				pending[event.Name] = time.Now()
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				delete(pending, event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("watch error", "error", err)

		case now := <-ticker.C:
			for path, changed := range pending {
				if now.Sub(changed) < debounce {
					continue
				}
				delete(pending, path)
				if err := c.convertInput(ctx, path); err != nil {
					c.logger.Error("conversion failed", "input", path, "error", err)
				}
			}
		}
	}
}
