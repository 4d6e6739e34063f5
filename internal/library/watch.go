package library

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/karrick/godirwalk"
)

// DefaultSettle is how long the library must stay quiet before a change
// triggers a rescan.
const DefaultSettle = 2 * time.Second

// Watch rescans the library after files below it change, until ctx is done.
// Bursts of events closer together than settle cause a single rescan.
func (l *Library) Watch(ctx context.Context, settle time.Duration) error {
	if settle <= 0 {
		settle = DefaultSettle
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("library: watch: %w", err)
	}
	defer watcher.Close()

	if err := l.watchTree(watcher, l.root); err != nil {
		return fmt.Errorf("library: watch: %w", err)
	}

	timer := time.NewTimer(settle)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	l.logger.Info("watching library", "root", l.root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isHidden(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := l.watchTree(watcher, ev.Name); err != nil {
						l.logger.Warn("library: failed to watch directory", "path", ev.Name, "error", err)
					}
				}
			}
			l.logger.Debug("library change", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(settle)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Warn("library: watcher error", "error", err)
		case <-timer.C:
			if _, err := l.Scan(ctx); err != nil {
				l.logger.Error("library: rescan failed", "error", err)
			}
		}
	}
}

func (l *Library) watchTree(watcher *fsnotify.Watcher, dir string) error {
	return godirwalk.Walk(dir, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !de.IsDir() {
				return nil
			}
			if path != l.root && isHidden(path) {
				return godirwalk.SkipThis
			}
			return watcher.Add(path)
		},
	})
}
