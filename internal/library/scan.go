package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/karrick/godirwalk"

	"github.com/Oxyrus/gallery/internal/event"
	"github.com/Oxyrus/gallery/internal/storage"
)

// headerSize is the number of bytes filetype needs to recognise a format.
const headerSize = 261

// ScanResult summarises one pass over the library.
type ScanResult struct {
	Indexed int `json:"indexed"`
	Removed int `json:"removed"`
	Skipped int `json:"skipped"`
}

// Scan walks the library, indexes every image it finds and drops index
// records whose files no longer exist. Concurrent scans are serialised.
// An index write failure or a cancelled ctx stops the walk and returns the
// error without removing anything.
func (l *Library) Scan(ctx context.Context) (ScanResult, error) {
	l.scanMu.Lock()
	defer l.scanMu.Unlock()

	var result ScanResult

	info, err := os.Stat(l.root)
	if err != nil {
		return result, fmt.Errorf("library: scan: %w", err)
	}
	if !info.IsDir() {
		return result, fmt.Errorf("library: scan: %s is not a directory", l.root)
	}

	// A walk that skipped anything cannot tell a vanished file from an
	// unread one, so it leaves existing records alone.
	var (
		seen       = make(map[string]struct{})
		fatal      error
		incomplete bool
	)

	err = godirwalk.Walk(l.root, &godirwalk.Options{
		Unsorted: true,
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			if fatal != nil {
				return godirwalk.Halt
			}
			incomplete = true
			l.logger.Warn("library: skipping unreadable path", "path", path, "error", err)
			return godirwalk.SkipNode
		},
		Callback: func(path string, de *godirwalk.Dirent) error {
			if err := ctx.Err(); err != nil {
				fatal = err
				return err
			}

			if de.IsDir() {
				if path != l.root && isHidden(path) {
					return godirwalk.SkipThis
				}
				return nil
			}
			if !de.IsRegular() || isHidden(path) {
				return nil
			}

			record, ok, err := l.inspect(path)
			if err != nil {
				l.logger.Warn("library: failed to inspect file", "path", path, "error", err)
				seen[path] = struct{}{}
				result.Skipped++
				return nil
			}
			if !ok {
				result.Skipped++
				return nil
			}

			if _, err := l.index.Upsert(ctx, record); err != nil {
				fatal = err
				return err
			}
			seen[path] = struct{}{}
			result.Indexed++
			return nil
		},
	})
	if err == nil {
		err = fatal
	}
	if err != nil {
		return result, fmt.Errorf("library: scan: %w", err)
	}

	if incomplete {
		l.logger.Warn("library: walk was incomplete, keeping records of unseen files", "root", l.root)
		l.publishScan(result)
		return result, nil
	}

	locators, err := l.index.Locators(ctx)
	if err != nil {
		return result, fmt.Errorf("library: scan: %w", err)
	}
	for _, locator := range locators {
		if _, ok := seen[locator]; ok {
			continue
		}
		n, err := l.index.Delete(ctx, locator)
		if err != nil {
			return result, fmt.Errorf("library: scan: %w", err)
		}
		result.Removed += int(n)
	}

	l.publishScan(result)
	return result, nil
}

func (l *Library) publishScan(result ScanResult) {
	l.logger.Info("library scanned",
		"root", l.root,
		"indexed", result.Indexed,
		"removed", result.Removed,
		"skipped", result.Skipped,
	)
	event.Publish(l.events, event.LibraryScanned, event.Data{
		"indexed": result.Indexed,
		"removed": result.Removed,
		"skipped": result.Skipped,
	})
}

// inspect reports whether path holds an image and, if so, the record to
// index for it.
func (l *Library) inspect(path string) (storage.PhotoRecord, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return storage.PhotoRecord{}, false, err
	}
	defer f.Close()

	head := make([]byte, headerSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return storage.PhotoRecord{}, false, err
	}
	if !filetype.IsImage(head[:n]) {
		return storage.PhotoRecord{}, false, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return storage.PhotoRecord{}, false, err
	}

	taken, ok := captureTime(f)
	if !ok {
		info, err := f.Stat()
		if err != nil {
			return storage.PhotoRecord{}, false, err
		}
		taken = info.ModTime()
	}

	return storage.PhotoRecord{
		Locator:   path,
		Name:      filepath.Base(path),
		DateTaken: taken,
		AlbumName: l.albumFor(path),
	}, true, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
