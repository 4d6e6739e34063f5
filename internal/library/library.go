// Package library turns a directory tree of image files into the gallery's
// media index. Each file is one photo; the directory holding it names its
// album.
package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Oxyrus/gallery/internal/event"
	"github.com/Oxyrus/gallery/internal/storage"
)

// UnknownAlbum labels photos stored directly in the library root.
const UnknownAlbum = "Unknown"

// Library is a storage.MediaIndex over the files below Root. Queries and
// renames go straight to the index; deletes also remove the file.
type Library struct {
	root        string
	index       storage.Index
	logger      *slog.Logger
	events      *event.Hub
	removeFiles bool

	scanMu sync.Mutex
}

// Option customises a Library.
type Option func(*Library)

// WithEvents publishes library notifications on h.
func WithEvents(h *event.Hub) Option {
	return func(l *Library) {
		l.events = h
	}
}

// WithFileRemoval controls whether deleting a photo removes its file.
// Enabled by default.
func WithFileRemoval(enabled bool) Option {
	return func(l *Library) {
		l.removeFiles = enabled
	}
}

func New(root string, index storage.Index, logger *slog.Logger, opts ...Option) (*Library, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("library: resolve root: %w", err)
	}

	l := &Library{
		root:        abs,
		index:       index,
		logger:      logger,
		removeFiles: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Root returns the absolute library directory.
func (l *Library) Root() string {
	return l.root
}

func (l *Library) QueryAllPhotos(ctx context.Context) ([]storage.Photo, error) {
	return l.index.QueryAllPhotos(ctx)
}

func (l *Library) QueryAllAlbums(ctx context.Context) ([]storage.Album, error) {
	return l.index.QueryAllAlbums(ctx)
}

func (l *Library) QueryPhotosByAlbum(ctx context.Context, albumName string) ([]storage.Photo, error) {
	return l.index.QueryPhotosByAlbum(ctx, albumName)
}

func (l *Library) Update(ctx context.Context, locator string, fields storage.PhotoFields) (int64, error) {
	return l.index.Update(ctx, locator, fields)
}

// Delete removes the index record for locator and then its file. The file
// is only touched once a record was actually deleted. A file that cannot be
// removed is logged and picked up again by the next scan.
func (l *Library) Delete(ctx context.Context, locator string) (int64, error) {
	if l.removeFiles && !l.contains(locator) {
		return 0, fmt.Errorf("library: delete %q: outside library root", locator)
	}

	n, err := l.index.Delete(ctx, locator)
	if err != nil || n == 0 || !l.removeFiles {
		return n, err
	}

	if err := os.Remove(locator); err != nil && !errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("library: failed to remove deleted photo", "locator", locator, "error", err)
	}
	return n, nil
}

func (l *Library) contains(path string) bool {
	rel, err := filepath.Rel(l.root, path)
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel)
}

func (l *Library) albumFor(path string) string {
	dir := filepath.Dir(path)
	if dir == l.root {
		return UnknownAlbum
	}
	return filepath.Base(dir)
}

var _ storage.MediaIndex = (*Library)(nil)
