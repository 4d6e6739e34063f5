// Package catalog serves the gallery's photos and albums. It reads from a
// media index and, until that index has answered with real data at least
// once, falls back to a generated placeholder catalog.
package catalog

import (
	"cmp"
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/Oxyrus/gallery/internal/event"
	"github.com/Oxyrus/gallery/internal/storage"
)

// DataSource identifies which backing store a Catalog consults.
type DataSource int

const (
	// Placeholder serves the generated catalog. Mutations succeed without
	// touching anything.
	Placeholder DataSource = iota
	// Live serves the media index. Once reached it is never left.
	Live
)

func (s DataSource) String() string {
	switch s {
	case Live:
		return "live"
	default:
		return "placeholder"
	}
}

// PhotoChanges lists the edits requested for a photo. A nil field is left
// untouched.
type PhotoChanges struct {
	Name *string
	// AlbumName is accepted but never applied: moving a photo between
	// albums is not supported by any backing store.
	AlbumName *string
}

// Catalog is safe for concurrent use.
type Catalog struct {
	index  storage.MediaIndex
	logger *slog.Logger
	events *event.Hub

	newRand  func() *rand.Rand
	now      func() time.Time
	location *time.Location

	mu          sync.Mutex
	source      DataSource
	placeholder []storage.Photo
	albums      []storage.Album
}

// Option customises a Catalog.
type Option func(*Catalog)

// WithSeed makes placeholder generation deterministic.
func WithSeed(seed uint64) Option {
	return func(c *Catalog) {
		c.newRand = func() *rand.Rand {
			return rand.New(rand.NewPCG(seed, seed))
		}
	}
}

// WithClock overrides the time placeholder photos are dated against.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		c.now = now
	}
}

// WithEvents publishes catalog notifications on h.
func WithEvents(h *event.Hub) Option {
	return func(c *Catalog) {
		c.events = h
	}
}

// WithLocation sets the time zone used to split the timeline into days.
func WithLocation(loc *time.Location) Option {
	return func(c *Catalog) {
		c.location = loc
	}
}

func New(index storage.MediaIndex, logger *slog.Logger, opts ...Option) *Catalog {
	c := &Catalog{
		index:    index,
		logger:   logger,
		newRand:  newSeededRand,
		now:      time.Now,
		location: time.Local,
		source:   Placeholder,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source reports the backing store currently in use.
func (c *Catalog) Source() DataSource {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// ListPhotos returns every indexed photo, newest first. When the index fails
// or is empty the placeholder photos are returned instead.
func (c *Catalog) ListPhotos(ctx context.Context) []storage.Photo {
	photos, err := c.index.QueryAllPhotos(ctx)
	if err != nil {
		c.logger.Warn("media index unavailable, serving placeholder photos", "error", err)
		return c.placeholderPhotos()
	}
	if len(photos) == 0 {
		return c.placeholderPhotos()
	}

	c.goLive()
	sortNewestFirst(photos)
	return photos
}

// ListAlbums mirrors ListPhotos for the album aggregation.
func (c *Catalog) ListAlbums(ctx context.Context) []storage.Album {
	albums, err := c.index.QueryAllAlbums(ctx)
	if err != nil {
		c.logger.Warn("media index unavailable, serving placeholder albums", "error", err)
		return c.placeholderAlbums()
	}
	if len(albums) == 0 {
		return c.placeholderAlbums()
	}

	c.goLive()
	return albums
}

// ListPhotosInAlbum returns the photos whose album name equals albumName.
// A live catalog returns the index answer as-is, even when empty; an index
// error still falls back to the placeholder photos.
func (c *Catalog) ListPhotosInAlbum(ctx context.Context, albumName string) []storage.Photo {
	if c.Source() == Placeholder {
		return filterAlbum(c.placeholderPhotos(), albumName)
	}

	photos, err := c.index.QueryPhotosByAlbum(ctx, albumName)
	if err != nil {
		c.logger.Warn("media index unavailable, filtering placeholder photos", "album", albumName, "error", err)
		return filterAlbum(c.placeholderPhotos(), albumName)
	}

	sortNewestFirst(photos)
	return photos
}

// DeletePhoto removes photo from the index. Placeholder photos are never
// removed but the call still reports success.
func (c *Catalog) DeletePhoto(ctx context.Context, photo storage.Photo) bool {
	if c.Source() == Placeholder {
		return true
	}

	n, err := c.index.Delete(ctx, photo.Locator)
	if err != nil {
		c.logger.Warn("failed to delete photo", "photoID", photo.ID, "locator", photo.Locator, "error", err)
		return false
	}
	if n == 0 {
		return false
	}

	event.Publish(c.events, event.PhotoDeleted, event.Data{"id": photo.ID, "locator": photo.Locator})
	return true
}

// UpdatePhoto renames photo. changes.AlbumName is ignored by both data
// sources; placeholder photos accept every change without applying it.
func (c *Catalog) UpdatePhoto(ctx context.Context, photo storage.Photo, changes PhotoChanges) bool {
	if c.Source() == Placeholder {
		return true
	}

	n, err := c.index.Update(ctx, photo.Locator, storage.PhotoFields{Name: changes.Name})
	if err != nil {
		c.logger.Warn("failed to update photo", "photoID", photo.ID, "locator", photo.Locator, "error", err)
		return false
	}
	if n == 0 {
		return false
	}

	data := event.Data{"id": photo.ID, "locator": photo.Locator}
	if changes.Name != nil {
		data["name"] = *changes.Name
	}
	event.Publish(c.events, event.PhotoUpdated, data)
	return true
}

// Photo looks id up among the photos ListPhotos returns.
func (c *Catalog) Photo(ctx context.Context, id int64) (storage.Photo, bool) {
	for _, photo := range c.ListPhotos(ctx) {
		if photo.ID == id {
			return photo, true
		}
	}
	return storage.Photo{}, false
}

// Timeline groups ListPhotos by the calendar day each photo was taken.
func (c *Catalog) Timeline(ctx context.Context) []DayGroup {
	return GroupByDay(c.ListPhotos(ctx), c.location)
}

func (c *Catalog) goLive() {
	c.mu.Lock()
	switched := c.source != Live
	c.source = Live
	c.mu.Unlock()

	if switched {
		c.logger.Info("media index answered, switching to live data")
		event.Publish(c.events, event.CatalogLive, event.Data{})
	}
}

func (c *Catalog) placeholderPhotos() []storage.Photo {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensurePlaceholderLocked()
	return slices.Clone(c.placeholder)
}

func (c *Catalog) placeholderAlbums() []storage.Album {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensurePlaceholderLocked()
	return slices.Clone(c.albums)
}

func (c *Catalog) ensurePlaceholderLocked() {
	if c.placeholder != nil {
		return
	}
	c.placeholder = GeneratePlaceholder(c.newRand(), c.now())
	c.albums = GroupAlbums(c.placeholder)
}

func filterAlbum(photos []storage.Photo, albumName string) []storage.Photo {
	result := make([]storage.Photo, 0, len(photos))
	for _, photo := range photos {
		if photo.AlbumName == albumName {
			result = append(result, photo)
		}
	}
	return result
}

func sortNewestFirst(photos []storage.Photo) {
	slices.SortStableFunc(photos, func(a, b storage.Photo) int {
		return cmp.Compare(b.DateTaken.UnixNano(), a.DateTaken.UnixNano())
	})
}
