package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates that the requested entity does not exist in the
// underlying storage.
var ErrNotFound = errors.New("storage: not found")

// Photo is a single image known to the media index.
type Photo struct {
	ID        int64     `json:"id"`
	Locator   string    `json:"locator"`
	Name      string    `json:"name"`
	DateTaken time.Time `json:"dateTaken"`
	AlbumName string    `json:"albumName"`
	Favorite  bool      `json:"favorite"`
}

// Album is a group of photos sharing the same album name. Albums are never
// stored on their own; they are always derived from photos.
type Album struct {
	Name             string `json:"name"`
	ThumbnailLocator string `json:"thumbnailLocator"`
	PhotoCount       int    `json:"photoCount"`
}

// PhotoFields describes the writable fields of an indexed photo. A nil field
// indicates that no update should be applied for that attribute.
type PhotoFields struct {
	Name *string
}

// PhotoRecord is the data the library scanner writes for a single file.
type PhotoRecord struct {
	Locator   string
	Name      string
	DateTaken time.Time
	AlbumName string
}

// MediaIndex is the searchable catalog of photos the gallery reads from.
// Listing calls return photos ordered newest first.
type MediaIndex interface {
	QueryAllPhotos(ctx context.Context) ([]Photo, error)
	QueryAllAlbums(ctx context.Context) ([]Album, error)
	QueryPhotosByAlbum(ctx context.Context, albumName string) ([]Photo, error)
	Delete(ctx context.Context, locator string) (int64, error)
	Update(ctx context.Context, locator string, fields PhotoFields) (int64, error)
}

// Index is a MediaIndex that can also be maintained by the library scanner.
// It is expected to be safe for concurrent use.
type Index interface {
	MediaIndex
	// Upsert inserts a record or refreshes an existing one with the same
	// locator. A display name changed through Update is kept.
	Upsert(ctx context.Context, record PhotoRecord) (Photo, error)
	Locators(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}
