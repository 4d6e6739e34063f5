package handlers_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Oxyrus/gallery/internal/catalog"
	"github.com/Oxyrus/gallery/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCatalog struct {
	source   catalog.DataSource
	photos   []storage.Photo
	albums   []storage.Album
	deleteOK bool
	updateOK bool

	deleted []storage.Photo
	updated []catalog.PhotoChanges
}

func (s *stubCatalog) Source() catalog.DataSource { return s.source }

func (s *stubCatalog) ListPhotos(context.Context) []storage.Photo { return s.photos }

func (s *stubCatalog) ListAlbums(context.Context) []storage.Album { return s.albums }

func (s *stubCatalog) ListPhotosInAlbum(_ context.Context, albumName string) []storage.Photo {
	var out []storage.Photo
	for _, p := range s.photos {
		if p.AlbumName == albumName {
			out = append(out, p)
		}
	}
	return out
}

func (s *stubCatalog) DeletePhoto(_ context.Context, photo storage.Photo) bool {
	s.deleted = append(s.deleted, photo)
	return s.deleteOK
}

func (s *stubCatalog) UpdatePhoto(_ context.Context, _ storage.Photo, changes catalog.PhotoChanges) bool {
	s.updated = append(s.updated, changes)
	return s.updateOK
}

func (s *stubCatalog) Photo(_ context.Context, id int64) (storage.Photo, bool) {
	for _, p := range s.photos {
		if p.ID == id {
			return p, true
		}
	}
	return storage.Photo{}, false
}

func (s *stubCatalog) Timeline(context.Context) []catalog.DayGroup {
	return catalog.GroupByDay(s.photos, time.UTC)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func sampleCatalog() *stubCatalog {
	return &stubCatalog{
		source: catalog.Live,
		photos: []storage.Photo{
			{
				ID:        1,
				Locator:   "/library/Summer Roadtrip/coast.jpg",
				Name:      "coast.jpg",
				DateTaken: time.Date(2025, 2, 15, 10, 30, 0, 0, time.UTC),
				AlbumName: "Summer Roadtrip",
			},
			{
				ID:        2,
				Locator:   "/library/Family/dinner.jpg",
				Name:      "dinner.jpg",
				DateTaken: time.Date(2025, 2, 14, 19, 0, 0, 0, time.UTC),
				AlbumName: "Family",
			},
		},
		albums: []storage.Album{
			{Name: "Family", ThumbnailLocator: "/library/Family/dinner.jpg", PhotoCount: 1},
			{Name: "Summer Roadtrip", ThumbnailLocator: "/library/Summer Roadtrip/coast.jpg", PhotoCount: 1},
		},
		deleteOK: true,
		updateOK: true,
	}
}
