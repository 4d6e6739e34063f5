package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"

	"github.com/Oxyrus/gallery/internal/catalog"
	"github.com/Oxyrus/gallery/internal/http/render"
	"github.com/Oxyrus/gallery/internal/storage"
	"github.com/Oxyrus/gallery/web/pages"
)

// Catalog is the part of catalog.Catalog the HTTP layer relies on.
type Catalog interface {
	Source() catalog.DataSource
	ListPhotos(ctx context.Context) []storage.Photo
	ListAlbums(ctx context.Context) []storage.Album
	ListPhotosInAlbum(ctx context.Context, albumName string) []storage.Photo
	DeletePhoto(ctx context.Context, photo storage.Photo) bool
	UpdatePhoto(ctx context.Context, photo storage.Photo, changes catalog.PhotoChanges) bool
	Photo(ctx context.Context, id int64) (storage.Photo, bool)
	Timeline(ctx context.Context) []catalog.DayGroup
}

type AlbumHandler struct {
	logger  *slog.Logger
	catalog Catalog
}

func NewAlbumHandler(logger *slog.Logger, catalog Catalog) *AlbumHandler {
	return &AlbumHandler{
		logger:  logger,
		catalog: catalog,
	}
}

func (h *AlbumHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	albums := h.catalog.ListAlbums(ctx)
	photos := h.catalog.ListPhotos(ctx)
	thumbs := thumbnailIDs(photos)

	cards := make([]pages.AlbumCard, 0, len(albums))
	for _, album := range albums {
		card := pages.AlbumCard{
			Name:       album.Name,
			Href:       albumHref(album.Name),
			PhotoCount: album.PhotoCount,
		}
		if id, ok := thumbs[album.ThumbnailLocator]; ok {
			card.ThumbnailSrc = imageSrc(id)
		}
		cards = append(cards, card)
	}

	render.HTML(c, http.StatusOK, pages.AlbumsGrid(cards, h.catalog.Source() == catalog.Placeholder))
}

func (h *AlbumHandler) View(c *gin.Context) {
	ctx := c.Request.Context()

	album, ok := h.resolve(ctx, c.Param("slug"))
	if !ok {
		c.String(http.StatusNotFound, "album not found")
		return
	}

	photos := h.catalog.ListPhotosInAlbum(ctx, album.Name)

	render.HTML(c, http.StatusOK, pages.AlbumDetail(pages.AlbumDetailData{
		Name:   album.Name,
		Photos: toTiles(photos),
	}))
}

func (h *AlbumHandler) APIList(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.ListAlbums(c.Request.Context()))
}

func (h *AlbumHandler) APIPhotos(c *gin.Context) {
	ctx := c.Request.Context()

	album, ok := h.resolve(ctx, c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "album not found"})
		return
	}

	photos := h.catalog.ListPhotosInAlbum(ctx, album.Name)
	if photos == nil {
		photos = []storage.Photo{}
	}
	c.JSON(http.StatusOK, photos)
}

// resolve maps a URL slug back to the album it was generated from.
func (h *AlbumHandler) resolve(ctx context.Context, albumSlug string) (storage.Album, bool) {
	albumSlug = strings.TrimSpace(albumSlug)
	if albumSlug == "" {
		return storage.Album{}, false
	}

	for _, album := range h.catalog.ListAlbums(ctx) {
		if slug.Make(album.Name) == albumSlug {
			return album, true
		}
	}
	return storage.Album{}, false
}

func albumHref(name string) string {
	return fmt.Sprintf("/albums/%s", slug.Make(name))
}

// thumbnailIDs indexes photo ids by locator so album thumbnails can be
// served through the photo image route.
func thumbnailIDs(photos []storage.Photo) map[string]int64 {
	ids := make(map[string]int64, len(photos))
	for _, photo := range photos {
		if _, ok := ids[photo.Locator]; !ok {
			ids[photo.Locator] = photo.ID
		}
	}
	return ids
}
