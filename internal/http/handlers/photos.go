package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/Oxyrus/gallery/internal/catalog"
	"github.com/Oxyrus/gallery/internal/http/render"
	"github.com/Oxyrus/gallery/internal/storage"
	"github.com/Oxyrus/gallery/web/pages"
)

type PhotoHandler struct {
	logger     *slog.Logger
	catalog    Catalog
	assetsPath string
}

// NewPhotoHandler serves photo pages. assetsPath holds the bundled sample
// images placeholder photos point at.
func NewPhotoHandler(logger *slog.Logger, catalog Catalog, assetsPath string) *PhotoHandler {
	return &PhotoHandler{
		logger:     logger,
		catalog:    catalog,
		assetsPath: assetsPath,
	}
}

func (h *PhotoHandler) Timeline(c *gin.Context) {
	groups := h.catalog.Timeline(c.Request.Context())

	days := make([]pages.TimelineDay, 0, len(groups))
	for _, group := range groups {
		days = append(days, pages.TimelineDay{
			Label:  group.Label,
			Photos: toTiles(group.Photos),
		})
	}

	render.HTML(c, http.StatusOK, pages.Timeline(days))
}

func (h *PhotoHandler) View(c *gin.Context) {
	photo, ok := h.lookup(c)
	if !ok {
		c.String(http.StatusNotFound, "photo not found")
		return
	}

	render.HTML(c, http.StatusOK, pages.PhotoDetail(detailData(photo, "")))
}

func (h *PhotoHandler) ConfirmDelete(c *gin.Context) {
	photo, ok := h.lookup(c)
	if !ok {
		c.String(http.StatusNotFound, "photo not found")
		return
	}

	render.HTML(c, http.StatusOK, pages.ConfirmDelete(pages.ConfirmDeleteData{
		Name:       photo.Name,
		Action:     fmt.Sprintf("/photos/%d/delete", photo.ID),
		CancelHref: photoHref(photo.ID),
	}))
}

func (h *PhotoHandler) Rename(c *gin.Context) {
	ctx := c.Request.Context()

	photo, ok := h.lookup(c)
	if !ok {
		c.String(http.StatusNotFound, "photo not found")
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		render.HTML(c, http.StatusUnprocessableEntity, pages.PhotoDetail(detailData(photo, "Name is required.")))
		return
	}

	if !h.catalog.UpdatePhoto(ctx, photo, catalog.PhotoChanges{Name: &name}) {
		h.logger.Warn("photo rename rejected", "photoID", photo.ID)
		render.HTML(c, http.StatusUnprocessableEntity, pages.PhotoDetail(detailData(photo, "The photo could not be renamed.")))
		return
	}

	h.logger.Info("photo renamed", "photoID", photo.ID, "name", name)
	c.Redirect(http.StatusSeeOther, photoHref(photo.ID))
}

func (h *PhotoHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	photo, ok := h.lookup(c)
	if !ok {
		c.String(http.StatusNotFound, "photo not found")
		return
	}

	if !h.catalog.DeletePhoto(ctx, photo) {
		h.logger.Warn("photo delete rejected", "photoID", photo.ID)
		c.String(http.StatusUnprocessableEntity, "failed to delete photo")
		return
	}

	h.logger.Info("photo deleted", "photoID", photo.ID)
	c.Redirect(http.StatusSeeOther, albumHref(photo.AlbumName))
}

// Image streams the file behind a photo. Placeholder photos resolve to the
// bundled sample image of the same name in the assets directory.
func (h *PhotoHandler) Image(c *gin.Context) {
	photo, ok := h.lookup(c)
	if !ok {
		c.String(http.StatusNotFound, "photo not found")
		return
	}

	path := photo.Locator
	if sample, ok := catalog.SampleImage(photo.Locator); ok {
		path = h.sampleFile(sample)
		if path == "" {
			c.String(http.StatusNotFound, "sample image not found")
			return
		}
	}

	c.File(path)
}

func (h *PhotoHandler) APIList(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.ListPhotos(c.Request.Context()))
}

func (h *PhotoHandler) APITimeline(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Timeline(c.Request.Context()))
}

func (h *PhotoHandler) APISource(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"source": h.catalog.Source().String()})
}

func (h *PhotoHandler) APIGet(c *gin.Context) {
	photo, ok := h.lookup(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}
	c.JSON(http.StatusOK, photo)
}

type photoUpdateRequest struct {
	Name      *string `json:"name"`
	AlbumName *string `json:"albumName"`
}

func (h *PhotoHandler) APIUpdate(c *gin.Context) {
	ctx := c.Request.Context()

	photo, ok := h.lookup(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}

	var req photoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name must not be empty"})
			return
		}
		req.Name = &trimmed
	}

	ok = h.catalog.UpdatePhoto(ctx, photo, catalog.PhotoChanges{
		Name:      req.Name,
		AlbumName: req.AlbumName,
	})
	c.JSON(http.StatusOK, gin.H{"ok": ok})
}

func (h *PhotoHandler) APIDelete(c *gin.Context) {
	photo, ok := h.lookup(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": h.catalog.DeletePhoto(c.Request.Context(), photo)})
}

func (h *PhotoHandler) lookup(c *gin.Context) (storage.Photo, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		return storage.Photo{}, false
	}
	return h.catalog.Photo(c.Request.Context(), id)
}

func (h *PhotoHandler) sampleFile(name string) string {
	if h.assetsPath == "" || strings.ContainsAny(name, `/\`) {
		return ""
	}
	matches, err := filepath.Glob(filepath.Join(h.assetsPath, name+".*"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}

func detailData(photo storage.Photo, errMsg string) pages.PhotoDetailData {
	return pages.PhotoDetailData{
		Name:         photo.Name,
		AlbumName:    photo.AlbumName,
		AlbumHref:    albumHref(photo.AlbumName),
		ImageSrc:     imageSrc(photo.ID),
		TakenAt:      photo.DateTaken.Local().Format("02-01-2006 15:04"),
		TakenAgo:     humanize.Time(photo.DateTaken),
		RenameAction: fmt.Sprintf("/photos/%d/rename", photo.ID),
		DeleteHref:   fmt.Sprintf("/photos/%d/delete", photo.ID),
		Error:        errMsg,
	}
}

func toTiles(photos []storage.Photo) []pages.PhotoTile {
	tiles := make([]pages.PhotoTile, 0, len(photos))
	for _, photo := range photos {
		tiles = append(tiles, pages.PhotoTile{
			Name:     photo.Name,
			Href:     photoHref(photo.ID),
			ImageSrc: imageSrc(photo.ID),
		})
	}
	return tiles
}

func photoHref(id int64) string {
	return fmt.Sprintf("/photos/%d", id)
}

func imageSrc(id int64) string {
	return fmt.Sprintf("/photos/%d/image", id)
}
