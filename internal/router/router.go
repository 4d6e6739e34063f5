package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Oxyrus/gallery/internal/config"
	"github.com/Oxyrus/gallery/internal/http/handlers"
	"github.com/Oxyrus/gallery/internal/http/middleware"
)

// Pinger reports whether the media index is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func New(cfg *config.Config, logger *slog.Logger, cat handlers.Catalog, index Pinger) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logging(logger))

	albumHandler := handlers.NewAlbumHandler(logger, cat)
	photoHandler := handlers.NewPhotoHandler(logger, cat, cfg.AssetsPath)

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/albums")
	})
	r.GET("/albums", albumHandler.List)
	r.GET("/albums/:slug", albumHandler.View)
	r.GET("/timeline", photoHandler.Timeline)
	r.GET("/photos/:id", photoHandler.View)
	r.GET("/photos/:id/image", photoHandler.Image)

	api := r.Group("/api")
	api.GET("/source", photoHandler.APISource)
	api.GET("/photos", photoHandler.APIList)
	api.GET("/photos/:id", photoHandler.APIGet)
	api.GET("/timeline", photoHandler.APITimeline)
	api.GET("/albums", albumHandler.APIList)
	api.GET("/albums/:slug/photos", albumHandler.APIPhotos)

	protected := r.Group("/")
	if cfg.AuthEnabled() {
		authHandler := handlers.NewAuthHandler(logger, cfg.AdminPassword, cfg.AdminCookie)
		r.GET("/login", authHandler.ShowLogin)
		r.POST("/login", authHandler.SubmitLogin)

		protected.Use(middleware.RequireAdmin(cfg.AdminCookie, middleware.SessionToken(cfg.AdminPassword)))
	}
	protected.GET("/photos/:id/delete", photoHandler.ConfirmDelete)
	protected.POST("/photos/:id/delete", photoHandler.Delete)
	protected.POST("/photos/:id/rename", photoHandler.Rename)
	protected.PATCH("/api/photos/:id", photoHandler.APIUpdate)
	protected.DELETE("/api/photos/:id", photoHandler.APIDelete)

	r.GET("/healthz", func(c *gin.Context) {
		if err := index.Ping(c.Request.Context()); err != nil {
			logger.Error("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "source": cat.Source().String()})
	})

	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "not found")
	})

	return r
}
