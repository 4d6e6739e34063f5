package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Oxyrus/gallery/internal/catalog"
	"github.com/Oxyrus/gallery/internal/event"
	"github.com/Oxyrus/gallery/internal/library"
	"github.com/Oxyrus/gallery/internal/router"
	"github.com/Oxyrus/gallery/internal/storage/sqlite"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "scan the library and serve the gallery over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := sqlite.Open(cfg.DBPath)
			if err != nil {
				logger.Error("failed to open sqlite database", "path", cfg.DBPath, "error", err)
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					logger.Error("failed to close sqlite database", "error", err)
				}
			}()

			hub := event.NewHub()
			go event.Log(ctx, hub, logger,
				event.CatalogLive, event.PhotoDeleted, event.PhotoUpdated, event.LibraryScanned)

			lib, err := library.New(cfg.LibraryPath, store, logger,
				library.WithEvents(hub),
				library.WithFileRemoval(cfg.DeleteFiles),
			)
			if err != nil {
				return err
			}

			// A missing library is not fatal: the catalog falls back to
			// placeholder content until the index can be read.
			if _, err := lib.Scan(ctx); err != nil {
				logger.Warn("initial library scan failed", "root", lib.Root(), "error", err)
			}

			if cfg.Watch {
				go func() {
					if err := lib.Watch(ctx, library.DefaultSettle); err != nil && !errors.Is(err, context.Canceled) {
						logger.Error("library watcher stopped", "error", err)
					}
				}()
			}

			cat := catalog.New(lib, logger, catalog.WithEvents(hub))

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           router.New(cfg, logger, cat, store),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting server", "addr", cfg.Addr, "library", lib.Root())
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server stopped", "error", err)
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown failed", "error", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides GALLERY_ADDR)")

	return cmd
}
