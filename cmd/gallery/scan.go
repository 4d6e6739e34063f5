package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Oxyrus/gallery/internal/library"
	"github.com/Oxyrus/gallery/internal/storage/sqlite"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "index the photo library once and exit",
		Long: `Walk the library directory, index every image found and drop
records whose files have disappeared.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			store, err := sqlite.Open(cfg.DBPath)
			if err != nil {
				logger.Error("failed to open sqlite database", "path", cfg.DBPath, "error", err)
				return err
			}
			defer store.Close()

			lib, err := library.New(cfg.LibraryPath, store, logger)
			if err != nil {
				return err
			}

			result, err := lib.Scan(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d, removed %d, skipped %d\n",
				result.Indexed, result.Removed, result.Skipped)
			return nil
		},
	}
}
