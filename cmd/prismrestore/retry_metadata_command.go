package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prismrestore/internal/fileutil"
	"prismrestore/internal/logging"
	"prismrestore/internal/materialize"
	"prismrestore/internal/media/exifinfo"
	"prismrestore/internal/pipeline"
	"prismrestore/internal/services/exiftool"
)

func newRetryMetadataCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry-metadata",
		Short: "Re-run metadata restoration for files whose restore failed or never finished",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			lock, err := pipeline.AcquireRunLock(cfg.LockPath())
			if err != nil {
				return err
			}
			defer func() { _ = lock.Unlock() }()

			store, err := ctx.requireLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.NeedingRestore(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Nothing to retry")
				return nil
			}

			backend, err := exiftool.Open(cfg)
			if err != nil {
				return err
			}
			defer backend.Close()

			opts := []materialize.Option{materialize.WithLedger(store), materialize.WithLogger(logger)}
			if cfg.Restore.ReadExifSummary {
				opts = append(opts, materialize.WithExifReader(exifinfo.Read))
			}
			m := materialize.New(backend, opts...)
			log := logging.NewComponentLogger(logger, "retry")

			var restored, failed, missing int
			for _, entry := range entries {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				exists, err := fileutil.Exists(entry.Destination)
				if err != nil || !exists {
					missing++
					logging.WarnWithContext(log, "recovered file no longer present", "retry_missing_file",
						logging.String(logging.FieldDestination, entry.Destination),
						logging.String(logging.FieldImpact, "entry left for a later restore run"),
					)
					continue
				}
				if _, err := m.Restore(cmd.Context(), entry.Sidecar, entry.Destination); err != nil {
					failed++
					continue
				}
				restored++
				log.Info("metadata restored", logging.String(logging.FieldDestination, entry.Destination))
			}

			fmt.Fprintf(out, "Restored: %d  Failed: %d  Missing: %d\n", restored, failed, missing)
			if failed > 0 {
				return fmt.Errorf("%d file(s) still without metadata", failed)
			}
			return nil
		},
	}
}
