package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"prismrestore/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently materialized files from the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.requireLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			counts, err := store.Counts(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No files recorded yet")
				return nil
			}
			fmt.Fprintln(out, renderHistory(entries, time.Now()))
			fmt.Fprintf(out, "Restored: %d  Failed: %d  Pending: %d  Skipped: %d\n",
				counts[ledger.RestoreDone], counts[ledger.RestoreFailed],
				counts[ledger.RestorePending], counts[ledger.RestoreSkipped])
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")
	return cmd
}
