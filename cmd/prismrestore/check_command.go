package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"prismrestore/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var outDir, photoprismDir string

	cmd := &cobra.Command{
		Use:   "check [output-root] [cache-root]",
		Short: "Run preflight checks without restoring anything",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputRoot, cacheRoot, err := resolveRoots(args, outDir, photoprismDir)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := isTerminal(out)
			results := preflight.RunAll(cmd.Context(), cfg, outputRoot, cacheRoot)

			lines := renderPreflight(cfg, results, colorize)
			fmt.Fprintln(out, strings.Join(lines, "\n"))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d preflight check(s) failed", len(failed))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Output root for recovered files")
	cmd.Flags().StringVarP(&photoprismDir, "photoprism-dir", "p", "", "PhotoPrism storage directory containing cache/")
	return cmd
}
