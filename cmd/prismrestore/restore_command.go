package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"prismrestore/internal/config"
	"prismrestore/internal/logging"
	"prismrestore/internal/materialize"
	"prismrestore/internal/media/exifinfo"
	"prismrestore/internal/pipeline"
	"prismrestore/internal/preflight"
	"prismrestore/internal/reconcile"
	"prismrestore/internal/services"
	"prismrestore/internal/services/exiftool"
)

type restoreOptions struct {
	outDir        string
	photoprismDir string
	dryRun        bool
	collision     string
	skipChecks    bool
}

func newRestoreCommand(ctx *commandContext) *cobra.Command {
	var opts restoreOptions

	cmd := &cobra.Command{
		Use:   "restore [output-root] [cache-root]",
		Short: "Copy cached photos into a dated tree and restore their metadata",
		Long: "Walks {cache-root}/cache/json, copies each sidecar's 2048px thumbnail to\n" +
			"{output-root}/{bucket}/{filename} taken from the sidecar's SourceFile, and\n" +
			"restores the sidecar metadata onto the copy with exiftool. Existing files are\n" +
			"never overwritten, so re-running is safe.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputRoot, cacheRoot, err := resolveRoots(args, opts.outDir, opts.photoprismDir)
			if err != nil {
				return err
			}
			return runRestore(cmd, ctx, opts, outputRoot, cacheRoot)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "", "Output root for recovered files")
	cmd.Flags().StringVarP(&opts.photoprismDir, "photoprism-dir", "p", "", "PhotoPrism storage directory containing cache/")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Resolve and report without copying anything")
	cmd.Flags().StringVar(&opts.collision, "collision", "", "Override restore.collision_policy (warn or fail)")
	cmd.Flags().BoolVar(&opts.skipChecks, "skip-checks", false, "Start without running preflight checks")
	return cmd
}

// resolveRoots accepts the roots positionally or through flags, flags first.
func resolveRoots(args []string, outFlag, cacheFlag string) (string, string, error) {
	outputRoot := strings.TrimSpace(outFlag)
	cacheRoot := strings.TrimSpace(cacheFlag)
	positional := append([]string(nil), args...)
	if outputRoot == "" && len(positional) > 0 {
		outputRoot, positional = positional[0], positional[1:]
	}
	if cacheRoot == "" && len(positional) > 0 {
		cacheRoot, positional = positional[0], positional[1:]
	}
	if len(positional) > 0 {
		return "", "", fmt.Errorf("unexpected argument %q", positional[0])
	}
	if outputRoot == "" || cacheRoot == "" {
		return "", "", services.Wrap(services.ErrConfiguration, "cli", "resolve roots",
			"both an output root and a cache root are required", nil)
	}

	var err error
	if outputRoot, err = config.ExpandPath(outputRoot); err != nil {
		return "", "", err
	}
	if cacheRoot, err = config.ExpandPath(cacheRoot); err != nil {
		return "", "", err
	}
	return outputRoot, cacheRoot, nil
}

func runRestore(cmd *cobra.Command, ctx *commandContext, opts restoreOptions, outputRoot, cacheRoot string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	policy := cfg.Restore.CollisionPolicy
	if flag := strings.TrimSpace(opts.collision); flag != "" {
		if err := config.ValidateCollisionPolicy(flag); err != nil {
			return services.Wrap(services.ErrConfiguration, "cli", "collision flag", "", err)
		}
		policy = flag
	}

	logger, err := ctx.logger(cmd)
	if err != nil {
		return err
	}

	if !opts.skipChecks {
		results := preflight.RunAll(cmd.Context(), cfg, outputRoot, cacheRoot)
		for _, r := range preflight.Warnings(results) {
			logging.WarnWithContext(logger, "preflight warning", "preflight_warning",
				logging.String("check", r.Name),
				logging.String(logging.FieldErrorHint, r.Detail),
				logging.String(logging.FieldImpact, "affected items will be reported and skipped"),
			)
		}
		if failed := preflight.Failed(results); len(failed) > 0 {
			lines := make([]string, 0, len(failed))
			for _, r := range failed {
				lines = append(lines, fmt.Sprintf("%s: %s", r.Name, r.Detail))
			}
			return services.Wrap(services.ErrConfiguration, "cli", "preflight",
				"checks failed (run `prismrestore check` for details): "+strings.Join(lines, "; "), nil)
		}
	}

	backend, err := exiftool.Open(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	store, err := ctx.openLedger()
	if err != nil {
		return err
	}
	matOpts := []materialize.Option{
		materialize.WithCollisionPolicy(policy),
		materialize.WithVerifiedCopies(cfg.Restore.VerifyCopies),
		materialize.WithDryRun(opts.dryRun),
		materialize.WithLogger(logger),
	}
	if store != nil {
		defer store.Close()
		matOpts = append(matOpts, materialize.WithLedger(store))
	}
	if cfg.Restore.ReadExifSummary {
		matOpts = append(matOpts, materialize.WithExifReader(exifinfo.Read))
	}

	progress := newProgressReporter(cmd.ErrOrStderr(), cmd.OutOrStdout(), cfg)
	runner := pipeline.New(
		cacheRoot,
		reconcile.New(cacheRoot, outputRoot,
			reconcile.WithNormalization(reconcile.ParseNormalization(cfg.Output.UnicodeNormalization))),
		materialize.New(backend, matOpts...),
		pipeline.WithLogger(logger),
		pipeline.WithLockPath(cfg.LockPath()),
		pipeline.WithObserver(progress),
	)

	summary, runErr := runner.Run(cmd.Context())
	progress.Finish()

	if summary.Sidecars > 0 || summary.TraversalErrors > 0 || runErr == nil || errors.Is(runErr, services.ErrCollision) {
		fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary, opts.dryRun))
	}
	return runErr
}
