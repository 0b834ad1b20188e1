package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"prismrestore/internal/logging"
	"prismrestore/internal/materialize"
	"prismrestore/internal/reconcile"
	"prismrestore/internal/services"
	"prismrestore/internal/sidecar"
)

// Resolver turns a sidecar path into a reconciled item.
type Resolver interface {
	Resolve(sidecarPath string) (reconcile.Item, error)
}

// Materializer performs the per-item side effects.
type Materializer interface {
	Materialize(ctx context.Context, item reconcile.Item) materialize.Report
}

// Observer receives per-item notifications, typically for progress display.
type Observer interface {
	ItemDone(report materialize.Report)
	ItemSkipped(sidecarPath string, err error)
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the run logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLockPath guards the run with an exclusive file lock at path.
func WithLockPath(path string) Option {
	return func(r *Runner) { r.lockPath = path }
}

// WithObserver registers an observer for item events.
func WithObserver(observer Observer) Option {
	return func(r *Runner) { r.observer = observer }
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(r *Runner) { r.runID = id }
}

// Runner executes restore runs against one cache root.
type Runner struct {
	cacheRoot    string
	resolver     Resolver
	materializer Materializer
	logger       *slog.Logger
	lockPath     string
	observer     Observer
	runID        string
}

// New constructs a Runner.
func New(cacheRoot string, resolver Resolver, materializer Materializer, opts ...Option) *Runner {
	r := &Runner{
		cacheRoot:    cacheRoot,
		resolver:     resolver,
		materializer: materializer,
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AcquireRunLock takes the exclusive lock shared by every command that writes
// recovered files or their ledger entries. A lock held elsewhere is a
// configuration error.
func AcquireRunLock(path string) (*flock.Flock, error) {
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "run", "acquire lock",
			fmt.Sprintf("another restore run holds %s", path), nil)
	}
	return lock, nil
}

// Run processes every sidecar under the cache root. The returned Summary is
// valid even when err is non-nil and covers the items processed so far.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	started := time.Now()
	runID := r.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	summary := Summary{RunID: runID}

	ctx = services.WithRunID(ctx, runID)
	base := logging.NewComponentLogger(r.logger, "pipeline")
	logger := logging.WithContext(ctx, base)

	if r.lockPath != "" {
		lock, err := AcquireRunLock(r.lockPath)
		if err != nil {
			return summary, err
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				logger.Warn("failed to release run lock", logging.Error(err))
			}
		}()
	}

	sidecars, err := sidecar.Locate(r.cacheRoot)
	if err != nil {
		return summary, err
	}

	logger.Info("restore run started", logging.String("cache_root", r.cacheRoot))

	for path, walkErr := range sidecars {
		if err := ctx.Err(); err != nil {
			return r.finish(logger, &summary, started, err)
		}
		if walkErr != nil {
			summary.TraversalErrors++
			r.skipped(ctx, base, path, walkErr)
			continue
		}
		summary.Sidecars++

		itemCtx := services.WithSidecar(services.WithStage(ctx, "reconcile"), path)
		item, err := r.resolver.Resolve(path)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTraversal):
				summary.TraversalErrors++
			case services.IsItemError(err):
				summary.Malformed++
			default:
				summary.Failed++
			}
			r.skipped(itemCtx, base, path, err)
			continue
		}

		itemCtx = services.WithStage(itemCtx, "materialize")
		report := r.materializer.Materialize(itemCtx, item)
		summary.add(report)
		r.logReport(logging.WithContext(itemCtx, base), report)
		if r.observer != nil {
			r.observer.ItemDone(report)
		}
		if report.Outcome == materialize.OutcomeCollision && report.Err != nil {
			return r.finish(logger, &summary, started, report.Err)
		}
	}

	if err := ctx.Err(); err != nil {
		return r.finish(logger, &summary, started, err)
	}
	return r.finish(logger, &summary, started, nil)
}

func (r *Runner) finish(logger *slog.Logger, summary *Summary, started time.Time, err error) (Summary, error) {
	summary.Duration = time.Since(started)
	attrs := []logging.Attr{
		logging.Int("materialized", summary.Materialized),
		logging.Int("already_materialized", summary.AlreadyMaterialized),
		logging.Int("missing_thumbnails", summary.MissingThumbnails),
		logging.Int("malformed", summary.Malformed),
		logging.Int("collisions", summary.Collisions),
		logging.Int("failed", summary.Failed),
		logging.Int("restore_warnings", summary.RestoreWarnings),
		logging.Int64("copied_bytes", summary.BytesCopied),
		logging.Duration("duration", summary.Duration),
	}
	if summary.Planned > 0 {
		attrs = append(attrs, logging.Int("planned", summary.Planned))
	}
	switch {
	case err == nil:
		logger.Info("restore run finished", logging.Args(attrs...)...)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		attrs = append(attrs, logging.String(logging.FieldImpact, "remaining sidecars not processed"))
		logging.WarnWithContext(logger, "restore run cancelled", "run_cancelled", attrs...)
		err = fmt.Errorf("restore run cancelled: %w", err)
	default:
		attrs = append(attrs, logging.Error(err), logging.String(logging.FieldErrorCode, services.ErrorCode(err)))
		logging.ErrorWithContext(logger, "restore run aborted", "run_aborted", attrs...)
	}
	return *summary, err
}

func (r *Runner) skipped(ctx context.Context, logger *slog.Logger, path string, err error) {
	ctx = services.WithSidecar(ctx, path)
	logging.WarnWithContext(logging.WithContext(ctx, logger), "sidecar skipped", "sidecar_skipped",
		logging.String(logging.FieldErrorCode, services.ErrorCode(err)),
		logging.String(logging.FieldErrorHint, skipHint(err)),
		logging.Error(err),
	)
	if r.observer != nil {
		r.observer.ItemSkipped(path, err)
	}
}

func (r *Runner) logReport(logger *slog.Logger, report materialize.Report) {
	item := report.Item
	attrs := []logging.Attr{
		logging.String(logging.FieldOutcome, string(report.Outcome)),
		logging.String(logging.FieldDestination, item.DestinationPath),
		logging.String(logging.FieldIdentifier, item.Identifier),
		logging.String(logging.FieldThumbnail, item.ThumbnailPath),
	}
	switch report.Outcome {
	case materialize.OutcomeMaterialized:
		attrs = append(attrs, logging.Int64("size_bytes", report.Bytes))
		if !report.Exif.TakenAt.IsZero() {
			attrs = append(attrs, logging.String("exif_taken", report.Exif.TakenAt.Format(time.DateTime)))
		}
		if camera := report.Exif.Camera(); camera != "" {
			attrs = append(attrs, logging.String("exif_model", camera))
		}
		if report.RestoreErr != nil {
			attrs = append(attrs, logging.String("restore", "failed"))
		}
		logger.Info("materialized", logging.Args(attrs...)...)
	case materialize.OutcomePlanned:
		logger.Info("would materialize", logging.Args(attrs...)...)
	case materialize.OutcomeAlreadyMaterialized:
		logger.Info("already materialized", logging.Args(attrs...)...)
	case materialize.OutcomeMissingThumbnail:
		attrs = append(attrs,
			logging.String(logging.FieldErrorHint, "the cache has no 2048px thumbnail for this photo"),
			logging.String(logging.FieldImpact, "photo not recovered"),
		)
		logging.WarnWithContext(logger, "thumbnail missing", "missing_thumbnail", attrs...)
	case materialize.OutcomeCollision:
		attrs = append(attrs,
			logging.String("claimed_by", report.ClaimedBy),
			logging.String(logging.FieldErrorHint, "two sidecars name the same original file"),
			logging.String(logging.FieldImpact, "existing destination kept"),
		)
		logging.WarnWithContext(logger, "destination collision", "destination_collision", attrs...)
	case materialize.OutcomeFailed:
		attrs = append(attrs, logging.Error(report.Err))
		logging.WarnWithContext(logger, "materialize failed", "materialize_failed", attrs...)
	}
}

func skipHint(err error) string {
	switch {
	case errors.Is(err, services.ErrTraversal):
		return "check permissions under cache/json"
	case errors.Is(err, services.ErrMalformedSidecarPath):
		return "sidecar is not three directories below cache/json"
	case errors.Is(err, services.ErrMalformedSourcePath):
		return "SourceFile has fewer than two path segments"
	case errors.Is(err, services.ErrMissingMetadataField):
		return "sidecar has no SourceFile in its first record"
	default:
		return "check logs for details"
	}
}
