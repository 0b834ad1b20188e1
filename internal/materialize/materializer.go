package materialize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"prismrestore/internal/config"
	"prismrestore/internal/fileutil"
	"prismrestore/internal/ledger"
	"prismrestore/internal/logging"
	"prismrestore/internal/media/exifinfo"
	"prismrestore/internal/reconcile"
	"prismrestore/internal/services"
)

// Ledger is the subset of ledger.Store the materializer uses.
type Ledger interface {
	Lookup(ctx context.Context, destination string) (ledger.Entry, bool, error)
	Record(ctx context.Context, entry ledger.Entry) error
	SetRestoreResult(ctx context.Context, destination string, result ledger.RestoreResult) error
}

// ExifReader reads an EXIF summary from a restored file.
type ExifReader func(path string) (exifinfo.Info, error)

// Option configures a Materializer.
type Option func(*Materializer)

// WithLedger enables collision detection and restore bookkeeping.
func WithLedger(l Ledger) Option {
	return func(m *Materializer) { m.ledger = l }
}

// WithCollisionPolicy selects config.CollisionWarn or config.CollisionFail.
func WithCollisionPolicy(policy string) Option {
	return func(m *Materializer) { m.collisionPolicy = policy }
}

// WithVerifiedCopies toggles sha256 verification of every copy.
func WithVerifiedCopies(enabled bool) Option {
	return func(m *Materializer) { m.verify = enabled }
}

// WithExifReader enables reading an EXIF summary after a successful restore.
func WithExifReader(read ExifReader) Option {
	return func(m *Materializer) { m.readExif = read }
}

// WithDryRun reports what would be copied without touching the output tree.
func WithDryRun(enabled bool) Option {
	return func(m *Materializer) { m.dryRun = enabled }
}

// WithLogger sets the logger used for restore warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Materializer) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Materializer copies thumbnails into the output tree and restores metadata.
type Materializer struct {
	restorer        services.Restorer
	ledger          Ledger
	collisionPolicy string
	verify          bool
	readExif        ExifReader
	dryRun          bool
	logger          *slog.Logger
}

// New constructs a Materializer. A nil restorer copies files without
// restoring metadata.
func New(restorer services.Restorer, opts ...Option) *Materializer {
	m := &Materializer{
		restorer:        restorer,
		collisionPolicy: config.CollisionWarn,
		logger:          logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.NewComponentLogger(m.logger, "materialize")
	return m
}

// Materialize runs the per-item decision procedure.
func (m *Materializer) Materialize(ctx context.Context, item reconcile.Item) Report {
	report := Report{Item: item}

	thumbExists, err := fileutil.Exists(item.ThumbnailPath)
	if err != nil {
		return m.fail(report, "stat thumbnail", err)
	}
	if !thumbExists {
		report.Outcome = OutcomeMissingThumbnail
		return report
	}

	destExists, err := fileutil.Exists(item.DestinationPath)
	if err != nil {
		return m.fail(report, "stat destination", err)
	}
	if destExists {
		return m.existing(ctx, report)
	}

	if m.dryRun {
		report.Outcome = OutcomePlanned
		return report
	}

	if err := os.MkdirAll(filepath.Dir(item.DestinationPath), 0o755); err != nil {
		return m.fail(report, "create destination directory", err)
	}
	copyFile := fileutil.CopyFile
	if m.verify {
		copyFile = fileutil.CopyFileVerified
	}
	written, err := copyFile(item.ThumbnailPath, item.DestinationPath)
	if errors.Is(err, fileutil.ErrDestinationExists) {
		return m.existing(ctx, report)
	}
	if err != nil {
		return m.fail(report, "copy thumbnail", err)
	}
	report.Outcome = OutcomeMaterialized
	report.Bytes = written

	m.record(ctx, item, written)
	report.Exif, report.RestoreErr = m.Restore(ctx, item.SidecarPath, item.DestinationPath)
	return report
}

// Restore applies sidecar metadata to target and records the result in the
// ledger. A nil restorer is recorded as skipped.
func (m *Materializer) Restore(ctx context.Context, sidecarPath, target string) (exifinfo.Info, error) {
	if m.restorer == nil {
		m.setResult(ctx, target, ledger.RestoreResult{Status: ledger.RestoreSkipped})
		return exifinfo.Info{}, nil
	}

	if err := m.restorer.Restore(ctx, sidecarPath, target); err != nil {
		logging.WarnWithContext(m.logger, "metadata restoration failed; copy kept", "restore_failed",
			logging.String(logging.FieldDestination, target),
			logging.String(logging.FieldSidecar, sidecarPath),
			logging.String(logging.FieldErrorCode, services.ErrorCode(err)),
			logging.String(logging.FieldErrorHint, "run prismrestore retry-metadata after fixing exiftool"),
			logging.String(logging.FieldImpact, "file has thumbnail metadata only"),
			logging.Error(err),
		)
		m.setResult(ctx, target, ledger.RestoreResult{Status: ledger.RestoreFailed, Error: err.Error()})
		return exifinfo.Info{}, err
	}

	var info exifinfo.Info
	if m.readExif != nil {
		read, err := m.readExif(target)
		if err != nil {
			m.logger.Debug("exif summary unavailable",
				logging.String(logging.FieldDestination, target),
				logging.Error(err),
			)
		} else {
			info = read
		}
	}
	m.setResult(ctx, target, ledger.RestoreResult{
		Status:      ledger.RestoreDone,
		ExifTakenAt: info.TakenAt,
		ExifModel:   info.Camera(),
	})
	return info, nil
}

func (m *Materializer) existing(ctx context.Context, report Report) Report {
	report.Outcome = OutcomeAlreadyMaterialized
	if m.ledger == nil {
		return report
	}
	entry, ok, err := m.ledger.Lookup(ctx, report.Item.DestinationPath)
	if err != nil {
		logging.WarnWithContext(m.logger, "ledger lookup failed; collision check skipped", "ledger_error",
			logging.String(logging.FieldDestination, report.Item.DestinationPath),
			logging.String(logging.FieldImpact, "destination treated as already materialized"),
			logging.Error(err),
		)
		return report
	}
	if !ok || entry.Identifier == report.Item.Identifier {
		return report
	}

	report.Outcome = OutcomeCollision
	report.ClaimedBy = entry.Identifier
	if m.collisionPolicy == config.CollisionFail {
		report.Err = services.Wrap(services.ErrCollision, "materialize", "check destination",
			fmt.Sprintf("%s already holds identifier %s, sidecar has %s",
				report.Item.DestinationPath, entry.Identifier, report.Item.Identifier), nil)
	}
	return report
}

func (m *Materializer) fail(report Report, op string, err error) Report {
	report.Outcome = OutcomeFailed
	report.Err = fmt.Errorf("%s: %w", op, err)
	return report
}

func (m *Materializer) record(ctx context.Context, item reconcile.Item, size int64) {
	if m.ledger == nil {
		return
	}
	runID, _ := services.RunIDFromContext(ctx)
	err := m.ledger.Record(ctx, ledger.Entry{
		Destination: item.DestinationPath,
		Identifier:  item.Identifier,
		Sidecar:     item.SidecarPath,
		Thumbnail:   item.ThumbnailPath,
		SourceFile:  item.SourceFile,
		SizeBytes:   size,
		RunID:       runID,
	})
	if err != nil {
		logging.WarnWithContext(m.logger, "ledger record failed", "ledger_error",
			logging.String(logging.FieldDestination, item.DestinationPath),
			logging.String(logging.FieldImpact, "collision checks and retry-metadata will not see this file"),
			logging.Error(err),
		)
	}
}

func (m *Materializer) setResult(ctx context.Context, target string, result ledger.RestoreResult) {
	if m.ledger == nil {
		return
	}
	if err := m.ledger.SetRestoreResult(ctx, target, result); err != nil {
		logging.WarnWithContext(m.logger, "ledger update failed", "ledger_error",
			logging.String(logging.FieldDestination, target),
			logging.String(logging.FieldImpact, "restore status not recorded"),
			logging.Error(err),
		)
	}
}
