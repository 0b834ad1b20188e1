package reconcile

import (
	"prismrestore/internal/sidecar"
)

// Item is one unit of work for the materializer.
type Item struct {
	SidecarPath     string
	ThumbnailPath   string
	DestinationPath string
	Identifier      string
	SourceFile      string
}

// Reconciler resolves sidecars against a cache root and an output root.
type Reconciler struct {
	cacheRoot     string
	outputRoot    string
	normalization Normalization
	readRecord    func(string) (sidecar.Record, error)
}

// Option customizes a Reconciler.
type Option func(*Reconciler)

// WithNormalization sets how destination segments are normalized.
func WithNormalization(mode Normalization) Option {
	return func(r *Reconciler) { r.normalization = mode }
}

// WithRecordReader replaces the sidecar reader; tests use it to count reads.
func WithRecordReader(read func(string) (sidecar.Record, error)) Option {
	return func(r *Reconciler) {
		if read != nil {
			r.readRecord = read
		}
	}
}

// New constructs a Reconciler.
func New(cacheRoot, outputRoot string, opts ...Option) *Reconciler {
	r := &Reconciler{
		cacheRoot:  cacheRoot,
		outputRoot: outputRoot,
		readRecord: sidecar.ReadRecord,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve derives the thumbnail path from the sidecar location and the
// destination path from its content. Both derivations must succeed. The
// sidecar is read exactly once and nothing is checked for existence.
func (r *Reconciler) Resolve(sidecarPath string) (Item, error) {
	loc, err := ParseLocation(sidecarPath)
	if err != nil {
		return Item{}, err
	}
	record, err := r.readRecord(sidecarPath)
	if err != nil {
		return Item{}, err
	}
	destination, err := DestinationFromSource(r.outputRoot, record.SourceFile, r.normalization)
	if err != nil {
		return Item{}, err
	}
	return Item{
		SidecarPath:     sidecarPath,
		ThumbnailPath:   loc.ThumbnailPath(r.cacheRoot),
		DestinationPath: destination,
		Identifier:      loc.Identifier,
		SourceFile:      record.SourceFile,
	}, nil
}
