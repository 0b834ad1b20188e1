// Package reconcile bridges the two naming schemes of a PhotoPrism cache.
//
// A sidecar at {cache}/cache/json/A/B/C/{id}_exiftool.json names its cached
// asset purely through convention: the same A/B/C shard directories under
// cache/thumbnails and the file {id}_2048x2048_fit.jpg. Its content names the
// original through the SourceFile tag, whose last two segments are the bucket
// directory and the original filename.
//
// ParseLocation and DestinationFromSource are pure and touch no filesystem.
// Reconciler.Resolve combines them with a single read of the sidecar.
package reconcile
