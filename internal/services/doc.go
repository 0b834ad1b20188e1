// Package services defines shared utilities consumed by the restore pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, sidecar paths, and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper that separate per-item
//     failures (skipped and reported) from run-level failures (fatal).
//   - The Restorer abstraction that hides how metadata is written back onto a
//     recovered file, so the exiftool subprocess can be swapped for the
//     stay-open backend without touching reconciliation.
package services
