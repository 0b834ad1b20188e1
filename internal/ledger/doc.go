// Package ledger persists a record of every file prismrestore has
// materialized, backed by SQLite.
//
// Each entry is keyed by destination path and remembers which content
// identifier and sidecar produced it, the run that copied it, and whether
// metadata restoration succeeded. The materializer consults it to tell an
// idempotent re-run apart from two distinct sidecars claiming the same
// destination; the CLI uses it to retry failed restorations and to render
// history.
package ledger
