// Package preflight provides readiness checks for the filesystem paths and
// external tools a restore run depends on.
//
// The "prismrestore check" command renders every result as a table. The
// restore command runs the same checks first and refuses to start when a
// required check fails, so a doomed run never copies half a library.
//
// Checks gated by configuration (the ledger) are skipped when disabled.
package preflight
