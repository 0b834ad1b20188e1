// Package logging assembles structured slog loggers and formatting helpers used
// across prismrestore.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with the run ID, stage, and sidecar path. The console handler prints a
// one-line header per record followed by indented fields; path fields that are
// only useful when debugging are hidden at info level.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
