package services

import "context"

type contextKey string

const (
	runIDKey   contextKey = "run_id"
	sidecarKey contextKey = "sidecar"
	stageKey   contextKey = "stage"
)

// WithRunID annotates context with the restore run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the restore run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSidecar annotates context with the sidecar currently being processed.
func WithSidecar(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, sidecarKey, path)
}

// SidecarFromContext returns the sidecar path if present.
func SidecarFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sidecarKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
