package services

import "context"

// Restorer copies metadata recorded in a sidecar onto a recovered file,
// overwriting the target in place.
type Restorer interface {
	Restore(ctx context.Context, sidecarPath, targetPath string) error
}

// RestorerFunc adapts a plain function to the Restorer interface.
type RestorerFunc func(ctx context.Context, sidecarPath, targetPath string) error

// Restore calls f.
func (f RestorerFunc) Restore(ctx context.Context, sidecarPath, targetPath string) error {
	return f(ctx, sidecarPath, targetPath)
}
