// Package pipeline drives one restore run: locate sidecars, resolve each
// into an item, materialize it, and fold the per-item reports into a
// Summary.
//
// Items are processed sequentially in lexical sidecar order. Per-item
// problems (malformed sidecars, missing thumbnails, failed copies, failed
// restores, warn-policy collisions) are logged and counted; only a bad
// cache root, the run lock, a fail-policy collision, or cancellation end
// the run early with an error.
package pipeline
