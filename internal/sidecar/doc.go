// Package sidecar discovers and parses the per-item metadata sidecars that a
// PhotoPrism cache keeps under {cache_root}/cache/json.
//
// Locate returns a lazy sequence of sidecar paths in lexical order; ranging
// over it again walks the tree again. ReadRecord decodes the exiftool JSON
// document (an array whose first element describes the original file) and
// surfaces the SourceFile field the reconciler needs.
package sidecar
