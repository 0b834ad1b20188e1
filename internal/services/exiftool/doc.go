// Package exiftool restores sidecar metadata onto recovered files.
//
// Two backends implement services.Restorer. CLI spawns
// `exiftool -tagsfromfile <sidecar> <target> -overwrite_original` once per
// file. StayOpen keeps a single exiftool process alive through
// github.com/barasher/go-exiftool and writes the sidecar's writable fields
// directly. Open selects a backend from configuration.
package exiftool
