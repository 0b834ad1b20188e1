// Package materialize turns a reconciled item into a recovered file.
//
// Materialize runs a fixed decision procedure per item: skip when the cached
// thumbnail is missing, skip when the destination already exists (checking
// the ledger for a collision with a different identifier), otherwise copy
// the thumbnail into place and restore its metadata from the sidecar. A
// restoration failure is soft: the copy is kept and the failure is reported
// on the Report and in the ledger so retry-metadata can find it later.
//
// The Materializer holds collaborators only. It keeps no state between
// items; collision detection across items goes through the ledger.
package materialize
