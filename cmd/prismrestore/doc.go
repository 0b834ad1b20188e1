// Package main hosts the prismrestore CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds the logger,
// and hands the output and cache roots to the internal pipeline. Commands
// stay thin: restore wires reconcile, materialize and the ledger into a
// pipeline.Runner; check renders preflight results; retry-metadata and
// history read the ledger.
package main
