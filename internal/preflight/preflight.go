package preflight

import (
	"context"

	"prismrestore/internal/config"
)

// Result reports the outcome of a single preflight check. A failed Advisory
// result is reported but does not block a run.
type Result struct {
	Name     string
	Passed   bool
	Advisory bool
	Detail   string
}

// Failed returns the blocking results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Advisory {
			failed = append(failed, r)
		}
	}
	return failed
}

// Warnings returns the advisory results that did not pass.
func Warnings(results []Result) []Result {
	var warnings []Result
	for _, r := range results {
		if !r.Passed && r.Advisory {
			warnings = append(warnings, r)
		}
	}
	return warnings
}

// RunAll executes all applicable preflight checks for a run restoring from
// cacheRoot into outputRoot.
func RunAll(ctx context.Context, cfg *config.Config, outputRoot, cacheRoot string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckCacheLayout(cacheRoot)...)
	results = append(results, CheckOutputRoot("Output root", outputRoot))
	results = append(results, CheckExiftool(ctx, cfg.ExiftoolBinary()))

	if cfg.Ledger.Enabled {
		results = append(results, CheckOutputRoot("Ledger directory", ledgerDir(cfg)))
	}

	return results
}
