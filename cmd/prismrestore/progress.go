package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"prismrestore/internal/config"
	"prismrestore/internal/materialize"
)

// progressReporter shows a spinner with running counts on stderr. It stays
// silent unless stderr is a terminal and per-item log lines are not already
// scrolling past on the same terminal.
type progressReporter struct {
	bar          *progressbar.ProgressBar
	materialized int
	skipped      int
}

func newProgressReporter(errOut, logOut io.Writer, cfg *config.Config) *progressReporter {
	if cfg == nil || !cfg.Progress.Enabled || !isTerminal(errOut) {
		return &progressReporter{}
	}
	if isTerminal(logOut) && (cfg.Logging.Level == "debug" || cfg.Logging.Level == "info") {
		return &progressReporter{}
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(errOut),
		progressbar.OptionSetDescription("restoring"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &progressReporter{bar: bar}
}

func (p *progressReporter) ItemDone(report materialize.Report) {
	if report.Copied() {
		p.materialized++
	} else {
		p.skipped++
	}
	p.advance()
}

func (p *progressReporter) ItemSkipped(string, error) {
	p.skipped++
	p.advance()
}

func (p *progressReporter) advance() {
	if p.bar == nil {
		return
	}
	p.bar.Describe(fmt.Sprintf("restoring (%d copied, %d skipped)", p.materialized, p.skipped))
	_ = p.bar.Add(1)
}

func (p *progressReporter) Finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
