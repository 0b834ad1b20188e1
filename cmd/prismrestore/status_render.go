package main

import (
	"fmt"
	"strings"

	"prismrestore/internal/config"
	"prismrestore/internal/preflight"
)

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
)

const (
	ansiReset = "\x1b[0m"
	ansiBlue  = "\x1b[34m"

	statusLabelWidth = 20
	statusIndent     = "  "
)

var statusStyles = map[statusKind]struct{ label, color string }{
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

// renderStatusLine formats "  Label:               [OK] detail".
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style, ok := statusStyles[kind]
	if !ok {
		style = statusStyles[statusError]
	}
	status := "[" + style.label + "]"
	if message != "" {
		status += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", status)
	if colorize {
		line = style.color + line + ansiReset
	}
	return line
}

func renderSectionHeader(title string, colorize bool) []string {
	line := "== " + strings.TrimSpace(title) + " =="
	rule := strings.Repeat("-", len(line))
	if colorize {
		return []string{ansiBlue + line + ansiReset, ansiBlue + rule + ansiReset}
	}
	return []string{line, rule}
}

// renderPreflight lists every check result followed by the backend and
// ledger settings that the restore run would use.
func renderPreflight(cfg *config.Config, results []preflight.Result, colorize bool) []string {
	lines := renderSectionHeader("Preflight", colorize)
	for _, r := range results {
		kind := statusOK
		switch {
		case !r.Passed && r.Advisory:
			kind = statusWarn
		case !r.Passed:
			kind = statusError
		}
		lines = append(lines, renderStatusLine(r.Name, kind, r.Detail, colorize))
	}
	lines = append(lines, renderStatusLine("Restore backend", statusOK, cfg.Restore.Backend, colorize))
	if cfg.Ledger.Enabled {
		lines = append(lines, renderStatusLine("Ledger", statusOK, cfg.Ledger.Path, colorize))
	} else {
		lines = append(lines, renderStatusLine("Ledger", statusWarn, "disabled (collisions across runs go undetected)", colorize))
	}
	return lines
}
