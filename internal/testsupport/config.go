package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"prismrestore/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Progress output is off and the ledger lives under the temp state dir.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "state", "logs")
	cfgVal.Ledger.Path = filepath.Join(base, "state", "ledger.db")
	cfgVal.Progress.Enabled = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithLedgerDisabled turns the ledger off.
func WithLedgerDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ledger.Enabled = false
	}
}

// WithStubbedExiftool writes an exiftool stand-in that answers -ver with
// 12.76 and otherwise exits with exitCode, and points the config at it.
func WithStubbedExiftool(exitCode int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Restore.ExiftoolBinary = WriteExiftoolStub(b.t, filepath.Join(b.baseDir, "bin"), exitCode)
	}
}

// WriteExiftoolStub writes (or rewrites) dir/exiftool and returns its path.
func WriteExiftoolStub(t testing.TB, dir string, exitCode int) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(dir, "exiftool")
	script := fmt.Sprintf("#!/bin/sh\nif [ \"$1\" = \"-ver\" ]; then echo 12.76; exit 0; fi\nexit %d\n", exitCode)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write exiftool stub: %v", err)
	}
	return target
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
