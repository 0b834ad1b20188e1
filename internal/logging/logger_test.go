package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"prismrestore/internal/config"
	"prismrestore/internal/logging"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.File = true

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("restore started")

	content, err := os.ReadFile(cfg.LogFilePath())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "restore started") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestNewFromConfigWriterTeesToLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.File = true
	cfg.Logging.Format = "json"

	var buf bytes.Buffer
	logger, err := logging.NewFromConfigWriter(&cfg, &buf)
	if err != nil {
		t.Fatalf("NewFromConfigWriter returned error: %v", err)
	}
	logger.Info("thumbnail missing")

	if !strings.Contains(buf.String(), "thumbnail missing") {
		t.Fatalf("expected message in writer, got %q", buf.String())
	}
	content, err := os.ReadFile(cfg.LogFilePath())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "thumbnail missing") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller")
	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestConsoleLoggerFormatsHeaderAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger = logging.NewComponentLogger(logger, "materializer")
	logger.Info("copied",
		logging.String(logging.FieldOutcome, "materialized"),
		logging.String(logging.FieldDestination, "/out/2009-11-27/004.JPG"),
		logging.String(logging.FieldSidecar, "/cache/json/a/b/c/x.json"),
		logging.Int64("size_bytes", 2048),
	)
	out := buf.String()
	for _, fragment := range []string{"INFO [materializer] (materialized) – copied", "Destination: /out/2009-11-27/004.JPG", "Size: 2.0 kB"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in %q", fragment, out)
		}
	}
	if strings.Contains(out, "/cache/json") {
		t.Fatalf("sidecar path should be hidden at info level: %q", out)
	}
}

func TestConsoleLoggerLiftsIdentifierIntoHeader(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.With(logging.String(logging.FieldComponent, "pipeline")).
		With(logging.String(logging.FieldIdentifier, "abcdef123")).
		Warn("thumbnail missing", logging.String(logging.FieldOutcome, "missing_thumbnail"))

	out := buf.String()
	if !strings.Contains(out, "WARN [pipeline] abcdef123 (missing_thumbnail) – thumbnail missing") {
		t.Fatalf("unexpected header: %q", out)
	}
	if strings.Contains(out, "Identifier:") {
		t.Fatalf("identifier should not repeat as a detail line: %q", out)
	}
}

func TestJSONLoggerEmitsStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("restore failed", logging.Error(errors.New("exit status 1")), logging.String(logging.FieldSidecar, "s.json"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, buf.String())
	}
	if record["level"] != "warn" {
		t.Fatalf("unexpected level %v", record["level"])
	}
	if record["sidecar"] != "s.json" {
		t.Fatalf("unexpected sidecar %v", record["sidecar"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key in %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "thumbnail missing", "missing_thumbnail")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if record[logging.FieldEventType] != "missing_thumbnail" {
		t.Fatalf("unexpected event type %v", record[logging.FieldEventType])
	}
	if record[logging.FieldErrorHint] == nil || record[logging.FieldImpact] == nil {
		t.Fatalf("expected hint and impact defaults, got %v", record)
	}
}
