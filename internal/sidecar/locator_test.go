package sidecar_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"prismrestore/internal/services"
	"prismrestore/internal/sidecar"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func collect(t *testing.T, root string) ([]string, []error) {
	t.Helper()
	seq, err := sidecar.Locate(root)
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	var paths []string
	var errs []error
	for path, err := range seq {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		paths = append(paths, path)
	}
	return paths, errs
}

func TestLocateFindsSidecarsAtAnyDepth(t *testing.T) {
	root := t.TempDir()
	jsonDir := sidecar.JSONDir(root)
	writeFile(t, filepath.Join(jsonDir, "a", "b", "c", "abc_exiftool.json"), "[]")
	writeFile(t, filepath.Join(jsonDir, "a", "b", "c", "notes.txt"), "")
	writeFile(t, filepath.Join(jsonDir, "top.json"), "[]")
	writeFile(t, filepath.Join(jsonDir, "d", "e", "f", "g", "h", "deep_exiftool.json"), "[]")

	paths, errs := collect(t, root)
	if len(errs) != 0 {
		t.Fatalf("unexpected traversal errors: %v", errs)
	}
	want := []string{
		filepath.Join(jsonDir, "a", "b", "c", "abc_exiftool.json"),
		filepath.Join(jsonDir, "d", "e", "f", "g", "h", "deep_exiftool.json"),
		filepath.Join(jsonDir, "top.json"),
	}
	if len(paths) != len(want) {
		t.Fatalf("unexpected paths: got %v want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("path %d: got %q want %q", i, paths[i], want[i])
		}
	}
}

func TestLocateIsRestartable(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(sidecar.JSONDir(root), "a", "b", "c", "x_exiftool.json"), "[]")

	seq, err := sidecar.Locate(root)
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	count := func() int {
		n := 0
		for _, err := range seq {
			if err == nil {
				n++
			}
		}
		return n
	}
	if first, second := count(), count(); first != 1 || second != 1 {
		t.Fatalf("expected one sidecar on each pass, got %d and %d", first, second)
	}
}

func TestLocateStopsWhenConsumerBreaks(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.json", "b.json", "c.json"} {
		writeFile(t, filepath.Join(sidecar.JSONDir(root), name), "[]")
	}
	seq, err := sidecar.Locate(root)
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	seen := 0
	for range seq {
		seen++
		break
	}
	if seen != 1 {
		t.Fatalf("expected to stop after one item, saw %d", seen)
	}
}

func TestLocateRejectsMissingRoots(t *testing.T) {
	if _, err := sidecar.Locate(filepath.Join(t.TempDir(), "absent")); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing root, got %v", err)
	}

	root := t.TempDir()
	if _, err := sidecar.Locate(root); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing cache/json, got %v", err)
	}

	file := filepath.Join(t.TempDir(), "file")
	writeFile(t, file, "")
	if _, err := sidecar.Locate(file); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for file root, got %v", err)
	}
}

func TestLocateReportsUnreadableDirectoryAndContinues(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	root := t.TempDir()
	jsonDir := sidecar.JSONDir(root)
	locked := filepath.Join(jsonDir, "locked")
	writeFile(t, filepath.Join(locked, "hidden.json"), "[]")
	writeFile(t, filepath.Join(jsonDir, "open", "visible.json"), "[]")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	paths, errs := collect(t, root)
	if len(errs) != 1 || !errors.Is(errs[0], services.ErrTraversal) {
		t.Fatalf("expected one traversal error, got %v", errs)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "visible.json" {
		t.Fatalf("expected traversal to continue past locked dir, got %v", paths)
	}
}
