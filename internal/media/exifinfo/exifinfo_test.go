package exifinfo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.jpg"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.Is(err, ErrNoExif) {
		t.Fatalf("missing file should not report ErrNoExif: %v", err)
	}
}

func TestReadWithoutExif(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.jpg")
	// SOI followed by EOI: a JPEG with no APP1 segment.
	if err := os.WriteFile(path, []byte{0xFF, 0xD8, 0xFF, 0xD9}, 0o644); err != nil {
		t.Fatalf("write jpeg: %v", err)
	}
	_, err := Read(path)
	if !errors.Is(err, ErrNoExif) {
		t.Fatalf("expected ErrNoExif, got %v", err)
	}
}

func TestCamera(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Make: "Google", Model: "Pixel 3"}, "Google Pixel 3"},
		{Info{Make: "Canon", Model: "Canon EOS 80D"}, "Canon EOS 80D"},
		{Info{Make: "Nikon"}, "Nikon"},
		{Info{Model: "X100V"}, "X100V"},
		{Info{}, ""},
	}
	for _, tc := range tests {
		if got := tc.info.Camera(); got != tc.want {
			t.Fatalf("Camera(%#v) = %q want %q", tc.info, got, tc.want)
		}
	}
}
