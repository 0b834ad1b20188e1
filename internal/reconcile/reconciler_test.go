package reconcile_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"prismrestore/internal/reconcile"
	"prismrestore/internal/services"
	"prismrestore/internal/sidecar"
)

func writeSidecar(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveDerivesBothPaths(t *testing.T) {
	cacheRoot := t.TempDir()
	outputRoot := t.TempDir()
	sidecarPath := filepath.Join(sidecar.JSONDir(cacheRoot), "A", "B", "C", "abcdef123_exiftool.json")
	writeSidecar(t, sidecarPath, `[{"SourceFile": "/x/originals/2009-11-27/004.JPG"}]`)

	item, err := reconcile.New(cacheRoot, outputRoot).Resolve(sidecarPath)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	wantThumb := filepath.Join(cacheRoot, "cache", "thumbnails", "A", "B", "C", "abcdef123_2048x2048_fit.jpg")
	if item.ThumbnailPath != wantThumb {
		t.Fatalf("unexpected thumbnail: got %q want %q", item.ThumbnailPath, wantThumb)
	}
	wantDest := filepath.Join(outputRoot, "2009-11-27", "004.JPG")
	if item.DestinationPath != wantDest {
		t.Fatalf("unexpected destination: got %q want %q", item.DestinationPath, wantDest)
	}
	if item.Identifier != "abcdef123" || item.SidecarPath != sidecarPath {
		t.Fatalf("unexpected item %+v", item)
	}
	if _, err := os.Stat(item.ThumbnailPath); !os.IsNotExist(err) {
		t.Fatalf("Resolve must not create the thumbnail: %v", err)
	}
}

func TestResolveThumbnailIndependentOfContent(t *testing.T) {
	path := filepath.Join("/cache", "cache", "json", "A", "B", "C", "id_exiftool.json")
	contents := []sidecar.Record{
		{SourceFile: "/x/2001/a.jpg"},
		{SourceFile: "/y/z/2020-01-01/other.heic", Fields: map[string]any{"Make": "Apple"}},
	}
	var thumbs []string
	for _, record := range contents {
		r := reconcile.New("/cache", "/out", reconcile.WithRecordReader(func(string) (sidecar.Record, error) {
			return record, nil
		}))
		item, err := r.Resolve(path)
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		thumbs = append(thumbs, item.ThumbnailPath)
	}
	if thumbs[0] != thumbs[1] {
		t.Fatalf("thumbnail path changed with sidecar content: %q vs %q", thumbs[0], thumbs[1])
	}
}

func TestResolveReadsSidecarOnce(t *testing.T) {
	reads := 0
	r := reconcile.New("/cache", "/out", reconcile.WithRecordReader(func(string) (sidecar.Record, error) {
		reads++
		return sidecar.Record{SourceFile: "/x/b/f.jpg"}, nil
	}))
	if _, err := r.Resolve(filepath.Join("/cache", "A", "B", "C", "id.json")); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if reads != 1 {
		t.Fatalf("expected one sidecar read, got %d", reads)
	}
}

func TestResolveErrors(t *testing.T) {
	cacheRoot := t.TempDir()
	jsonDir := sidecar.JSONDir(cacheRoot)

	missingField := filepath.Join(jsonDir, "A", "B", "C", "nosource_exiftool.json")
	writeSidecar(t, missingField, `[{"Make": "Canon"}]`)
	badSource := filepath.Join(jsonDir, "A", "B", "C", "badsource_exiftool.json")
	writeSidecar(t, badSource, `[{"SourceFile": "004.JPG"}]`)

	r := reconcile.New(cacheRoot, t.TempDir())
	if _, err := r.Resolve(missingField); !errors.Is(err, services.ErrMissingMetadataField) {
		t.Fatalf("expected ErrMissingMetadataField, got %v", err)
	}
	if _, err := r.Resolve(badSource); !errors.Is(err, services.ErrMalformedSourcePath) {
		t.Fatalf("expected ErrMalformedSourcePath, got %v", err)
	}

	reads := 0
	shallow := reconcile.New(cacheRoot, "/out", reconcile.WithRecordReader(func(string) (sidecar.Record, error) {
		reads++
		return sidecar.Record{SourceFile: "/x/b/f.jpg"}, nil
	}))
	if _, err := shallow.Resolve(filepath.Join("C", "id.json")); !errors.Is(err, services.ErrMalformedSidecarPath) {
		t.Fatalf("expected ErrMalformedSidecarPath, got %v", err)
	}
	if reads != 0 {
		t.Fatalf("malformed location should fail before reading content, got %d reads", reads)
	}
}
