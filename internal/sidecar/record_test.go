package sidecar_test

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"prismrestore/internal/services"
	"prismrestore/internal/sidecar"
)

func TestParseRecord(t *testing.T) {
	data := []byte(`[{"SourceFile": "/photoprism/originals/2009-11-27/004.JPG", "Make": "Canon", "ISO": 200}]`)
	record, err := sidecar.ParseRecord(data)
	if err != nil {
		t.Fatalf("ParseRecord returned error: %v", err)
	}
	if record.SourceFile != "/photoprism/originals/2009-11-27/004.JPG" {
		t.Fatalf("unexpected source file %q", record.SourceFile)
	}
	if record.Fields["Make"] != "Canon" {
		t.Fatalf("unexpected Make %v", record.Fields["Make"])
	}
	if iso, ok := record.Fields["ISO"].(json.Number); !ok || iso.String() != "200" {
		t.Fatalf("expected ISO as json.Number 200, got %#v", record.Fields["ISO"])
	}
}

func TestParseRecordIgnoresTrailingElements(t *testing.T) {
	data := []byte(`[{"SourceFile": "/p/originals/2009/a.jpg"}, "x", 3, null]`)
	record, err := sidecar.ParseRecord(data)
	if err != nil {
		t.Fatalf("ParseRecord returned error: %v", err)
	}
	if record.SourceFile != "/p/originals/2009/a.jpg" {
		t.Fatalf("unexpected source file %q", record.SourceFile)
	}
}

func TestParseRecordRejectsMissingSourceFile(t *testing.T) {
	cases := map[string]string{
		"absent":      `[{"Make": "Canon"}]`,
		"empty array": `[]`,
		"not array":   `{"SourceFile": "/a/b.jpg"}`,
		"wrong type":  `[{"SourceFile": 12}]`,
		"blank":       `[{"SourceFile": "  "}]`,
		"invalid":     `[{`,
		"null entry":  `[null]`,
		"scalar":      `["x", {"SourceFile": "/a/b.jpg"}]`,
	}
	for name, body := range cases {
		_, err := sidecar.ParseRecord([]byte(body))
		if !errors.Is(err, services.ErrMissingMetadataField) {
			t.Fatalf("%s: expected ErrMissingMetadataField, got %v", name, err)
		}
	}
}

func TestReadRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x_exiftool.json")
	writeFile(t, path, `[{"SourceFile": "/x/originals/2020/a.jpg"}]`)
	record, err := sidecar.ReadRecord(path)
	if err != nil {
		t.Fatalf("ReadRecord returned error: %v", err)
	}
	if record.SourceFile != "/x/originals/2020/a.jpg" {
		t.Fatalf("unexpected source file %q", record.SourceFile)
	}

	if _, err := sidecar.ReadRecord(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, services.ErrTraversal) {
		t.Fatalf("expected ErrTraversal for unreadable sidecar, got %v", err)
	}
}
