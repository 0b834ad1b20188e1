package exiftool_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"prismrestore/internal/services/exiftool"
)

func TestWritable(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"DateTimeOriginal", true},
		{"EXIF:Make", true},
		{"GPSLatitude", true},
		{"SourceFile", false},
		{"FileName", false},
		{"File:FileSize", false},
		{"System:FileModifyDate", false},
		{"Composite:GPSPosition", false},
		{"ExifToolVersion", false},
		{"ImageWidth", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := exiftool.Writable(tc.key); got != tc.want {
			t.Fatalf("Writable(%q) = %v want %v", tc.key, got, tc.want)
		}
	}
}

func TestFileMetadataFiltersAndConverts(t *testing.T) {
	fields := map[string]any{
		"SourceFile":       "/photos/2019/a.jpg",
		"DateTimeOriginal": "2019:07:04 12:30:00",
		"ISO":              json.Number("200"),
		"Flash":            false,
		"Keywords":         []any{"beach", "summer", map[string]any{"x": 1}},
		"Nested":           map[string]any{"a": "b"},
		"Empty":            nil,
		"ExifToolVersion":  json.Number("12.4"),
	}
	fm, keys := exiftool.FileMetadata("/out/2019/a.jpg", fields)
	if fm.File != "/out/2019/a.jpg" {
		t.Fatalf("file mismatch: got %q", fm.File)
	}
	want := []string{"DateTimeOriginal", "Flash", "ISO", "Keywords"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("keys mismatch: got %v want %v", keys, want)
	}
	if got := fm.Fields["ISO"]; got != "200" {
		t.Fatalf("ISO mismatch: got %#v", got)
	}
	if got := fm.Fields["Keywords"]; !reflect.DeepEqual(got, []string{"beach", "summer"}) {
		t.Fatalf("Keywords mismatch: got %#v", got)
	}
	if _, ok := fm.Fields["SourceFile"]; ok {
		t.Fatal("SourceFile must not be written")
	}
}
