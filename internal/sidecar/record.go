package sidecar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"prismrestore/internal/services"
)

// SourceFileKey is the exiftool field recording where the original file lived.
const SourceFileKey = "SourceFile"

// Record is the first element of an exiftool JSON sidecar.
type Record struct {
	// SourceFile is the absolute path the cataloguing tool recorded for the
	// original, e.g. /photoprism/originals/2009-11-27/004.JPG.
	SourceFile string
	// Fields holds every tag in the record, SourceFile included. Numbers are
	// kept as json.Number so they round-trip without float formatting.
	Fields map[string]any
}

// ReadRecord reads and parses the sidecar at path. A sidecar that cannot be
// read is a traversal error; one that cannot be parsed is a missing field.
func ReadRecord(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, services.Wrap(services.ErrTraversal, "reconcile", "read sidecar", path, err)
	}
	record, err := ParseRecord(data)
	if err != nil {
		return Record{}, fmt.Errorf("sidecar %s: %w", path, err)
	}
	return record, nil
}

// ParseRecord decodes a sidecar document. The document must be a JSON array
// whose first element is an object with a non-empty SourceFile string.
func ParseRecord(data []byte) (Record, error) {
	// Only the first element matters; later elements may be anything.
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return Record{}, services.Wrap(services.ErrMissingMetadataField, "", "", "decode sidecar json", err)
	}
	if len(entries) == 0 {
		return Record{}, services.Wrap(services.ErrMissingMetadataField, "", "", "sidecar array is empty", nil)
	}

	decoder := json.NewDecoder(bytes.NewReader(entries[0]))
	decoder.UseNumber()
	var first map[string]any
	if err := decoder.Decode(&first); err != nil {
		return Record{}, services.Wrap(services.ErrMissingMetadataField, "", "", "first sidecar element is not an object", err)
	}
	if first == nil {
		return Record{}, services.Wrap(services.ErrMissingMetadataField, "", "", "first sidecar element is null", nil)
	}

	raw, ok := first[SourceFileKey]
	if !ok {
		return Record{}, services.Wrap(services.ErrMissingMetadataField, "", "", SourceFileKey+" is absent", nil)
	}
	source, ok := raw.(string)
	if !ok || strings.TrimSpace(source) == "" {
		return Record{}, services.Wrap(services.ErrMissingMetadataField, "", "", SourceFileKey+" is not a non-empty string", nil)
	}

	return Record{SourceFile: source, Fields: first}, nil
}
