package reconcile

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"prismrestore/internal/services"
)

// Normalization selects how destination path segments are rewritten.
type Normalization int

const (
	// NormalizeNone keeps segments byte-for-byte as recorded in SourceFile.
	NormalizeNone Normalization = iota
	// NormalizeNFC composes segments to Unicode NFC, which merges names
	// recorded on macOS (NFD) with the same names recorded elsewhere.
	NormalizeNFC
)

// ParseNormalization maps a config value to a Normalization.
func ParseNormalization(value string) Normalization {
	if strings.EqualFold(strings.TrimSpace(value), "nfc") {
		return NormalizeNFC
	}
	return NormalizeNone
}

// SplitSource returns the bucket and original filename from a SourceFile
// value. Both "/" and "\" separate segments; empty segments are ignored.
func SplitSource(sourceFile string) (bucket, filename string, err error) {
	segments := strings.FieldsFunc(sourceFile, func(r rune) bool { return r == '/' || r == '\\' })
	if len(segments) < 2 {
		return "", "", services.Wrap(services.ErrMalformedSourcePath, "reconcile", "source", "fewer than two segments in "+sourceFile, nil)
	}
	bucket = segments[len(segments)-2]
	filename = segments[len(segments)-1]
	for _, segment := range []string{bucket, filename} {
		if segment == "." || segment == ".." {
			return "", "", services.Wrap(services.ErrMalformedSourcePath, "reconcile", "source", "relative segment in "+sourceFile, nil)
		}
	}
	return bucket, filename, nil
}

// DestinationFromSource composes {outputRoot}/{bucket}/{filename} from sourceFile.
func DestinationFromSource(outputRoot, sourceFile string, mode Normalization) (string, error) {
	bucket, filename, err := SplitSource(sourceFile)
	if err != nil {
		return "", err
	}
	if mode == NormalizeNFC {
		bucket = norm.NFC.String(bucket)
		filename = norm.NFC.String(filename)
	}
	return filepath.Join(outputRoot, bucket, filename), nil
}
