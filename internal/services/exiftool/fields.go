package exiftool

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	goexiftool "github.com/barasher/go-exiftool"
)

// readOnlyTags are computed by exiftool from the file itself and cannot be
// written.
var readOnlyTags = map[string]struct{}{
	"SourceFile":          {},
	"Directory":           {},
	"FileName":            {},
	"FileSize":            {},
	"FileModifyDate":      {},
	"FileAccessDate":      {},
	"FileInodeChangeDate": {},
	"FilePermissions":     {},
	"FileType":            {},
	"FileTypeExtension":   {},
	"MIMEType":            {},
	"ImageWidth":          {},
	"ImageHeight":         {},
	"ImageSize":           {},
	"Megapixels":          {},
	"ExifImageWidth":      {},
	"ExifImageHeight":     {},
	"EncodingProcess":     {},
	"BitsPerSample":       {},
	"ColorComponents":     {},
	"YCbCrSubSampling":    {},
	"ThumbnailImage":      {},
	"ThumbnailLength":     {},
	"ThumbnailOffset":     {},
}

// Writable reports whether a sidecar field should be written to the target.
// Group-qualified names such as "EXIF:Make" are judged by their tag part.
func Writable(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	group, tag, qualified := strings.Cut(key, ":")
	if !qualified {
		tag = key
		group = ""
	}
	switch {
	case strings.EqualFold(group, "File"), strings.EqualFold(group, "System"),
		strings.EqualFold(group, "Composite"), strings.EqualFold(group, "ExifTool"):
		return false
	case strings.HasPrefix(tag, "ExifTool"):
		return false
	}
	_, readOnly := readOnlyTags[tag]
	return !readOnly
}

// FileMetadata converts sidecar fields into a go-exiftool write request for
// targetPath. Nested objects are skipped; arrays become list values. The
// returned keys are sorted for stable logging.
func FileMetadata(targetPath string, fields map[string]any) (goexiftool.FileMetadata, []string) {
	fm := goexiftool.EmptyFileMetadata()
	fm.File = targetPath
	keys := make([]string, 0, len(fields))
	for key, value := range fields {
		if !Writable(key) {
			continue
		}
		switch v := value.(type) {
		case nil:
			continue
		case string:
			fm.SetString(key, v)
		case json.Number:
			fm.SetString(key, v.String())
		case bool:
			fm.SetString(key, fmt.Sprint(v))
		case float64:
			fm.SetFloat(key, v)
		case []any:
			values := make([]string, 0, len(v))
			for _, elem := range v {
				switch elem.(type) {
				case map[string]any, []any, nil:
					continue
				}
				values = append(values, fmt.Sprint(elem))
			}
			if len(values) == 0 {
				continue
			}
			fm.SetStrings(key, values)
		default:
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return fm, keys
}
