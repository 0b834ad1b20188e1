package logging

import "strings"

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one restore run across all of its log lines.
	FieldRunID = "run_id"
	// FieldStage is the pipeline stage (locate, reconcile, materialize, restore).
	FieldStage = "stage"
	// FieldSidecar is the metadata sidecar path being processed.
	FieldSidecar = "sidecar"
	// FieldThumbnail is the cached asset path derived from the sidecar location.
	FieldThumbnail = "thumbnail"
	// FieldDestination is the recovered file path derived from the sidecar content.
	FieldDestination = "destination"
	// FieldIdentifier is the content identifier shared by sidecar and thumbnail.
	FieldIdentifier = "identifier"
	// FieldOutcome is the per-item materialization outcome.
	FieldOutcome = "outcome"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to check next.
	FieldErrorHint = "error_hint"
	// FieldErrorCode is the stable error classification label.
	FieldErrorCode = "error_code"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)

var debugOnlyKeys = map[string]struct{}{
	FieldRunID:     {},
	FieldSidecar:   {},
	FieldStage:     {},
	FieldThumbnail: {},
	"backend":      {},
	"command":      {},
	"exif_model":   {},
}

// isDebugOnlyKey hides noisy path fields from info-level console output.
// JSON output always carries them.
func isDebugOnlyKey(key string) bool {
	_, ok := debugOnlyKeys[key]
	return ok
}

var labelOverrides = map[string]string{
	FieldRunID:     "Run",
	FieldErrorHint: "Hint",
	FieldErrorCode: "Code",
	"exif_taken":   "EXIF capture time",
	"size_bytes":   "Size",
}

func displayLabel(key string) string {
	if label, ok := labelOverrides[key]; ok {
		return label
	}
	key = strings.TrimSuffix(key, "_bytes")
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '.' })
	for i, part := range parts {
		if i == 0 && part != "" {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	if len(parts) == 0 {
		return key
	}
	return strings.Join(parts, " ")
}
