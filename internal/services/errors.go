package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration        = errors.New("configuration error")
	ErrTraversal            = errors.New("traversal error")
	ErrMalformedSidecarPath = errors.New("malformed sidecar path")
	ErrMalformedSourcePath  = errors.New("malformed source path")
	ErrMissingMetadataField = errors.New("missing metadata field")
	ErrExternalTool         = errors.New("external tool error")
	ErrCollision            = errors.New("destination collision")
	ErrTimeout              = errors.New("timeout")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsItemError reports whether err only concerns a single sidecar and can be
// skipped without aborting the run.
func IsItemError(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrTraversal),
		errors.Is(err, ErrMalformedSidecarPath),
		errors.Is(err, ErrMalformedSourcePath),
		errors.Is(err, ErrMissingMetadataField):
		return true
	default:
		return false
	}
}

// ErrorCode returns a short stable label for the marker carried by err.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrTraversal):
		return "traversal"
	case errors.Is(err, ErrMalformedSidecarPath):
		return "malformed_sidecar_path"
	case errors.Is(err, ErrMalformedSourcePath):
		return "malformed_source_path"
	case errors.Is(err, ErrMissingMetadataField):
		return "missing_metadata_field"
	case errors.Is(err, ErrCollision):
		return "collision"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrExternalTool):
		return "external_tool"
	default:
		return "unknown"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
