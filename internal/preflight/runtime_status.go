package preflight

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"prismrestore/internal/deps"
)

// CheckExiftool verifies that the exiftool binary resolves and reports a version.
func CheckExiftool(ctx context.Context, binary string) Result {
	const name = "ExifTool"

	status := deps.CheckBinaries([]deps.Requirement{deps.ExiftoolRequirement(binary)})[0]
	if !status.Available {
		return Result{Name: name, Detail: status.Detail}
	}

	version := ExiftoolVersion(ctx, status.Path)
	if version == "" {
		return Result{Name: name, Passed: true, Detail: status.Path}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (version %s)", status.Path, version)}
}

// ExiftoolVersion runs `exiftool -ver` and returns the reported version, or
// an empty string when the binary does not answer within two seconds.
func ExiftoolVersion(ctx context.Context, binary string) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, "-ver") //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	fields := strings.Fields(string(output))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
