package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external binary prismrestore shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is a Requirement after lookup. Path holds the resolved executable
// when Available is true; Detail explains why it is not.
type Status struct {
	Requirement
	Available bool
	Path      string
	Detail    string
}

// CheckBinaries resolves every requirement against PATH, or as given when the
// command contains a separator.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		results = append(results, lookup(req))
	}
	return results
}

func lookup(req Requirement) Status {
	status := Status{Requirement: req}
	if req.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := exec.LookPath(req.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		return status
	}
	status.Available = true
	status.Path = path
	return status
}

// ExiftoolRequirement describes the exiftool binary used to restore metadata.
func ExiftoolRequirement(binary string) Requirement {
	return Requirement{
		Name:        "ExifTool",
		Command:     binary,
		Description: "Required for metadata restoration",
	}
}
