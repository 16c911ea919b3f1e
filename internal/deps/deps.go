// Package deps reports whether the external tools squeeze drives are
// installed and which versions they are.
package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"squeeze/internal/command"
)

// Requirement defines an external dependency squeeze relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Version     string
	Detail      string
}

// MediaTools returns the requirements for the given ffmpeg and ffprobe commands.
func MediaTools(ffmpeg, ffprobe string) []Requirement {
	return []Requirement{
		{Name: "FFprobe", Command: ffprobe, Description: "Reads the source duration"},
		{Name: "FFmpeg", Command: ffmpeg, Description: "Encodes at the computed bitrates"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = resolved
		results = append(results, status)
	}
	return results
}

// DetectVersions fills Version for every available status by running
// `<command> -version` and keeping the first line of output. Failures are
// recorded in Detail rather than returned.
func DetectVersions(ctx context.Context, runner command.Executor, statuses []Status) []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	for i := range out {
		if !out[i].Available {
			continue
		}
		result, err := runner.Run(ctx, command.Spec{Binary: out[i].Command, Args: []string{"-version"}})
		if err != nil {
			out[i].Detail = fmt.Sprintf("version query failed: %v", err)
			continue
		}
		out[i].Version = firstLine(string(result.Stdout))
	}
	return out
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}

func firstLine(output string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(output), "\n")
	return strings.TrimSpace(line)
}
