package preflight

import (
	"context"
	"os"
	"time"

	"reframe/internal/config"
	"reframe/internal/deps"
)

const probeTimeout = 10 * time.Second

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes all preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, fromStatus(status))
	}

	// Encoder support is only meaningful once ffmpeg itself resolved.
	if len(results) > 0 && results[0].Passed {
		results = append(results, CheckEncoder(ctx, cfg.FFmpegBinary(), cfg.Video.Encoder))
	}

	tempDir := cfg.Paths.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	results = append(results, CheckDirectoryAccess("Temp directory", tempDir))

	return results
}

// Failed reports whether any non-optional result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}

func fromStatus(status deps.Status) Result {
	detail := status.Detail
	if status.Available {
		detail = status.Command
	}
	return Result{
		Name:     status.Name,
		Passed:   status.Available,
		Optional: status.Optional,
		Detail:   detail,
	}
}
