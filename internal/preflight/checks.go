package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"reframe/internal/config"
	"reframe/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binaries for the given config.
// FFmpeg is always first in the returned slice.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries([]deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for every transcoding operation",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Detects resolution and frame rate when not given",
			Optional:    true,
		},
	})
}

// CheckEncoder verifies the configured video encoder is compiled into ffmpeg.
func CheckEncoder(ctx context.Context, binary, encoder string) Result {
	name := "Encoder " + encoder

	checkCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	encoders, err := deps.Encoders(checkCtx, binary)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("probe failed (%v)", err)}
	}
	if _, ok := encoders[encoder]; !ok {
		return Result{Name: name, Detail: "not available in this ffmpeg build"}
	}
	version, err := deps.Version(checkCtx, binary)
	if err != nil || version == "" {
		return Result{Name: name, Passed: true, Detail: "available"}
	}
	return Result{Name: name, Passed: true, Detail: "available (" + version + ")"}
}
