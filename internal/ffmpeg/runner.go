package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"reframe/internal/logging"
	"reframe/internal/metrics"
)

const defaultBinary = "ffmpeg"

// Runner launches ffmpeg with the fixed verbosity prefix.
type Runner struct {
	binary string
	logger *slog.Logger
}

// NewRunner constructs a runner for binary. An empty binary selects "ffmpeg" from PATH.
func NewRunner(binary string, logger *slog.Logger) *Runner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = defaultBinary
	}
	return &Runner{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "ffmpeg"),
	}
}

// Binary returns the executable the runner invokes.
func (r *Runner) Binary() string {
	return r.binary
}

func (r *Runner) command(ctx context.Context, args []string) *exec.Cmd {
	full := make([]string, 0, len(VerbosityPrefix)+len(args))
	full = append(full, VerbosityPrefix...)
	full = append(full, args...)
	return exec.CommandContext(ctx, r.binary, full...) //nolint:gosec
}

// Run executes ffmpeg and waits for it to exit. It reports true only for a
// zero exit status. On failure ffmpeg's stderr is logged at debug level;
// nothing is logged on success.
func (r *Runner) Run(ctx context.Context, operation string, args []string) bool {
	cmd := r.command(ctx, args)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	metrics.FFmpegProcessesInFlight.Inc()
	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)
	metrics.FFmpegProcessesInFlight.Dec()

	if err == nil {
		metrics.ObserveInvocation(operation, metrics.StatusSuccess, elapsed)
		return true
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		metrics.ObserveInvocation(operation, metrics.StatusFailure, elapsed)
		r.logger.Debug(failureMessage(stderr.Bytes(), exitErr),
			logging.String(logging.FieldOperation, operation),
			logging.Int("exit_code", exitErr.ExitCode()),
			logging.CommandArgs(args),
		)
		return false
	}

	metrics.ObserveInvocation(operation, metrics.StatusUnavailable, elapsed)
	r.logger.Warn("ffmpeg could not be started",
		logging.String(logging.FieldOperation, operation),
		logging.String("binary", r.binary),
		logging.Error(err),
		logging.String(logging.FieldEventType, "ffmpeg_unavailable"),
	)
	return false
}

// Open starts ffmpeg with stdin, stdout and stderr connected to pipes. The
// caller owns the returned process and must Close it on every path.
func (r *Runner) Open(ctx context.Context, operation string, args []string) (*Process, error) {
	cmd := r.command(ctx, args)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		metrics.ObserveInvocation(operation, metrics.StatusUnavailable, 0)
		return nil, Wrap(ErrToolUnavailable, operation, "start "+r.binary, err)
	}
	metrics.FFmpegProcessesInFlight.Inc()

	return &Process{
		cmd:       cmd,
		operation: operation,
		started:   time.Now(),
		Stdin:     stdin,
		Stdout:    stdout,
		Stderr:    stderr,
	}, nil
}

func failureMessage(stderr []byte, exitErr *exec.ExitError) string {
	if msg := strings.TrimSpace(string(stderr)); msg != "" {
		return msg
	}
	return fmt.Sprintf("ffmpeg exited with status %d", exitErr.ExitCode())
}
