package ffmpeg_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"reframe/internal/ffmpeg"
	"reframe/internal/testsupport"
)

// syncBuffer lets the slog handler and the test read the same buffer safely.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func captureLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func TestRunnerRunSuccessLogsNothing(t *testing.T) {
	fake := testsupport.NewFakeFFmpeg(t)
	logger, logs := captureLogger()
	runner := ffmpeg.NewRunner(fake.Path, logger)

	out := filepath.Join(t.TempDir(), "out.mp4")
	if !runner.Run(context.Background(), "test", []string{"-y", out}) {
		t.Fatal("expected success")
	}
	if logs.String() != "" {
		t.Fatalf("expected no diagnostics on success, got %q", logs.String())
	}

	calls := fake.Invocations()
	if len(calls) != 1 {
		t.Fatalf("expected one invocation, got %d", len(calls))
	}
	if strings.Join(calls[0][:3], " ") != "-hide_banner -loglevel error" {
		t.Fatalf("expected verbosity prefix, got %v", calls[0])
	}
}

func TestRunnerRunFailureLogsStderr(t *testing.T) {
	fake := testsupport.NewFakeFFmpeg(t)
	fake.Fail("codec exploded")
	logger, logs := captureLogger()
	runner := ffmpeg.NewRunner(fake.Path, logger)

	if runner.Run(context.Background(), "test", []string{"-y", "out.mp4"}) {
		t.Fatal("expected failure")
	}
	content := logs.String()
	if !strings.Contains(content, "level=DEBUG") {
		t.Fatalf("expected debug level diagnostic, got %q", content)
	}
	if !strings.Contains(content, "forced failure: codec exploded") {
		t.Fatalf("expected stderr text in diagnostic, got %q", content)
	}
	if !strings.Contains(content, "component=ffmpeg") {
		t.Fatalf("expected component tag, got %q", content)
	}
	if !strings.Contains(content, `args="-y out.mp4"`) {
		t.Fatalf("expected argument list in diagnostic, got %q", content)
	}
}

func TestRunnerRunMissingBinary(t *testing.T) {
	logger, logs := captureLogger()
	runner := ffmpeg.NewRunner(filepath.Join(t.TempDir(), "no-such-ffmpeg"), logger)

	if runner.Run(context.Background(), "test", nil) {
		t.Fatal("expected failure for missing binary")
	}
	if !strings.Contains(logs.String(), "ffmpeg could not be started") {
		t.Fatalf("expected unavailable warning, got %q", logs.String())
	}
}

func TestRunnerDefaultsBinary(t *testing.T) {
	if got := ffmpeg.NewRunner("  ", nil).Binary(); got != "ffmpeg" {
		t.Fatalf("expected ffmpeg default, got %q", got)
	}
}

func TestRunnerOpenMissingBinary(t *testing.T) {
	runner := ffmpeg.NewRunner(filepath.Join(t.TempDir(), "no-such-ffmpeg"), nil)
	process, err := runner.Open(context.Background(), "test", []string{"-"})
	if err == nil {
		process.Close()
		t.Fatal("expected error for missing binary")
	}
	if !errors.Is(err, ffmpeg.ErrToolUnavailable) {
		t.Fatalf("expected ErrToolUnavailable, got %v", err)
	}
}

func TestProcessCommunicateDrainsBothStreams(t *testing.T) {
	fake := testsupport.NewFakeFFmpeg(t)
	fake.SetNoisyStderr(true)
	payload := bytes.Repeat([]byte{0x01, 0x02}, 200*1024)
	fake.SetStdout(payload)
	runner := ffmpeg.NewRunner(fake.Path, nil)

	process, err := runner.Open(context.Background(), "test", []string{"-"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer process.Close()

	done := make(chan struct{})
	var stdout, stderr []byte
	go func() {
		defer close(done)
		stdout, stderr, err = process.Communicate()
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Communicate did not return; pipes were not drained concurrently")
	}
	if err != nil {
		t.Fatalf("Communicate: %v", err)
	}
	if !bytes.Equal(stdout, payload) {
		t.Fatalf("stdout length %d, want %d", len(stdout), len(payload))
	}
	if len(stderr) != 256*1024 {
		t.Fatalf("stderr length %d, want %d", len(stderr), 256*1024)
	}
	if process.ExitCode() != 0 {
		t.Fatalf("exit code %d", process.ExitCode())
	}
}

func TestProcessCloseWithoutCommunicate(t *testing.T) {
	fake := testsupport.NewFakeFFmpeg(t)
	fake.SetNoisyStderr(true)
	runner := ffmpeg.NewRunner(fake.Path, nil)

	process, err := runner.Open(context.Background(), "test", []string{"-"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = process.Close()
		_ = process.Close()
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Close did not reap the process")
	}
}
