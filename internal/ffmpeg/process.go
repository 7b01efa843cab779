package ffmpeg

import (
	"bytes"
	"io"
	"os/exec"
	"sync"
	"time"

	"reframe/internal/metrics"
)

// Process is a running ffmpeg child with piped standard streams.
type Process struct {
	cmd       *exec.Cmd
	operation string
	started   time.Time

	Stdin  io.WriteCloser
	Stdout io.ReadCloser
	Stderr io.ReadCloser

	waitOnce sync.Once
	waitErr  error
}

// Communicate closes stdin, drains stdout and stderr concurrently and waits
// for the process to exit. Both streams are read while the child runs so a
// full pipe buffer can never stall it.
func (p *Process) Communicate() (stdout, stderr []byte, err error) {
	if p.Stdin != nil {
		_ = p.Stdin.Close()
	}

	var outBuf, errBuf bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = io.Copy(&outBuf, p.Stdout)
	}()
	go func() {
		defer wg.Done()
		_, _ = io.Copy(&errBuf, p.Stderr)
	}()
	wg.Wait()

	err = p.wait()
	return outBuf.Bytes(), errBuf.Bytes(), err
}

// ExitCode reports the exit status once the process has been waited on, or -1.
func (p *Process) ExitCode() int {
	if p.cmd.ProcessState == nil {
		return -1
	}
	return p.cmd.ProcessState.ExitCode()
}

// Close kills the process if it is still running and reaps it. It is safe
// to call more than once and after Communicate.
func (p *Process) Close() error {
	if p.cmd.ProcessState == nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	_ = p.wait()
	return nil
}

func (p *Process) wait() error {
	p.waitOnce.Do(func() {
		p.waitErr = p.cmd.Wait()
		metrics.FFmpegProcessesInFlight.Dec()
		status := metrics.StatusSuccess
		if p.waitErr != nil {
			status = metrics.StatusFailure
		}
		metrics.ObserveInvocation(p.operation, status, time.Since(p.started))
	})
	return p.waitErr
}
