package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"reframe/internal/fileutil"
)

const (
	appDirName         = "reframe"
	outputVideoName    = "temp.mp4"
	defaultFrameFormat = "jpg"
	lockRetryDelay     = 250 * time.Millisecond
)

// ErrLocked is returned when another process holds the workspace lock.
var ErrLocked = errors.New("workspace locked by another process")

// Resolver derives temporary paths from target paths.
type Resolver struct {
	root        string
	frameFormat string
}

// NewResolver returns a resolver rooted at root (os.TempDir when empty) that
// names frames with the frameFormat extension.
func NewResolver(root, frameFormat string) Resolver {
	root = strings.TrimSpace(root)
	if root == "" {
		root = os.TempDir()
	}
	frameFormat = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(frameFormat)), ".")
	if frameFormat == "" {
		frameFormat = defaultFrameFormat
	}
	return Resolver{root: root, frameFormat: frameFormat}
}

// Root returns the directory that holds every workspace.
func (r Resolver) Root() string {
	return filepath.Join(r.root, appDirName)
}

// FrameFormat returns the image extension used for frames.
func (r Resolver) FrameFormat() string {
	return r.frameFormat
}

// Dir returns the workspace directory for targetPath.
func (r Resolver) Dir(targetPath string) string {
	base := filepath.Base(targetPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(r.Root(), stem)
}

// FramesPattern returns the numbered frame path pattern for targetPath.
func (r Resolver) FramesPattern(targetPath, template string) string {
	return filepath.Join(r.Dir(targetPath), template+"."+r.frameFormat)
}

// OutputVideoPath returns where the merged temporary video is written.
func (r Resolver) OutputVideoPath(targetPath string) string {
	return filepath.Join(r.Dir(targetPath), outputVideoName)
}

// For returns the workspace for targetPath.
func (r Resolver) For(targetPath string) *Workspace {
	dir := r.Dir(targetPath)
	return &Workspace{
		resolver: r,
		target:   targetPath,
		dir:      dir,
		lock:     flock.New(dir + ".lock"),
	}
}

// Workspace is the temporary directory of a single target.
type Workspace struct {
	resolver Resolver
	target   string
	dir      string
	lock     *flock.Flock
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Target returns the source path the workspace belongs to.
func (w *Workspace) Target() string {
	return w.target
}

// OutputVideoPath returns the merged temporary video path.
func (w *Workspace) OutputVideoPath() string {
	return w.resolver.OutputVideoPath(w.target)
}

// Lock acquires the workspace lock, retrying until ctx is done.
func (w *Workspace) Lock(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(w.dir), 0o755); err != nil {
		return fmt.Errorf("create workspace root: %w", err)
	}
	locked, err := w.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s", ErrLocked, w.dir)
		}
		return fmt.Errorf("lock workspace: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrLocked, w.dir)
	}
	return nil
}

// TryLock acquires the workspace lock without waiting.
func (w *Workspace) TryLock() error {
	if err := os.MkdirAll(filepath.Dir(w.dir), 0o755); err != nil {
		return fmt.Errorf("create workspace root: %w", err)
	}
	locked, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock workspace: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrLocked, w.dir)
	}
	return nil
}

// Unlock releases the workspace lock.
func (w *Workspace) Unlock() error {
	if err := w.lock.Unlock(); err != nil {
		return fmt.Errorf("unlock workspace: %w", err)
	}
	return nil
}

// Create makes the workspace directory.
func (w *Workspace) Create() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create workspace %q: %w", w.dir, err)
	}
	return nil
}

// Clear removes the workspace directory and everything in it.
func (w *Workspace) Clear() error {
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("clear workspace %q: %w", w.dir, err)
	}
	return nil
}

// FramePaths lists the extracted frames in sequence order. Frame numbers
// outgrow the zero padding past 9999, so names are ordered by their numeric
// stem rather than lexically.
func (w *Workspace) FramePaths() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(w.dir, "*."+w.resolver.frameFormat))
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		a, aok := frameIndex(matches[i])
		b, bok := frameIndex(matches[j])
		switch {
		case aok && bok && a != b:
			return a < b
		case aok != bok:
			return aok
		default:
			return matches[i] < matches[j]
		}
	})
	return matches, nil
}

func frameIndex(path string) (int, bool) {
	base := filepath.Base(path)
	n, err := strconv.Atoi(strings.TrimSuffix(base, filepath.Ext(base)))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// MoveOutput moves the merged temporary video to dest, falling back to a
// copy when the workspace and dest live on different filesystems.
func (w *Workspace) MoveOutput(dest string) error {
	src := w.OutputVideoPath()
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("temporary video missing: %w", err)
	}
	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := fileutil.MoveFile(src, dest); err != nil {
		return fmt.Errorf("move temporary video: %w", err)
	}
	return nil
}
