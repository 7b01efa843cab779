package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// fakeFFmpegScript imitates the parts of ffmpeg reframe relies on: it
// rejects missing inputs, writes frame sequences for numbered patterns,
// streams PCM to stdout for "-" and writes any other output path. Like
// ffmpeg it exits 1 when an output cannot be opened.
const fakeFFmpegScript = `#!/bin/sh
state="__STATE__"
printf '%s\n' "$*" >> "$state/invocations.log"
if [ -f "$state/fail" ]; then
	echo "forced failure: $(cat "$state/fail")" >&2
	exit 1
fi
prev=""
last=""
for arg in "$@"; do
	if [ "$prev" = "-i" ]; then
		case "$arg" in
			*%*) probe=$(printf "$arg" 1) ;;
			*) probe="$arg" ;;
		esac
		if [ ! -e "$probe" ]; then
			echo "$arg: No such file or directory" >&2
			exit 1
		fi
	fi
	prev="$arg"
	last="$arg"
done
if [ -f "$state/noisy" ]; then
	dd if=/dev/zero bs=1024 count=256 2>/dev/null | tr '\0' 'w' >&2
fi
case "$last" in
	-)
		if [ -f "$state/stdout" ]; then
			cat "$state/stdout"
		else
			printf 'PCMDATA'
		fi
		;;
	*%*)
		count=3
		if [ -f "$state/frames" ]; then
			count=$(cat "$state/frames")
		fi
		i=1
		while [ "$i" -le "$count" ]; do
			printf 'frame' > "$(printf "$last" "$i")" || exit 1
			i=$((i + 1))
		done
		;;
	*)
		printf 'fake-output' > "$last" || exit 1
		;;
esac
exit 0
`

// FakeFFmpeg is a scripted stand-in for the ffmpeg binary.
type FakeFFmpeg struct {
	t     testing.TB
	Path  string
	state string
}

// NewFakeFFmpeg writes a fake ffmpeg executable into a temp directory.
func NewFakeFFmpeg(t testing.TB) *FakeFFmpeg {
	t.Helper()

	base := t.TempDir()
	state := filepath.Join(base, "state")
	if err := os.MkdirAll(state, 0o755); err != nil {
		t.Fatalf("mkdir fake ffmpeg state: %v", err)
	}
	path := filepath.Join(base, "ffmpeg")
	script := strings.ReplaceAll(fakeFFmpegScript, "__STATE__", state)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}
	return &FakeFFmpeg{t: t, Path: path, state: state}
}

// Fail makes every following invocation exit 1 with reason on stderr.
// An empty reason restores normal behaviour.
func (f *FakeFFmpeg) Fail(reason string) {
	f.t.Helper()
	f.toggle("fail", reason)
}

// SetStdout replaces the bytes written when the output target is "-".
func (f *FakeFFmpeg) SetStdout(data []byte) {
	f.t.Helper()
	if err := os.WriteFile(filepath.Join(f.state, "stdout"), data, 0o644); err != nil {
		f.t.Fatalf("write fake stdout: %v", err)
	}
}

// SetFrameCount controls how many frames a numbered output receives.
func (f *FakeFFmpeg) SetFrameCount(n int) {
	f.t.Helper()
	if err := os.WriteFile(filepath.Join(f.state, "frames"), []byte(strconv.Itoa(n)), 0o644); err != nil {
		f.t.Fatalf("write fake frame count: %v", err)
	}
}

// SetNoisyStderr makes the fake write 256KiB to stderr before its output,
// enough to fill a pipe buffer that nobody drains.
func (f *FakeFFmpeg) SetNoisyStderr(noisy bool) {
	f.t.Helper()
	value := ""
	if noisy {
		value = "1"
	}
	f.toggle("noisy", value)
}

// Invocations returns the whitespace-split arguments of every call so far.
func (f *FakeFFmpeg) Invocations() [][]string {
	f.t.Helper()
	data, err := os.ReadFile(filepath.Join(f.state, "invocations.log"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		f.t.Fatalf("read fake invocations: %v", err)
	}
	var calls [][]string
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if line == "" {
			continue
		}
		calls = append(calls, strings.Fields(line))
	}
	return calls
}

func (f *FakeFFmpeg) toggle(name, value string) {
	path := filepath.Join(f.state, name)
	if value == "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			f.t.Fatalf("clear fake %s: %v", name, err)
		}
		return
	}
	if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
		f.t.Fatalf("write fake %s: %v", name, err)
	}
}
