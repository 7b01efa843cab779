package testsupport

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// mediaMagic opens every fake media file so stub binaries and tests can tell
// a written source apart from an empty touch.
var mediaMagic = []byte("\x00\x00\x00\x18ftypisom")

// WriteFile creates path (and its parent directories) holding size bytes of
// fake media content. A size <= 0 still writes the magic header.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	content := append([]byte(nil), mediaMagic...)
	if pad := size - int64(len(content)); pad > 0 {
		content = append(content, bytes.Repeat([]byte{0x42}, int(pad))...)
	} else if size > 0 {
		content = content[:size]
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteFrames writes count numbered frames (0001.ext, 0002.ext, ...) into dir
// the way ffmpeg's %04d pattern names them, and returns their paths in order.
func WriteFrames(t testing.TB, dir, ext string, count int) []string {
	t.Helper()

	paths := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%04d.%s", i, ext))
		WriteFile(t, path, 64)
		paths = append(paths, path)
	}
	return paths
}
