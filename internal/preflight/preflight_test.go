package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"reframe/internal/config"
)

const stubFFmpeg = `#!/bin/sh
for a in "$@"; do
	if [ "$a" = "-version" ]; then echo "ffmpeg version 7.1-stub"; exit 0; fi
	if [ "$a" = "-encoders" ]; then
		echo "Encoders:"
		echo " ------"
		echo " V....D libx264              libx264 H.264"
		echo " V....D libvpx-vp9           libvpx VP9"
		exit 0
	fi
done
exit 1
`

func writeStub(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckEncoder(t *testing.T) {
	ffmpeg := writeStub(t, t.TempDir(), "ffmpeg", stubFFmpeg)

	ok := CheckEncoder(context.Background(), ffmpeg, "libx264")
	if !ok.Passed {
		t.Fatalf("expected libx264 available, got %s", ok.Detail)
	}
	if ok.Detail != "available (ffmpeg version 7.1-stub)" {
		t.Fatalf("unexpected detail %q", ok.Detail)
	}

	missing := CheckEncoder(context.Background(), ffmpeg, "hevc_nvenc")
	if missing.Passed {
		t.Fatal("expected hevc_nvenc to be unavailable")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_AllPassing(t *testing.T) {
	bin := t.TempDir()
	cfg := config.Default()
	cfg.FFmpeg.Binary = writeStub(t, bin, "ffmpeg", stubFFmpeg)
	cfg.FFmpeg.FFprobeBinary = writeStub(t, bin, "ffprobe", "#!/bin/sh\nexit 0\n")
	cfg.Paths.TempDir = t.TempDir()

	results := RunAll(context.Background(), &cfg)
	// ffmpeg + ffprobe + encoder + temp directory
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d: %+v", len(results), results)
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if Failed(results) {
		t.Fatal("expected no failures")
	}
}

func TestRunAll_MissingFFmpeg(t *testing.T) {
	cfg := config.Default()
	cfg.FFmpeg.Binary = filepath.Join(t.TempDir(), "ffmpeg")
	cfg.FFmpeg.FFprobeBinary = filepath.Join(t.TempDir(), "ffprobe")
	cfg.Paths.TempDir = t.TempDir()

	results := RunAll(context.Background(), &cfg)
	// encoder check is skipped without ffmpeg
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d: %+v", len(results), results)
	}
	if results[0].Passed {
		t.Fatal("expected ffmpeg check to fail")
	}
	if !results[1].Optional {
		t.Fatal("expected ffprobe to be optional")
	}
	if !Failed(results) {
		t.Fatal("expected Failed to report the missing ffmpeg")
	}

	only := []Result{{Name: "FFprobe", Optional: true}}
	if Failed(only) {
		t.Fatal("optional failures must not fail preflight")
	}
}
