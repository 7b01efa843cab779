package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Empty", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for empty command: %#v", results[2])
	}
}

const encodersOutput = `Encoders:
 V..... = Video
 A..... = Audio
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC (codec h264)
 V....D h264_nvenc           NVIDIA NVENC H.264 encoder (codec h264)
 A....D aac                  AAC (Advanced Audio Coding)
`

func TestParseEncoders(t *testing.T) {
	encoders := parseEncoders([]byte(encodersOutput))
	for _, name := range []string{"libx264", "h264_nvenc", "aac"} {
		if _, ok := encoders[name]; !ok {
			t.Fatalf("expected %s in %v", name, encoders)
		}
	}
	if _, ok := encoders["="]; ok {
		t.Fatal("legend lines must be skipped")
	}
	if len(encoders) != 3 {
		t.Fatalf("expected 3 encoders, got %d", len(encoders))
	}
}

func TestVersionAndEncoders(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\nfor a in \"$@\"; do\n  if [ \"$a\" = \"-version\" ]; then echo 'ffmpeg version 7.1-test'; echo 'built with gcc'; exit 0; fi\n  if [ \"$a\" = \"-encoders\" ]; then cat <<'EOT'\n" + encodersOutput + "EOT\nexit 0; fi\ndone\nexit 1\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	version, err := Version(context.Background(), stub)
	if err != nil || version != "ffmpeg version 7.1-test" {
		t.Fatalf("unexpected version %q (%v)", version, err)
	}
	encoders, err := Encoders(context.Background(), stub)
	if err != nil {
		t.Fatalf("Encoders: %v", err)
	}
	if _, ok := encoders["libx264"]; !ok {
		t.Fatalf("expected libx264, got %v", encoders)
	}

	if _, err := Version(context.Background(), filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing binary")
	}
}
