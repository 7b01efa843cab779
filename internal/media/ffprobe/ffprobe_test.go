package ffprobe

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio"},
			{CodecType: "video", Width: 1920, Height: 1080, RFrameRate: "30000/1001", NBFrames: "240"},
			{CodecType: "video", Width: 320, Height: 240, RFrameRate: "10/1"},
		},
		Format: Format{Duration: "8.008"},
	}
	res, err := result.Resolution()
	if err != nil || res != "1920x1080" {
		t.Fatalf("unexpected resolution %q (%v)", res, err)
	}
	fps, err := result.FrameRate()
	if err != nil || math.Abs(fps-29.97) > 0.001 {
		t.Fatalf("unexpected frame rate %v (%v)", fps, err)
	}
	if !result.HasAudio() {
		t.Fatal("expected audio stream")
	}
	if result.FrameCount() != 240 {
		t.Fatalf("unexpected frame count %d", result.FrameCount())
	}
	if result.DurationSeconds() != 8.008 {
		t.Fatalf("unexpected duration %v", result.DurationSeconds())
	}
}

func TestFrameRateFallsBackToAverage(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "video", RFrameRate: "0/0", AvgFrameRate: "25/1"}}}
	fps, err := result.FrameRate()
	if err != nil || fps != 25 {
		t.Fatalf("expected avg_frame_rate fallback, got %v (%v)", fps, err)
	}
}

func TestResultWithoutVideo(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "audio"}}, Format: Format{Duration: "bad"}}
	if _, err := result.Resolution(); !errors.Is(err, ErrNoVideoStream) {
		t.Fatalf("expected ErrNoVideoStream, got %v", err)
	}
	if _, err := result.FrameRate(); !errors.Is(err, ErrNoVideoStream) {
		t.Fatalf("expected ErrNoVideoStream, got %v", err)
	}
	if result.FrameCount() != 0 {
		t.Fatal("expected zero frame count")
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected NaN duration, got %v", result.DurationSeconds())
	}
}

func TestParseRational(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"25/1", 25, true},
		{"24000/1001", 24000.0 / 1001.0, true},
		{"30", 30, true},
		{"0/0", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseRational(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ParseRational(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestInspectRunsBinary(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat <<'JSON'\n{\"streams\":[{\"codec_type\":\"video\",\"width\":640,\"height\":360,\"r_frame_rate\":\"25/1\"}],\"format\":{\"duration\":\"2.0\"}}\nJSON\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	result, err := Inspect(context.Background(), stub, "clip.mp4")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if res, _ := result.Resolution(); res != "640x360" {
		t.Fatalf("unexpected resolution %q", res)
	}
}

func TestInspectFailure(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho 'clip.mp4: Invalid data' >&2\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	if _, err := Inspect(context.Background(), stub, "clip.mp4"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := Inspect(context.Background(), stub, " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
