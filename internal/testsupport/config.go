package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reframe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with a unique temp directory per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.TempDir = filepath.Join(base, "tmp")
	cfgVal.Metrics.Textfile = filepath.Join(base, "metrics", "reframe.prom")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithFFmpeg points the config at a fake ffmpeg binary.
func WithFFmpeg(fake *FakeFFmpeg) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.FFmpeg.Binary = fake.Path
	}
}

// WithStubbedFFprobe writes an ffprobe stub that reports a single video
// stream with the given geometry.
func WithStubbedFFprobe(width, height int, frameRate string) ConfigOption {
	return func(b *configBuilder) {
		b.t.Helper()
		path := filepath.Join(b.baseDir, "bin", "ffprobe")
		payload := fmt.Sprintf(`{"streams":[{"codec_type":"video","width":%d,"height":%d,"r_frame_rate":%q}],"format":{}}`, width, height, frameRate)
		script := "#!/bin/sh\ncat <<'JSON'\n" + payload + "\nJSON\n"
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			b.t.Fatalf("mkdir ffprobe stub dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
			b.t.Fatalf("write ffprobe stub: %v", err)
		}
		b.cfg.FFmpeg.FFprobeBinary = path
	}
}

// WriteConfigFile renders cfg as TOML into dir and returns the file path.
func WriteConfigFile(t testing.TB, dir string, cfg *config.Config) string {
	t.Helper()

	var b strings.Builder
	fmt.Fprintf(&b, "[ffmpeg]\nbinary = %q\nffprobe_binary = %q\n\n", cfg.FFmpeg.Binary, cfg.FFmpeg.FFprobeBinary)
	fmt.Fprintf(&b, "[paths]\ntemp_dir = %q\n\n", cfg.Paths.TempDir)
	fmt.Fprintf(&b, "[frames]\nquality = %d\nformat = %q\n\n", cfg.Frames.Quality, cfg.Frames.Format)
	fmt.Fprintf(&b, "[image]\nquality = %d\n\n", cfg.Image.Quality)
	fmt.Fprintf(&b, "[video]\nencoder = %q\npreset = %q\nquality = %d\n\n", cfg.Video.Encoder, cfg.Video.Preset, cfg.Video.Quality)
	b.WriteString("[trim]\n")
	if cfg.Trim.FrameStart != nil {
		fmt.Fprintf(&b, "frame_start = %d\n", *cfg.Trim.FrameStart)
	}
	if cfg.Trim.FrameEnd != nil {
		fmt.Fprintf(&b, "frame_end = %d\n", *cfg.Trim.FrameEnd)
	}
	fmt.Fprintf(&b, "\n[audio]\nsample_rate = %d\nchannels = %d\n\n", cfg.Audio.SampleRate, cfg.Audio.Channels)
	fmt.Fprintf(&b, "[pipeline]\nkeep_temp = %t\n\n", cfg.Pipeline.KeepTemp)
	fmt.Fprintf(&b, "[metrics]\ntextfile = %q\n\n", cfg.Metrics.Textfile)
	fmt.Fprintf(&b, "[logging]\nformat = %q\nlevel = %q\n", cfg.Logging.Format, cfg.Logging.Level)

	path := filepath.Join(dir, "config.toml")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
