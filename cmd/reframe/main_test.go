package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reframe/internal/config"
	"reframe/internal/testsupport"
	"reframe/internal/workspace"
)

type cliTestEnv struct {
	cfg        *config.Config
	fake       *testsupport.FakeFFmpeg
	configPath string
	target     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("REFRAME_FFMPEG", "")
	t.Setenv("REFRAME_FFPROBE", "")

	fake := testsupport.NewFakeFFmpeg(t)
	cfg := testsupport.NewConfig(t, testsupport.WithFFmpeg(fake), testsupport.WithStubbedFFprobe(1280, 720, "30/1"))
	configPath := testsupport.WriteConfigFile(t, filepath.Join(base, "config"), cfg)

	target := filepath.Join(base, "media", "clip.mp4")
	testsupport.WriteFile(t, target, 4096)

	return &cliTestEnv{cfg: cfg, fake: fake, configPath: configPath, target: target}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd, cmdCtx := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	cmdCtx.flushMetrics(&stderr)
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestRunCommandProducesOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	output := filepath.Join(t.TempDir(), "final.mp4")

	out, _, err := runCLI(t, []string{"run", "--skip-check", env.target, output}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Geometry:   1280x720 @ 30 fps")
	requireContains(t, out, "Frames:     3")
	requireContains(t, out, "Audio:      yes")
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected output file: %v", err)
	}

	metrics, err := os.ReadFile(env.cfg.Metrics.Textfile)
	if err != nil {
		t.Fatalf("expected metrics textfile: %v", err)
	}
	requireContains(t, string(metrics), "reframe_pipeline_runs_total")
}

func TestExtractFramesCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"extract-frames", "--resolution", "640x360", "--fps", "25", env.target}, env.configPath)
	if err != nil {
		t.Fatalf("extract-frames: %v", err)
	}
	requireContains(t, out, "Extracted 3 frames")

	calls := env.fake.Invocations()
	if len(calls) != 1 {
		t.Fatalf("expected one ffmpeg call, got %d", len(calls))
	}
	requireContains(t, strings.Join(calls[0], " "), "-vf scale=640x360,fps=25.0")
}

func TestExtractFramesRefusesBusyWorkspace(t *testing.T) {
	env := setupCLITestEnv(t)
	ws := workspace.NewResolver(env.cfg.Paths.TempDir, env.cfg.Frames.Format).For(env.target)
	if err := ws.TryLock(); err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	defer ws.Unlock()

	_, _, err := runCLI(t, []string{"extract-frames", "--resolution", "640x360", "--fps", "25", env.target}, env.configPath)
	if !errors.Is(err, workspace.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if calls := env.fake.Invocations(); len(calls) != 0 {
		t.Fatalf("expected no ffmpeg call while locked, got %v", calls)
	}
}

func TestMergeVideoCommandReportsFailure(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"merge-video", "--resolution", "640x360", "--fps", "25", env.target}, env.configPath)
	if err == nil {
		t.Fatal("expected merge without frames to fail")
	}
	requireContains(t, err.Error(), "external tool error")
}

func TestReadAudioCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.fake.SetStdout(make([]byte, 48000*2*2))
	pcm := filepath.Join(t.TempDir(), "audio.pcm")

	out, _, err := runCLI(t, []string{"read-audio", "--output", pcm, env.target}, env.configPath)
	if err != nil {
		t.Fatalf("read-audio: %v", err)
	}
	requireContains(t, out, "Frames:   48000")
	requireContains(t, out, "Duration: 1s")
	if info, err := os.Stat(pcm); err != nil || info.Size() != 48000*4 {
		t.Fatalf("expected pcm file, stat=%v err=%v", info, err)
	}

	out, _, err = runCLI(t, []string{"read-audio", filepath.Join(t.TempDir(), "missing.mp4")}, env.configPath)
	if err != nil {
		t.Fatalf("read-audio missing: %v", err)
	}
	requireContains(t, out, "No audio available")
}

func TestCompressImageCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	image := filepath.Join(t.TempDir(), "face.jpg")
	testsupport.WriteFile(t, image, 128)

	out, _, err := runCLI(t, []string{"compress-image", image}, env.configPath)
	if err != nil {
		t.Fatalf("compress-image: %v", err)
	}
	requireContains(t, out, "Compressed "+image)

	_, _, err = runCLI(t, []string{"compress-image", filepath.Join(t.TempDir(), "missing.jpg")}, env.configPath)
	if err == nil {
		t.Fatal("expected failure for missing image")
	}
}

func TestPlanCommandDoesNotRunFFmpeg(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"plan", "--image", "face.jpg", env.target, "out.mp4"}, env.configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, "Extract Frames")
	requireContains(t, out, "Restore Audio")
	requireContains(t, out, "scale=1280x720,fps=30.0")
	requireContains(t, out, "-hide_banner -loglevel error")
	if calls := env.fake.Invocations(); len(calls) != 0 {
		t.Fatalf("plan must not invoke ffmpeg, got %v", calls)
	}
}

func TestPresetsCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"presets"}, env.configPath)
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	requireContains(t, out, "-crf 10 -preset veryfast")
	requireContains(t, out, "-cq 10 -preset p1")
	requireContains(t, out, "Veryslow")
}

func TestCheckCommandReportsMissingFFmpeg(t *testing.T) {
	env := setupCLITestEnv(t)
	cfg := *env.cfg
	cfg.FFmpeg.Binary = filepath.Join(t.TempDir(), "no-ffmpeg")
	configPath := testsupport.WriteConfigFile(t, t.TempDir(), &cfg)

	out, _, err := runCLI(t, []string{"check"}, configPath)
	if err == nil {
		t.Fatal("expected check to fail")
	}
	requireContains(t, out, "fail  FFmpeg")
	requireContains(t, out, "Temp directory")
	requireContains(t, out, "1 failed")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "libx264 veryfast, quality 80")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
}

func TestDisplayLabel(t *testing.T) {
	if got := displayLabel("merge_video"); got != "Merge Video" {
		t.Fatalf("displayLabel = %q", got)
	}
}
