package ffmpeg

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"reframe/internal/logging"
	"reframe/internal/metrics"
)

// Transcoder runs the reframe ffmpeg operations against a fixed Settings value.
type Transcoder struct {
	settings Settings
	paths    PathResolver
	runner   *Runner
	logger   *slog.Logger
}

// NewTranscoder constructs a transcoder. settings is copied.
func NewTranscoder(settings Settings, paths PathResolver, runner *Runner, logger *slog.Logger) *Transcoder {
	if runner == nil {
		runner = NewRunner("", logger)
	}
	return &Transcoder{
		settings: settings,
		paths:    paths,
		runner:   runner,
		logger:   logging.NewComponentLogger(logger, "transcoder"),
	}
}

// Settings returns a copy of the transcoder's settings.
func (t *Transcoder) Settings() Settings {
	return t.settings
}

// Runner exposes the underlying process runner.
func (t *Transcoder) Runner() *Runner {
	return t.runner
}

// ExtractFrames decodes targetPath into the temporary frame sequence,
// trimmed, scaled to resolution and resampled to fps.
func (t *Transcoder) ExtractFrames(ctx context.Context, targetPath, resolution string, fps float64) bool {
	pattern := t.paths.FramesPattern(targetPath, FrameNumberTemplate)
	args := ExtractFramesArgs(t.settings, targetPath, pattern, resolution, fps)
	return t.runner.Run(ctx, OpExtractFrames, args)
}

// CompressImage re-encodes the image at path in place. ffmpeg writes to a
// sibling temporary file which replaces path only on success, so an
// interrupted run leaves the original untouched.
func (t *Transcoder) CompressImage(ctx context.Context, path string) bool {
	tmpPath := filepath.Join(filepath.Dir(path), ".compress-"+uuid.NewString()+filepath.Ext(path))
	args := CompressImageArgs(t.settings, path, tmpPath)
	if !t.runner.Run(ctx, OpCompressImage, args) {
		_ = os.Remove(tmpPath)
		return false
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		t.logger.Debug("replace compressed image failed",
			logging.String("path", path),
			logging.Error(err),
		)
		return false
	}
	return true
}

// MergeVideo encodes the temporary frame sequence into the temporary output video.
func (t *Transcoder) MergeVideo(ctx context.Context, targetPath, resolution string, fps float64) bool {
	pattern := t.paths.FramesPattern(targetPath, FrameNumberTemplate)
	output := t.paths.OutputVideoPath(targetPath)
	args, err := MergeVideoArgs(t.settings, pattern, output, resolution, fps)
	if err != nil {
		t.logger.Debug("merge command rejected", logging.Error(err))
		return false
	}
	return t.runner.Run(ctx, OpMergeVideo, args)
}

// ReadAudioBuffer decodes the audio of targetPath into raw PCM. The boolean
// is false when ffmpeg could not produce audio; that is an expected outcome
// for silent or unreadable sources, not an error.
func (t *Transcoder) ReadAudioBuffer(ctx context.Context, targetPath string, sampleRate, channels int) (AudioBuffer, bool) {
	process, err := t.runner.Open(ctx, OpReadAudio, ReadAudioArgs(targetPath, sampleRate, channels))
	if err != nil {
		t.logger.Debug("audio extraction unavailable", logging.Error(err))
		return nil, false
	}
	defer process.Close()

	stdout, stderr, err := process.Communicate()
	if err != nil {
		t.logger.Debug("audio extraction failed",
			logging.String("target", targetPath),
			logging.Int("exit_code", process.ExitCode()),
			logging.String("stderr", strings.TrimSpace(string(stderr))),
			logging.Error(err),
		)
		return nil, false
	}
	metrics.AudioBytesExtracted.Add(float64(len(stdout)))
	if stdout == nil {
		stdout = []byte{}
	}
	return AudioBuffer(stdout), true
}

// RestoreAudio muxes the temporary output video with the matching slice of
// the original audio of targetPath and writes outputPath.
func (t *Transcoder) RestoreAudio(ctx context.Context, targetPath, outputPath string, fps float64) bool {
	tempVideo := t.paths.OutputVideoPath(targetPath)
	args := RestoreAudioArgs(t.settings, tempVideo, targetPath, outputPath, fps)
	return t.runner.Run(ctx, OpRestoreAudio, args)
}

// ReplaceAudio muxes the temporary output video with audioPath and writes outputPath.
func (t *Transcoder) ReplaceAudio(ctx context.Context, targetPath, audioPath, outputPath string) bool {
	tempVideo := t.paths.OutputVideoPath(targetPath)
	return t.runner.Run(ctx, OpReplaceAudio, ReplaceAudioArgs(tempVideo, audioPath, outputPath))
}

// PlannedCommand is one operation rendered without running it.
type PlannedCommand struct {
	Operation string
	Args      []string
}

// PlanRequest carries the inputs Plan needs to render every operation.
type PlanRequest struct {
	TargetPath string
	OutputPath string
	AudioPath  string
	ImagePath  string
	Resolution string
	FPS        float64
	SampleRate int
	Channels   int
}

// Plan renders the argument lists the transcoder would use for req.
func (t *Transcoder) Plan(req PlanRequest) ([]PlannedCommand, error) {
	pattern := t.paths.FramesPattern(req.TargetPath, FrameNumberTemplate)
	tempVideo := t.paths.OutputVideoPath(req.TargetPath)

	merge, err := MergeVideoArgs(t.settings, pattern, tempVideo, req.Resolution, req.FPS)
	if err != nil {
		return nil, fmt.Errorf("plan merge: %w", err)
	}

	plan := []PlannedCommand{
		{Operation: OpExtractFrames, Args: ExtractFramesArgs(t.settings, req.TargetPath, pattern, req.Resolution, req.FPS)},
		{Operation: OpMergeVideo, Args: merge},
	}
	if req.ImagePath != "" {
		plan = append(plan, PlannedCommand{Operation: OpCompressImage, Args: CompressImageArgs(t.settings, req.ImagePath, req.ImagePath)})
	}
	if req.SampleRate > 0 && req.Channels > 0 {
		plan = append(plan, PlannedCommand{Operation: OpReadAudio, Args: ReadAudioArgs(req.TargetPath, req.SampleRate, req.Channels)})
	}
	if req.AudioPath != "" {
		plan = append(plan, PlannedCommand{Operation: OpReplaceAudio, Args: ReplaceAudioArgs(tempVideo, req.AudioPath, req.OutputPath)})
	} else {
		plan = append(plan, PlannedCommand{Operation: OpRestoreAudio, Args: RestoreAudioArgs(t.settings, tempVideo, req.TargetPath, req.OutputPath, req.FPS)})
	}
	return plan, nil
}
