package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"reframe/internal/ffmpeg"
	"reframe/internal/logging"
	"reframe/internal/media/ffprobe"
	"reframe/internal/metrics"
	"reframe/internal/workspace"
)

// Stage names reported in errors and logs.
const (
	StagePrepare  = "prepare"
	StageProbe    = "probe"
	StageExtract  = "extract_frames"
	StageProcess  = "process_frames"
	StageMerge    = "merge_video"
	StageAudio    = "audio"
	StageFinalize = "finalize"
)

// FrameProcessor transforms extracted frames in place before they are merged.
type FrameProcessor func(ctx context.Context, framePaths []string) error

// Prober inspects a target for its resolution and frame rate.
type Prober func(ctx context.Context, path string) (ffprobe.Result, error)

// Options wires the collaborators of a pipeline.
type Options struct {
	Logger     *slog.Logger
	Transcoder *ffmpeg.Transcoder
	Resolver   workspace.Resolver
	// Prober is consulted when a request omits resolution or fps.
	Prober Prober
	// Processor runs between extraction and merge. Nil leaves frames untouched.
	Processor FrameProcessor
	KeepTemp  bool
}

// Request describes one run.
type Request struct {
	TargetPath string
	OutputPath string
	// AudioPath replaces the target's audio when set.
	AudioPath  string
	Resolution string
	FPS        float64
}

// Result summarizes a completed run.
type Result struct {
	RunID      string
	Resolution string
	FPS        float64
	Frames     int
	// AudioApplied is false when the output was delivered without audio.
	AudioApplied bool
	OutputPath   string
	Elapsed      time.Duration
}

// Pipeline executes runs with a fixed set of collaborators.
type Pipeline struct {
	opts   Options
	logger *slog.Logger
}

// New constructs a pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Transcoder == nil {
		return nil, errors.New("pipeline: transcoder is required")
	}
	return &Pipeline{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "pipeline"),
	}, nil
}

// Run executes every stage for req.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	result := Result{RunID: uuid.NewString(), OutputPath: req.OutputPath}
	logger := logging.WithCorrelationID(p.logger, result.RunID)

	if err := validateRequest(req); err != nil {
		metrics.PipelineRunsTotal.WithLabelValues(metrics.StatusFailure).Inc()
		return result, err
	}

	resolution, fps, err := ResolveGeometry(ctx, p.opts.Prober, req.TargetPath, req.Resolution, req.FPS)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues(metrics.StatusFailure).Inc()
		return result, err
	}
	result.Resolution = resolution
	result.FPS = fps

	logger.Info("pipeline started",
		logging.String(logging.FieldEventType, "pipeline_start"),
		logging.String("target", req.TargetPath),
		logging.String("output", req.OutputPath),
		logging.String("resolution", resolution),
		logging.Float64("fps", fps),
	)

	err = p.execute(ctx, logger, req, &result)
	result.Elapsed = time.Since(start)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues(metrics.StatusFailure).Inc()
		logger.Error("pipeline failed",
			logging.String(logging.FieldEventType, "pipeline_failure"),
			logging.Error(err),
		)
		return result, err
	}

	metrics.PipelineRunsTotal.WithLabelValues(metrics.StatusSuccess).Inc()
	logger.Info("pipeline completed",
		logging.String(logging.FieldEventType, "pipeline_complete"),
		logging.Int("frames", result.Frames),
		logging.Bool("audio_applied", result.AudioApplied),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (p *Pipeline) execute(ctx context.Context, logger *slog.Logger, req Request, result *Result) error {
	ws := p.opts.Resolver.For(req.TargetPath)
	if err := ws.Lock(ctx); err != nil {
		return stageError(ffmpeg.ErrConfiguration, StagePrepare, "workspace busy", err)
	}
	defer func() {
		if err := ws.Unlock(); err != nil {
			logger.Warn("workspace unlock failed", logging.Error(err))
		}
	}()

	if err := ws.Clear(); err != nil {
		return stageError(ffmpeg.ErrValidation, StagePrepare, "clear workspace", err)
	}
	if err := ws.Create(); err != nil {
		return stageError(ffmpeg.ErrValidation, StagePrepare, "create workspace", err)
	}
	// ffmpeg does not create missing directories for its output.
	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); err != nil {
		return stageError(ffmpeg.ErrValidation, StagePrepare, "create output directory", err)
	}
	if !p.opts.KeepTemp {
		defer func() {
			if err := ws.Clear(); err != nil {
				logger.Warn("workspace cleanup failed", logging.Error(err))
			}
		}()
	}

	t := p.opts.Transcoder
	if !t.ExtractFrames(ctx, req.TargetPath, result.Resolution, result.FPS) {
		return stageError(ffmpeg.ErrExternalTool, StageExtract, "ffmpeg could not extract frames", ctx.Err())
	}
	frames, err := ws.FramePaths()
	if err != nil {
		return stageError(ffmpeg.ErrValidation, StageExtract, "list frames", err)
	}
	if len(frames) == 0 {
		return stageError(ffmpeg.ErrValidation, StageExtract, "no frames extracted; check the trim window", nil)
	}
	result.Frames = len(frames)
	metrics.PipelineFramesExtracted.Add(float64(len(frames)))
	logger.Debug("frames extracted", logging.Int("frames", len(frames)), logging.String("workspace", ws.Dir()))

	if p.opts.Processor != nil {
		if err := p.opts.Processor(ctx, frames); err != nil {
			return stageError(ffmpeg.ErrValidation, StageProcess, "frame processor failed", err)
		}
	}

	if !t.MergeVideo(ctx, req.TargetPath, result.Resolution, result.FPS) {
		return stageError(ffmpeg.ErrExternalTool, StageMerge, "ffmpeg could not merge frames", ctx.Err())
	}

	if req.AudioPath != "" {
		result.AudioApplied = t.ReplaceAudio(ctx, req.TargetPath, req.AudioPath, req.OutputPath)
	} else {
		result.AudioApplied = t.RestoreAudio(ctx, req.TargetPath, req.OutputPath, result.FPS)
	}
	if ctx.Err() != nil {
		return stageError(ffmpeg.ErrExternalTool, StageAudio, "cancelled", ctx.Err())
	}
	if !result.AudioApplied {
		logger.Warn("audio step skipped; delivering video without audio",
			logging.String(logging.FieldEventType, "audio_skipped"),
			logging.String("target", req.TargetPath),
		)
		if err := ws.MoveOutput(req.OutputPath); err != nil {
			return stageError(ffmpeg.ErrValidation, StageFinalize, "move merged video", err)
		}
	}
	return nil
}

// ResolveGeometry fills in a missing resolution or fps from prober.
// Explicit values always win over probed ones.
func ResolveGeometry(ctx context.Context, prober Prober, targetPath, resolution string, fps float64) (string, float64, error) {
	resolution = strings.TrimSpace(resolution)
	if resolution != "" && fps > 0 {
		return resolution, fps, nil
	}
	if prober == nil {
		return "", 0, stageError(ffmpeg.ErrConfiguration, StageProbe, "resolution and fps are required when ffprobe is unavailable", nil)
	}
	probe, err := prober(ctx, targetPath)
	if err != nil {
		return "", 0, stageError(ffmpeg.ErrExternalTool, StageProbe, "inspect target", err)
	}
	if resolution == "" {
		if resolution, err = probe.Resolution(); err != nil {
			return "", 0, stageError(ffmpeg.ErrValidation, StageProbe, "detect resolution", err)
		}
	}
	if fps <= 0 {
		if fps, err = probe.FrameRate(); err != nil {
			return "", 0, stageError(ffmpeg.ErrValidation, StageProbe, "detect frame rate", err)
		}
	}
	return resolution, fps, nil
}

func validateRequest(req Request) error {
	if strings.TrimSpace(req.TargetPath) == "" {
		return stageError(ffmpeg.ErrValidation, StagePrepare, "target path is required", nil)
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return stageError(ffmpeg.ErrValidation, StagePrepare, "output path is required", nil)
	}
	if req.FPS < 0 {
		return stageError(ffmpeg.ErrValidation, StagePrepare, fmt.Sprintf("invalid fps %v", req.FPS), nil)
	}
	return nil
}

func stageError(marker error, stage, message string, err error) error {
	return ffmpeg.Wrap(marker, stage, message, err)
}

// FFprobeProber adapts ffprobe.Inspect to a Prober for binary.
func FFprobeProber(binary string) Prober {
	return func(ctx context.Context, path string) (ffprobe.Result, error) {
		return ffprobe.Inspect(ctx, binary, path)
	}
}
