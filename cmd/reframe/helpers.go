package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"reframe/internal/ffmpeg"
	"reframe/internal/pipeline"
	"reframe/internal/workspace"
)

type geometryFlags struct {
	resolution string
	fps        float64
}

func (g *geometryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&g.resolution, "resolution", "r", "", "Output resolution as WxH (probed with ffprobe when omitted)")
	cmd.Flags().Float64Var(&g.fps, "fps", 0, "Output frame rate (probed with ffprobe when omitted)")
}

func (g *geometryFlags) resolve(ctx context.Context, cmdCtx *commandContext, target string) (string, float64, error) {
	if g.fps < 0 {
		return "", 0, fmt.Errorf("--fps must be positive, got %v", g.fps)
	}
	return pipeline.ResolveGeometry(ctx, cmdCtx.prober(), target, g.resolution, g.fps)
}

func (g *geometryFlags) resolveFPS(ctx context.Context, cmdCtx *commandContext, target string) (float64, error) {
	if g.fps > 0 {
		return g.fps, nil
	}
	probe, err := cmdCtx.prober()(ctx, target)
	if err != nil {
		return 0, fmt.Errorf("--fps not given and ffprobe failed: %w", err)
	}
	return probe.FrameRate()
}

// operationFailed converts a false result from the transcoder into an error.
func operationFailed(operation string) error {
	return ffmpeg.Wrap(ffmpeg.ErrExternalTool, operation, "ffmpeg reported failure (rerun with --log-level debug for its output)", nil)
}

// claimWorkspace holds the workspace of a single-step command. It refuses
// rather than waits so a step never rewrites frames under a running pipeline.
func claimWorkspace(ws *workspace.Workspace) (func(), error) {
	if err := ws.TryLock(); err != nil {
		return nil, fmt.Errorf("%w (another reframe command is using it)", err)
	}
	return func() { _ = ws.Unlock() }, nil
}
