package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"reframe/internal/ffmpeg"
	"reframe/internal/pipeline"
	"reframe/internal/preflight"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var geometry geometryFlags
	var audioPath string
	var keepTemp bool
	var skipCheck bool

	cmd := &cobra.Command{
		Use:   "run <target> <output>",
		Short: "Extract, merge and restore audio for a target in one pass",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config
			if !skipCheck {
				results := preflight.RunAll(cmd.Context(), cfg)
				if preflight.Failed(results) {
					for _, r := range results {
						if !r.Passed && !r.Optional {
							return ffmpeg.Wrap(ffmpeg.ErrToolUnavailable, "preflight", r.Name+": "+r.Detail, nil)
						}
					}
				}
			}

			p, err := pipeline.New(pipeline.Options{
				Logger:     ctx.loggerValue(),
				Transcoder: ctx.transcoder(),
				Resolver:   ctx.resolver(),
				Prober:     ctx.prober(),
				KeepTemp:   keepTemp || cfg.Pipeline.KeepTemp,
			})
			if err != nil {
				return err
			}
			result, err := p.Run(cmd.Context(), pipeline.Request{
				TargetPath: args[0],
				OutputPath: args[1],
				AudioPath:  audioPath,
				Resolution: geometry.resolution,
				FPS:        geometry.fps,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:        %s\n", result.RunID)
			fmt.Fprintf(out, "Output:     %s\n", result.OutputPath)
			fmt.Fprintf(out, "Geometry:   %s @ %g fps\n", result.Resolution, result.FPS)
			fmt.Fprintf(out, "Frames:     %d\n", result.Frames)
			fmt.Fprintf(out, "Audio:      %s\n", yesNo(result.AudioApplied))
			fmt.Fprintf(out, "Elapsed:    %s\n", result.Elapsed.Round(time.Millisecond))
			return nil
		},
	}
	geometry.register(cmd)
	cmd.Flags().StringVar(&audioPath, "audio", "", "Replace the target's audio with this file")
	cmd.Flags().BoolVar(&keepTemp, "keep-temp", false, "Keep the workspace after the run")
	cmd.Flags().BoolVar(&skipCheck, "skip-check", false, "Skip preflight checks")
	return cmd
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var geometry geometryFlags
	var audioPath string
	var imagePath string

	cmd := &cobra.Command{
		Use:   "plan <target> <output>",
		Short: "Print the ffmpeg commands a run would execute without running them",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			resolution, fps, err := geometry.resolve(cmd.Context(), ctx, target)
			if err != nil {
				return err
			}
			cfg := ctx.config
			transcoder := ctx.transcoder()
			plan, err := transcoder.Plan(ffmpeg.PlanRequest{
				TargetPath: target,
				OutputPath: args[1],
				AudioPath:  audioPath,
				ImagePath:  imagePath,
				Resolution: resolution,
				FPS:        fps,
				SampleRate: cfg.Audio.SampleRate,
				Channels:   cfg.Audio.Channels,
			})
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(plan))
			for i, step := range plan {
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					displayLabel(step.Operation),
					ffmpeg.CommandLine(transcoder.Runner().Binary(), step.Args),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{rightColumn("#"), leftColumn("Operation"), leftColumn("Command")},
				rows,
				fmt.Sprintf("%d commands", len(rows)),
			))
			return nil
		},
	}
	geometry.register(cmd)
	cmd.Flags().StringVar(&audioPath, "audio", "", "Plan an audio replacement with this file")
	cmd.Flags().StringVar(&imagePath, "image", "", "Also plan compressing this image")
	return cmd
}
