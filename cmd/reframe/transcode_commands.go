package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"reframe/internal/ffmpeg"
)

func newTranscodeCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newExtractFramesCommand(ctx),
		newCompressImageCommand(ctx),
		newMergeVideoCommand(ctx),
		newReadAudioCommand(ctx),
		newRestoreAudioCommand(ctx),
		newReplaceAudioCommand(ctx),
	}
}

func newExtractFramesCommand(ctx *commandContext) *cobra.Command {
	var geometry geometryFlags
	cmd := &cobra.Command{
		Use:   "extract-frames <target>",
		Short: "Extract the trimmed, scaled frame sequence of a video into its workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			resolution, fps, err := geometry.resolve(cmd.Context(), ctx, target)
			if err != nil {
				return err
			}
			ws := ctx.resolver().For(target)
			release, err := claimWorkspace(ws)
			if err != nil {
				return err
			}
			defer release()
			if err := ws.Create(); err != nil {
				return err
			}
			if !ctx.transcoder().ExtractFrames(cmd.Context(), target, resolution, fps) {
				return operationFailed(ffmpeg.OpExtractFrames)
			}
			frames, err := ws.FramePaths()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d frames to %s\n", len(frames), ws.Dir())
			return nil
		},
	}
	geometry.register(cmd)
	return cmd
}

func newCompressImageCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "compress-image <path>...",
		Short: "Re-encode images in place at image.quality",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transcoder := ctx.transcoder()
			var failed []string
			for _, path := range args {
				if transcoder.CompressImage(cmd.Context(), path) {
					fmt.Fprintf(cmd.OutOrStdout(), "Compressed %s\n", path)
					continue
				}
				failed = append(failed, path)
			}
			if len(failed) > 0 {
				return fmt.Errorf("%w: %s", operationFailed(ffmpeg.OpCompressImage), strings.Join(failed, ", "))
			}
			return nil
		},
	}
}

func newMergeVideoCommand(ctx *commandContext) *cobra.Command {
	var geometry geometryFlags
	cmd := &cobra.Command{
		Use:   "merge-video <target>",
		Short: "Encode the workspace frames of a target into its temporary video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			resolution, fps, err := geometry.resolve(cmd.Context(), ctx, target)
			if err != nil {
				return err
			}
			ws := ctx.resolver().For(target)
			release, err := claimWorkspace(ws)
			if err != nil {
				return err
			}
			defer release()
			if !ctx.transcoder().MergeVideo(cmd.Context(), target, resolution, fps) {
				return operationFailed(ffmpeg.OpMergeVideo)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Merged video written to %s\n", ws.OutputVideoPath())
			return nil
		},
	}
	geometry.register(cmd)
	return cmd
}

func newReadAudioCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var sampleRate int
	var channels int

	cmd := &cobra.Command{
		Use:   "read-audio <target>",
		Short: "Decode the audio of a target to raw s16le PCM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config
			if sampleRate <= 0 {
				sampleRate = cfg.Audio.SampleRate
			}
			if channels <= 0 {
				channels = cfg.Audio.Channels
			}
			buffer, ok := ctx.transcoder().ReadAudioBuffer(cmd.Context(), args[0], sampleRate, channels)
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, "No audio available")
				return nil
			}
			if outputPath != "" {
				if err := os.WriteFile(outputPath, buffer, 0o644); err != nil {
					return fmt.Errorf("write pcm: %w", err)
				}
			}
			fmt.Fprintf(out, "Bytes:    %d\n", len(buffer))
			fmt.Fprintf(out, "Frames:   %d\n", buffer.Frames(channels))
			fmt.Fprintf(out, "Duration: %s\n", buffer.Duration(sampleRate, channels))
			if outputPath != "" {
				fmt.Fprintf(out, "Written:  %s\n", outputPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the PCM bytes to this file")
	cmd.Flags().IntVar(&sampleRate, "sample-rate", 0, "Sample rate in Hz (default audio.sample_rate)")
	cmd.Flags().IntVar(&channels, "channels", 0, "Channel count (default audio.channels)")
	return cmd
}

func newRestoreAudioCommand(ctx *commandContext) *cobra.Command {
	var geometry geometryFlags
	cmd := &cobra.Command{
		Use:   "restore-audio <target> <output>",
		Short: "Mux the temporary video with the trimmed original audio of target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, output := args[0], args[1]
			fps, err := geometry.resolveFPS(cmd.Context(), ctx, target)
			if err != nil {
				return err
			}
			if !ctx.transcoder().RestoreAudio(cmd.Context(), target, output, fps) {
				return operationFailed(ffmpeg.OpRestoreAudio)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().Float64Var(&geometry.fps, "fps", 0, "Frame rate used to convert trim frames to seconds (probed when omitted)")
	return cmd
}

func newReplaceAudioCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "replace-audio <target> <audio> <output>",
		Short: "Mux the temporary video with a different audio file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, audio, output := args[0], args[1], args[2]
			if !ctx.transcoder().ReplaceAudio(cmd.Context(), target, audio, output) {
				return operationFailed(ffmpeg.OpReplaceAudio)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}
}
