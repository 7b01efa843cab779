package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reframe/internal/ffmpeg"
)

func newPresetsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "Show encoder quality flags and preset mappings for the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := ctx.transcoder().Settings()
			out := cmd.OutOrStdout()

			encoderRows := make([][]string, 0, len(ffmpeg.VideoEncoders))
			for _, encoder := range ffmpeg.VideoEncoders {
				s := settings
				s.OutputVideoEncoder = encoder
				args, err := ffmpeg.MergeVideoArgs(s, "frames", "out", "1x1", 1)
				if err != nil {
					return err
				}
				marker := ""
				if encoder == settings.OutputVideoEncoder {
					marker = "*"
				}
				encoderRows = append(encoderRows, []string{
					marker,
					string(encoder),
					displayLabel(encoder.Family().String()),
					strings.Join(qualityArgs(args, encoder), " "),
				})
			}
			fmt.Fprintf(out, "Video quality %d, preset %s\n", settings.OutputVideoQuality, settings.OutputVideoPreset)
			fmt.Fprintln(out, renderTable(
				[]column{leftColumn(""), leftColumn("Encoder"), leftColumn("Family"), leftColumn("Quality flags")},
				encoderRows,
				"* configured encoder",
			))

			presetRows := make([][]string, 0, len(ffmpeg.Presets))
			for _, preset := range ffmpeg.Presets {
				software, _ := ffmpeg.PresetToken(preset, false)
				nvenc, ok := ffmpeg.PresetToken(preset, true)
				if !ok {
					nvenc = "-"
				}
				presetRows = append(presetRows, []string{displayLabel(string(preset)), software, nvenc})
			}
			fmt.Fprintln(out, renderTable(
				[]column{leftColumn("Preset"), leftColumn("x264/x265"), leftColumn("NVENC")},
				presetRows,
				"",
			))
			return nil
		},
	}
}

// qualityArgs returns the encoder-specific slice of a merge argument list:
// everything between "-c:v <encoder>" and "-pix_fmt".
func qualityArgs(args []string, encoder ffmpeg.VideoEncoder) []string {
	start, end := -1, len(args)
	for i, arg := range args {
		if arg == string(encoder) && i > 0 && args[i-1] == "-c:v" {
			start = i + 1
		}
		if arg == "-pix_fmt" && start >= 0 {
			end = i
			break
		}
	}
	if start < 0 {
		return nil
	}
	return args[start:end]
}
