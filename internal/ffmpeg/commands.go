package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"
)

// VerbosityPrefix precedes every ffmpeg argument list.
var VerbosityPrefix = []string{"-hide_banner", "-loglevel", "error"}

// Operation names used for logging and metrics labels.
const (
	OpExtractFrames = "extract_frames"
	OpCompressImage = "compress_image"
	OpMergeVideo    = "merge_video"
	OpReadAudio     = "read_audio"
	OpRestoreAudio  = "restore_audio"
	OpReplaceAudio  = "replace_audio"
)

// FrameFilter builds the -vf chain for frame extraction.
func FrameFilter(trim TrimWindow, resolution string, fps float64) string {
	var b strings.Builder
	for _, part := range optionalClause(trim.Start, func(frame int) []string {
		return []string{"trim=start_frame=" + strconv.Itoa(frame) + ":"}
	}) {
		b.WriteString(part)
	}
	for _, part := range optionalClause(trim.End, func(frame int) []string {
		return []string{"trim=end_frame=" + strconv.Itoa(frame) + ":"}
	}) {
		b.WriteString(part)
	}
	b.WriteString("scale=" + resolution + ",fps=" + formatFloat(fps))
	return b.String()
}

// ExtractFramesArgs decodes targetPath into a numbered frame sequence at framesPattern.
func ExtractFramesArgs(s Settings, targetPath, framesPattern, resolution string, fps float64) []string {
	compression := CompressionFromQuality(s.TempFrameQuality, ScaleQScale)
	return []string{
		"-hwaccel", "auto",
		"-i", targetPath,
		"-q:v", strconv.Itoa(compression),
		"-pix_fmt", "rgb24",
		"-vf", FrameFilter(s.Trim, resolution, fps),
		"-vsync", "0",
		framesPattern,
	}
}

// CompressImageArgs re-encodes inputPath into outputPath at the output image quality.
func CompressImageArgs(s Settings, inputPath, outputPath string) []string {
	compression := CompressionFromQuality(s.OutputImageQuality, ScaleQScale)
	return []string{
		"-hwaccel", "auto",
		"-i", inputPath,
		"-q:v", strconv.Itoa(compression),
		"-y", outputPath,
	}
}

// MergeVideoArgs encodes the frame sequence at framesPattern into outputPath.
func MergeVideoArgs(s Settings, framesPattern, outputPath, resolution string, fps float64) ([]string, error) {
	encoder := s.OutputVideoEncoder
	args := []string{
		"-hwaccel", "auto",
		"-s", resolution,
		"-r", formatFloat(fps),
		"-i", framesPattern,
		"-c:v", string(encoder),
	}

	quality, err := encoderQualityArgs(encoder, s.OutputVideoQuality, s.OutputVideoPreset)
	if err != nil {
		return nil, err
	}
	args = append(args, quality...)

	return append(args,
		"-pix_fmt", "yuv420p",
		"-colorspace", "bt709",
		"-y", outputPath,
	), nil
}

func encoderQualityArgs(encoder VideoEncoder, quality int, preset Preset) ([]string, error) {
	switch family := encoder.Family(); family {
	case FamilyX26x:
		token, _ := PresetToken(preset, false)
		return []string{
			"-crf", strconv.Itoa(CompressionFromQuality(quality, ScaleCRF)),
			"-preset", token,
		}, nil
	case FamilyVP9:
		return []string{
			"-crf", strconv.Itoa(CompressionFromQuality(quality, ScaleVP9CRF)),
		}, nil
	case FamilyNVENC:
		args := []string{"-cq", strconv.Itoa(CompressionFromQuality(quality, ScaleCRF))}
		if token, ok := PresetToken(preset, true); ok {
			args = append(args, "-preset", token)
		}
		return args, nil
	default:
		return nil, Wrap(ErrConfiguration, OpMergeVideo, fmt.Sprintf("unsupported video encoder %q (family %s)", encoder, family), nil)
	}
}

// ReadAudioArgs decodes the audio of targetPath to raw s16le PCM on stdout.
func ReadAudioArgs(targetPath string, sampleRate, channels int) []string {
	return []string{
		"-i", targetPath,
		"-vn",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
		"-",
	}
}

// RestoreAudioArgs muxes the video of tempVideoPath with the trimmed audio of targetPath.
func RestoreAudioArgs(s Settings, tempVideoPath, targetPath, outputPath string, fps float64) []string {
	seconds := func(flag string) func(int) []string {
		return func(frame int) []string {
			return []string{flag, formatFloat(float64(frame) / fps)}
		}
	}

	args := []string{"-hwaccel", "auto", "-i", tempVideoPath}
	args = append(args, optionalClause(s.Trim.Start, seconds("-ss"))...)
	args = append(args, optionalClause(s.Trim.End, seconds("-to"))...)
	return append(args,
		"-i", targetPath,
		"-c", "copy",
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-shortest",
		"-y", outputPath,
	)
}

// ReplaceAudioArgs muxes the video of tempVideoPath with the whole of audioPath.
func ReplaceAudioArgs(tempVideoPath, audioPath, outputPath string) []string {
	return []string{
		"-hwaccel", "auto",
		"-i", tempVideoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-af", "apad",
		"-shortest",
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-y", outputPath,
	}
}

// CommandLine renders args with the verbosity prefix for display.
func CommandLine(binary string, args []string) string {
	parts := make([]string, 0, len(args)+len(VerbosityPrefix)+1)
	parts = append(parts, quoteArg(binary))
	for _, arg := range VerbosityPrefix {
		parts = append(parts, quoteArg(arg))
	}
	for _, arg := range args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}

func quoteArg(arg string) string {
	if arg == "" {
		return "''"
	}
	if strings.ContainsAny(arg, " \t\n'\"\\$`*?[]{}();&|<>#~") {
		return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
	}
	return arg
}
