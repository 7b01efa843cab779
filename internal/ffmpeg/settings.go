package ffmpeg

// FrameNumberTemplate is the printf-style numbering used for temporary frames.
const FrameNumberTemplate = "%04d"

// TrimWindow restricts processing to an inclusive frame range. A nil bound
// is open ended. Inverted windows are passed to ffmpeg unchanged.
type TrimWindow struct {
	Start *int
	End   *int
}

// Settings is the immutable configuration every transcoding operation reads.
// It is copied by value into a Transcoder; later changes to the caller's copy
// have no effect.
type Settings struct {
	TempFrameQuality   int
	OutputImageQuality int
	OutputVideoQuality int
	OutputVideoEncoder VideoEncoder
	OutputVideoPreset  Preset
	Trim               TrimWindow
}

// DefaultSettings mirrors the configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		TempFrameQuality:   100,
		OutputImageQuality: 80,
		OutputVideoQuality: 80,
		OutputVideoEncoder: EncoderLibx264,
		OutputVideoPreset:  PresetVeryfast,
	}
}

// PathResolver computes the temporary locations derived from a target path.
type PathResolver interface {
	FramesPattern(targetPath, template string) string
	OutputVideoPath(targetPath string) string
}

// IntPtr is a small helper for building trim windows.
func IntPtr(v int) *int {
	return &v
}
