package config

const (
	defaultConfigPath         = "~/.config/reframe/config.toml"
	projectConfigName         = "reframe.toml"
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultFrameQuality       = 100
	defaultFrameFormat        = "jpg"
	defaultImageQuality       = 80
	defaultVideoEncoder       = "libx264"
	defaultVideoPreset        = "veryfast"
	defaultVideoQuality       = 80
	defaultAudioSampleRate    = 48000
	defaultAudioChannels      = 2
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	envFFmpegBinary           = "REFRAME_FFMPEG"
	envFFprobeBinary          = "REFRAME_FFPROBE"
	maxQuality                = 100
	maxAudioChannels          = 8
	maxAudioSampleRate        = 384000
	defaultPipelineKeepTemp   = false
	defaultMetricsTextfileDir = ""
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		FFmpeg: FFmpeg{
			Binary:        defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Frames: Frames{
			Quality: defaultFrameQuality,
			Format:  defaultFrameFormat,
		},
		Image: Image{
			Quality: defaultImageQuality,
		},
		Video: Video{
			Encoder: defaultVideoEncoder,
			Preset:  defaultVideoPreset,
			Quality: defaultVideoQuality,
		},
		Audio: Audio{
			SampleRate: defaultAudioSampleRate,
			Channels:   defaultAudioChannels,
		},
		Pipeline: Pipeline{
			KeepTemp: defaultPipelineKeepTemp,
		},
		Metrics: Metrics{
			Textfile: defaultMetricsTextfileDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
