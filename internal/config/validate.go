package config

import (
	"errors"
	"fmt"

	"reframe/internal/ffmpeg"
	"reframe/internal/logging"
)

var supportedFrameFormats = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"bmp":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateQuality(); err != nil {
		return err
	}
	if err := c.validateFrames(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateTrim(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateQuality() error {
	checks := []struct {
		key   string
		value int
	}{
		{"frames.quality", c.Frames.Quality},
		{"image.quality", c.Image.Quality},
		{"video.quality", c.Video.Quality},
	}
	for _, check := range checks {
		if check.value < 0 || check.value > maxQuality {
			return fmt.Errorf("%s must be between 0 and %d", check.key, maxQuality)
		}
	}
	return nil
}

func (c *Config) validateFrames() error {
	if _, ok := supportedFrameFormats[c.Frames.Format]; !ok {
		return fmt.Errorf("frames.format: unsupported value %q (use jpg, png or bmp)", c.Frames.Format)
	}
	return nil
}

func (c *Config) validateVideo() error {
	if _, err := ffmpeg.ParseVideoEncoder(c.Video.Encoder); err != nil {
		return fmt.Errorf("video.encoder: %w", err)
	}
	if _, err := ffmpeg.ParsePreset(c.Video.Preset); err != nil {
		return fmt.Errorf("video.preset: %w", err)
	}
	return nil
}

// validateTrim rejects negative bounds only. An inverted window is allowed
// through; ffmpeg then produces no frames.
func (c *Config) validateTrim() error {
	if c.Trim.FrameStart != nil && *c.Trim.FrameStart < 0 {
		return errors.New("trim.frame_start must be >= 0")
	}
	if c.Trim.FrameEnd != nil && *c.Trim.FrameEnd < 0 {
		return errors.New("trim.frame_end must be >= 0")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.SampleRate <= 0 || c.Audio.SampleRate > maxAudioSampleRate {
		return fmt.Errorf("audio.sample_rate must be between 1 and %d", maxAudioSampleRate)
	}
	if c.Audio.Channels <= 0 || c.Audio.Channels > maxAudioChannels {
		return fmt.Errorf("audio.channels must be between 1 and %d", maxAudioChannels)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
