package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"reframe/internal/ffmpeg"
	"reframe/internal/logging"
)

//go:embed sample_config.toml
var sampleConfig string

// FFmpeg names the external binaries.
type FFmpeg struct {
	Binary        string `toml:"binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Paths contains directory configuration.
type Paths struct {
	// TempDir holds the per-target workspaces. Empty selects the system temp directory.
	TempDir string `toml:"temp_dir"`
}

// Frames controls the temporary frame sequence.
type Frames struct {
	Quality int    `toml:"quality"`
	Format  string `toml:"format"`
}

// Image controls still image compression.
type Image struct {
	Quality int `toml:"quality"`
}

// Video controls the merged output video.
type Video struct {
	Encoder string `toml:"encoder"`
	Preset  string `toml:"preset"`
	Quality int    `toml:"quality"`
}

// Trim restricts processing to an inclusive frame range. Unset bounds are open.
type Trim struct {
	FrameStart *int `toml:"frame_start"`
	FrameEnd   *int `toml:"frame_end"`
}

// Audio controls raw PCM extraction.
type Audio struct {
	SampleRate int `toml:"sample_rate"`
	Channels   int `toml:"channels"`
}

// Pipeline controls the end-to-end run command.
type Pipeline struct {
	KeepTemp bool `toml:"keep_temp"`
}

// Metrics controls the Prometheus textfile export.
type Metrics struct {
	// Textfile is written after every command when set.
	Textfile string `toml:"textfile"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for reframe.
type Config struct {
	FFmpeg   FFmpeg   `toml:"ffmpeg"`
	Paths    Paths    `toml:"paths"`
	Frames   Frames   `toml:"frames"`
	Image    Image    `toml:"image"`
	Video    Video    `toml:"video"`
	Trim     Trim     `toml:"trim"`
	Audio    Audio    `toml:"audio"`
	Pipeline Pipeline `toml:"pipeline"`
	Metrics  Metrics  `toml:"metrics"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// FFmpegSettings converts the configuration into the immutable value the
// transcoder reads. Load has already validated encoder and preset names.
func (c *Config) FFmpegSettings() ffmpeg.Settings {
	encoder, err := ffmpeg.ParseVideoEncoder(c.Video.Encoder)
	if err != nil {
		encoder = ffmpeg.VideoEncoder(c.Video.Encoder)
	}
	preset, err := ffmpeg.ParsePreset(c.Video.Preset)
	if err != nil {
		preset = ffmpeg.Preset(c.Video.Preset)
	}
	return ffmpeg.Settings{
		TempFrameQuality:   c.Frames.Quality,
		OutputImageQuality: c.Image.Quality,
		OutputVideoQuality: c.Video.Quality,
		OutputVideoEncoder: encoder,
		OutputVideoPreset:  preset,
		Trim: ffmpeg.TrimWindow{
			Start: copyInt(c.Trim.FrameStart),
			End:   copyInt(c.Trim.FrameEnd),
		},
	}
}

// LogOptions returns the logger construction parameters.
func (c *Config) LogOptions() logging.Options {
	opts := logging.Options{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
	}
	if c.Logging.File != "" {
		opts.OutputPaths = []string{"stderr", c.Logging.File}
	}
	return opts
}

// FFmpegBinary returns the ffmpeg executable.
func (c *Config) FFmpegBinary() string {
	return c.FFmpeg.Binary
}

// FFprobeBinary returns the ffprobe executable used for media inspection.
func (c *Config) FFprobeBinary() string {
	return c.FFmpeg.FFprobeBinary
}

// EnsureDirectories creates the workspace root when one is configured.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.TempDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.TempDir, err)
	}
	return nil
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}
