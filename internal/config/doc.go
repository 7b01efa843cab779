// Package config loads, normalizes, and validates reframe configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the REFRAME_FFMPEG and REFRAME_FFPROBE environment
// fallbacks. Downstream packages never read the TOML structs directly: the
// transcoder receives an immutable ffmpeg.Settings from FFmpegSettings and
// the logger receives logging.Options from LogOptions.
package config
