package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	PixFmt       string `json:"pix_fmt"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	NBFrames     string `json:"nb_frames"`
	Duration     string `json:"duration"`
	SampleRate   string `json:"sample_rate"`
	Channels     int    `json:"channels"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// ErrNoVideoStream is returned when a target carries no video stream.
var ErrNoVideoStream = errors.New("no video stream")

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// PrimaryVideo returns the first video stream.
func (r Result) PrimaryVideo() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			return stream, true
		}
	}
	return Stream{}, false
}

// HasAudio reports whether any audio stream is present.
func (r Result) HasAudio() bool {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			return true
		}
	}
	return false
}

// Resolution returns the primary video size as WxH.
func (r Result) Resolution() (string, error) {
	video, ok := r.PrimaryVideo()
	if !ok {
		return "", ErrNoVideoStream
	}
	if video.Width <= 0 || video.Height <= 0 {
		return "", fmt.Errorf("invalid video size %dx%d", video.Width, video.Height)
	}
	return strconv.Itoa(video.Width) + "x" + strconv.Itoa(video.Height), nil
}

// FrameRate returns the primary video frame rate. r_frame_rate is preferred;
// avg_frame_rate is used when the former is missing or 0/0.
func (r Result) FrameRate() (float64, error) {
	video, ok := r.PrimaryVideo()
	if !ok {
		return 0, ErrNoVideoStream
	}
	for _, candidate := range []string{video.RFrameRate, video.AvgFrameRate} {
		if rate, ok := ParseRational(candidate); ok && rate > 0 {
			return rate, nil
		}
	}
	return 0, fmt.Errorf("unknown frame rate %q", video.RFrameRate)
}

// FrameCount returns nb_frames of the primary video, or 0 when unreported.
func (r Result) FrameCount() int {
	video, ok := r.PrimaryVideo()
	if !ok {
		return 0
	}
	count, err := strconv.Atoi(strings.TrimSpace(video.NBFrames))
	if err != nil || count < 0 {
		return 0
	}
	return count
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	cleaned := strings.TrimSpace(r.Format.Duration)
	if cleaned == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.NaN()
	}
	return parsed
}

// ParseRational parses ffprobe rationals such as "30000/1001" and plain numbers.
func ParseRational(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	num, den, found := strings.Cut(value, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	if !found {
		return n, true
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}
