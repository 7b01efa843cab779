// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// reframe uses it to discover the resolution, frame rate and audio presence
// of a target before building ffmpeg invocations, so callers may omit those
// values on the command line.
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
//
// Helper methods on Result pick the primary video stream and parse the
// rational frame rates ffprobe reports.
package ffprobe
