// Package main hosts the reframe CLI entrypoint and command graph.
//
// Each transcoding operation is exposed as its own subcommand so a single
// step can be rerun against a workspace, while "reframe run" chains them for
// a whole target. The command context resolves configuration once, builds
// the structured logger and flushes the Prometheus textfile when a command
// finishes.
//
// Keep this package lean: behaviour lives in internal/ffmpeg and
// internal/pipeline, and commands only parse flags and render results.
package main
