// Package logging builds the slog loggers used by reframe.
//
// Two output formats are supported: "console", a compact key=value layout
// meant for terminals, and "json" for log shippers. Component loggers carry a
// standard component attribute so ffmpeg diagnostics can be told apart from
// pipeline and CLI messages.
package logging
