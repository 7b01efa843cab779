// Package ffmpeg turns reframe settings into ffmpeg invocations and runs them.
//
// Command construction is kept separate from execution: the *Args builders
// are pure functions of a Settings value and their inputs, so identical
// settings always yield identical argument slices. The Transcoder pairs those
// builders with a Runner that owns the child process lifetime.
//
// Every operation blocks until ffmpeg exits. Failures are reported as a false
// result (or an absent audio buffer) plus a debug log line carrying ffmpeg's
// own stderr; nothing panics on ordinary transcoding failures.
package ffmpeg
