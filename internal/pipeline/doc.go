// Package pipeline runs the full reframe video flow against one target:
// lock and prepare the workspace, extract frames, hand them to an optional
// frame processor, merge them back into a video and restore or replace the
// audio track.
//
// Each run carries a uuid correlation id that is attached to every log line.
// When the audio step fails the merged video is still delivered without
// audio, so a target with no audio stream produces output instead of an
// error.
package pipeline
