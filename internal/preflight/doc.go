// Package preflight provides readiness checks for the external tools and
// filesystem paths reframe depends on.
//
// The CLI "reframe check" command renders every result; "reframe run" calls
// RunAll first and refuses to start when a required check fails, so a
// missing ffmpeg is reported once instead of as a string of failed steps.
package preflight
