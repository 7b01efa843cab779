// Package workspace manages the per-target temporary directories that hold
// extracted frames and the intermediate merged video.
//
// Every target gets <root>/reframe/<target stem>. A sibling lock file guards
// the directory so two runs on the same target cannot overwrite each other's
// frames.
package workspace
