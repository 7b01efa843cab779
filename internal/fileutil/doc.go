// Package fileutil moves finished outputs out of reframe workspaces, which
// often live on a different filesystem (tmpfs) than the destination.
package fileutil
