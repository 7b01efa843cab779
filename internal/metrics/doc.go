// Package metrics defines the Prometheus collectors reframe updates while it
// drives ffmpeg. A CLI process is short-lived, so collectors are exported
// through a node_exporter textfile rather than an HTTP endpoint.
package metrics
