package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Invocation outcomes used as the status label.
const (
	StatusSuccess     = "success"
	StatusFailure     = "failure"
	StatusUnavailable = "unavailable"
)

// ffmpeg metrics
var (
	FFmpegInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reframe_ffmpeg_invocations_total",
			Help: "Total number of ffmpeg invocations",
		},
		[]string{"operation", "status"},
	)

	FFmpegInvocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reframe_ffmpeg_invocation_duration_seconds",
			Help:    "Wall clock duration of ffmpeg invocations",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 300, 900, 1800},
		},
		[]string{"operation"},
	)

	FFmpegProcessesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reframe_ffmpeg_processes_in_flight",
			Help: "Number of ffmpeg child processes currently running",
		},
	)

	AudioBytesExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reframe_audio_bytes_extracted_total",
			Help: "Raw PCM bytes read from ffmpeg stdout",
		},
	)
)

// Pipeline metrics
var (
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reframe_pipeline_runs_total",
			Help: "Total number of end-to-end pipeline runs",
		},
		[]string{"status"},
	)

	PipelineFramesExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reframe_pipeline_frames_extracted_total",
			Help: "Frames written to temporary workspaces",
		},
	)
)

// ObserveInvocation records the outcome of a single ffmpeg run.
func ObserveInvocation(operation, status string, elapsed time.Duration) {
	FFmpegInvocationsTotal.WithLabelValues(operation, status).Inc()
	FFmpegInvocationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// WriteTextfile atomically writes every registered collector to path in the
// Prometheus text exposition format.
func WriteTextfile(path string) error {
	return WriteTextfileFrom(prometheus.DefaultGatherer, path)
}

// WriteTextfileFrom writes the metrics of g to path.
func WriteTextfileFrom(g prometheus.Gatherer, path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
