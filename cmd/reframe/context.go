package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"reframe/internal/config"
	"reframe/internal/ffmpeg"
	"reframe/internal/logging"
	"reframe/internal/metrics"
	"reframe/internal/pipeline"
	"reframe/internal/workspace"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	logger *slog.Logger
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the logger once. stderr stands in for the "stderr"
// output path so tests can capture diagnostics.
func (c *commandContext) ensureLogger(stderr io.Writer) (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := cfg.LogOptions()
	if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
		if _, ok := logging.ParseLevel(*c.logLevelFlag); !ok {
			return nil, fmt.Errorf("--log-level: unsupported value %q", *c.logLevelFlag)
		}
		opts.Level = *c.logLevelFlag
	}
	opts.Stderr = stderr
	logger, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	c.logger = logger
	return logger, nil
}

func (c *commandContext) loggerValue() *slog.Logger {
	if c.logger == nil {
		return logging.NewNop()
	}
	return c.logger
}

func (c *commandContext) resolver() workspace.Resolver {
	return workspace.NewResolver(c.config.Paths.TempDir, c.config.Frames.Format)
}

func (c *commandContext) runner() *ffmpeg.Runner {
	return ffmpeg.NewRunner(c.config.FFmpegBinary(), c.loggerValue())
}

func (c *commandContext) transcoder() *ffmpeg.Transcoder {
	return ffmpeg.NewTranscoder(c.config.FFmpegSettings(), c.resolver(), c.runner(), c.loggerValue())
}

func (c *commandContext) prober() pipeline.Prober {
	return pipeline.FFprobeProber(c.config.FFprobeBinary())
}

// flushMetrics writes the textfile when one is configured. Errors are
// reported but never change the exit status.
func (c *commandContext) flushMetrics(stderr io.Writer) {
	if c.config == nil || c.config.Metrics.Textfile == "" {
		return
	}
	if err := metrics.WriteTextfile(c.config.Metrics.Textfile); err != nil {
		fmt.Fprintf(stderr, "warning: %v\n", err)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
