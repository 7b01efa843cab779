package logging

import (
	"log/slog"
	"strings"
	"time"
)

// Well-known structured keys shared across packages.
const (
	FieldComponent     = "component"
	FieldOperation     = "operation"
	FieldCorrelationID = "correlation_id"
	FieldEventType     = "event_type"
	FieldArgs          = "args"
)

type Attr = slog.Attr

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Float64(key string, value float64) Attr { return slog.Float64(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

// Error records err under "error". A nil error is rendered explicitly so a
// missing cause is visible in the output.
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// CommandArgs records an external tool argument list as one space-joined
// string, which keeps console output on a single line.
func CommandArgs(args []string) Attr {
	return slog.String(FieldArgs, strings.Join(args, " "))
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewComponentLogger tags logger with a component name. A nil logger
// yields a no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WithCorrelationID tags every record emitted through the returned logger.
func WithCorrelationID(logger *slog.Logger, id string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if id == "" {
		return logger
	}
	return logger.With(String(FieldCorrelationID, id))
}
