// Package logging provides subsystem-tagged diagnostics on top of log/slog.
//
// Diagnostics are separate from the progress log the listener writes into the
// host output directory: they describe what the bridge itself is doing
// (requests, configuration, process handling) and go to stderr.
//
//	logging.InitForCLI(logging.LevelDebug, os.Stderr)
//	logging.Info("Session", "using suite %s", name)
//	logging.Error("Host", err, "failed to interrupt host process %d", pid)
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// LogLevel defines the severity of the log entry.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes LogLevel satisfy the fmt.Stringer interface.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel converts a flag value ("debug", "info", "warn", "error").
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

var defaultLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// InitForCLI routes diagnostics at or above level to output.
func InitForCLI(level LogLevel, output io.Writer) {
	handler := slog.NewTextHandler(output, &slog.HandlerOptions{Level: level.SlogLevel()})
	defaultLogger = slog.New(handler)
}

// WithAttrs adds attributes (e.g. a session id) to every later record.
func WithAttrs(args ...any) {
	defaultLogger = defaultLogger.With(args...)
}

func logf(level slog.Level, subsystem string, err error, format string, args ...any) {
	attrs := []any{"subsystem", subsystem}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
	}
	defaultLogger.Log(context.Background(), level, fmt.Sprintf(format, args...), attrs...)
}

func Debug(subsystem, format string, args ...any) {
	logf(slog.LevelDebug, subsystem, nil, format, args...)
}

func Info(subsystem, format string, args ...any) {
	logf(slog.LevelInfo, subsystem, nil, format, args...)
}

func Warn(subsystem, format string, args ...any) {
	logf(slog.LevelWarn, subsystem, nil, format, args...)
}

func Error(subsystem string, err error, format string, args ...any) {
	logf(slog.LevelError, subsystem, err, format, args...)
}
