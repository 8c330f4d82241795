// Package logging provides structured logging for the compile pass,
// built on log/slog the way this codebase wraps slog behind a small
// typed logger rather than calling it directly at call sites.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

type contextKey string

const contextKeyLogger contextKey = "logger"

// Logger wraps slog.Logger with compiler-specific With* helpers.
type Logger struct {
	logger *slog.Logger
}

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// Output is where logs are written (default: os.Stdout).
	Output io.Writer
	// Pretty enables human-readable text output (default: false for JSON).
	Pretty bool
	// IncludeCaller includes source location in logs.
	IncludeCaller bool
}

// DefaultConfig returns JSON logging at info level to stdout.
func DefaultConfig() Config {
	return Config{Level: "info", Output: os.Stdout}
}

// New creates a Logger from cfg.
func New(cfg Config) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level), AddSource: cfg.IncludeCaller}

	var handler slog.Handler
	if cfg.Pretty {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	return &Logger{logger: slog.New(handler)}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithContext attaches l to ctx.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKeyLogger, l)
}

// FromContext retrieves the logger stashed in ctx, or a default logger
// if none was attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(contextKeyLogger).(*Logger); ok {
		return l
	}
	return New(DefaultConfig())
}

// WithRunID adds the compile run's ID to the logger's fields.
func (l *Logger) WithRunID(runID string) *Logger {
	return &Logger{logger: l.logger.With(slog.String("run_id", runID))}
}

// WithGraph adds the node count of the graph being compiled.
func (l *Logger) WithGraph(nodeCount int) *Logger {
	return &Logger{logger: l.logger.With(slog.Int("graph_nodes", nodeCount))}
}

// WithNode adds the name of the node currently being compiled.
func (l *Logger) WithNode(name string) *Logger {
	return &Logger{logger: l.logger.With(slog.String("node", name))}
}

// WithForm adds a serialized form code to the logger's fields.
func (l *Logger) WithForm(code string) *Logger {
	return &Logger{logger: l.logger.With(slog.String("form", code))}
}

// WithField adds an arbitrary field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With(slog.Any(key, value))}
}

// WithError adds an error field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{logger: l.logger.With(slog.Any("error", err))}
}

func (l *Logger) Debug(msg string) { l.logger.Debug(msg) }
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *Logger) Info(msg string) { l.logger.Info(msg) }
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(msg string) { l.logger.Warn(msg) }
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(msg string) { l.logger.Error(msg) }
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

// Fatal logs at error level and exits the process.
func (l *Logger) Fatal(msg string) {
	l.logger.Error(msg)
	os.Exit(1)
}

// GetSlogLogger returns the underlying slog.Logger for advanced use.
func (l *Logger) GetSlogLogger() *slog.Logger {
	return l.logger
}
