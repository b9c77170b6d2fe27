// Package logger wraps log/slog behind the small interface shared by the
// blorbview commands, the HTTP server and the resource browser.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the logging interface passed through the application.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithGroup(name string) Logger
}

// Format selects the record encoding.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatText   Format = "text"
	FormatJSON   Format = "json"
)

// ParseFormat accepts "pretty", "text" or "json", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPretty, FormatText, FormatJSON:
		return f, nil
	case "":
		return FormatPretty, nil
	default:
		return "", fmt.Errorf("unknown log format %q (want pretty, text or json)", s)
	}
}

// ParseLevel converts a level name to slog.Level. An empty name means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

type slogLogger struct {
	logger *slog.Logger
}

// New returns a Logger writing records of at least level to w.
func New(w io.Writer, format Format, level slog.Level) Logger {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch format {
	case FormatJSON:
		h = slog.NewJSONHandler(w, opts)
	case FormatText:
		h = slog.NewTextHandler(w, opts)
	default:
		h = NewPrettyHandler(w, opts)
	}
	return FromHandler(h)
}

// FromHandler wraps an existing slog handler.
func FromHandler(h slog.Handler) Logger {
	return &slogLogger{logger: slog.New(h)}
}

// FromFlags builds a Logger from the --log-format and --log-level values.
func FromFlags(w io.Writer, format, level string) (Logger, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return New(w, f, lvl), nil
}

// Default writes pretty records at info level to stderr.
func Default() Logger {
	return New(os.Stderr, FormatPretty, slog.LevelInfo)
}

// Discard drops every record.
func Discard() Logger {
	return FromHandler(slog.DiscardHandler)
}

// Err is the attribute used for errors in log records.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("err", "<nil>")
	}
	return slog.String("err", err.Error())
}

type loggerKey struct{}

// FromContext returns the Logger stored in ctx, or Default.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return l
	}
	return Default()
}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

func (l *slogLogger) WithGroup(name string) Logger {
	return &slogLogger{logger: l.logger.WithGroup(name)}
}
