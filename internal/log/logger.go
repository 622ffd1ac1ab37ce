// Package log wraps slog with nil checking, so components can log without
// caring whether a logger was configured.
package log

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"time"
)

// Logger is a wrapper around an slog.Logger. The zero value discards
// everything.
type Logger struct{ logger *slog.Logger }

// Wrap the slog logger.
func Wrap(logger *slog.Logger) Logger {
	return Logger{logger}
}

// Log is designed to build logging wrappers; it should not be called directly.
// See: https://pkg.go.dev/log/slog#hdr-Wrapping_output_methods
func (l Logger) Log(
	ctx context.Context,
	level slog.Level,
	msg string,
	attrs ...slog.Attr,
) {
	if l.logger == nil || !l.logger.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.AddAttrs(attrs...)
	_ = l.logger.Handler().Handle(ctx, r)
}

// Debug logs at debug level.
func (l Logger) Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.Log(ctx, slog.LevelDebug, msg, attrs...)
}

// Info logs at info level.
func (l Logger) Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.Log(ctx, slog.LevelInfo, msg, attrs...)
}

// Warn logs at warn level.
func (l Logger) Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.Log(ctx, slog.LevelWarn, msg, attrs...)
}

// Attrs is implemented by errors that carry their own log attributes.
type Attrs interface {
	Attrs() []slog.Attr
}

// Err logs an error with its message as the record message. If any error in
// the chain implements Attrs, its attributes are added to the record.
func (l Logger) Err(ctx context.Context, err error, attrs ...slog.Attr) {
	var a Attrs
	if errors.As(err, &a) {
		attrs = append(attrs, a.Attrs()...)
	}
	l.Log(ctx, slog.LevelError, err.Error(), attrs...)
}
