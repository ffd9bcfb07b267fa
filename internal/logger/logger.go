package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// AppName is attached to every record
const AppName = "task_manager"

type ctxKey struct{}

var defaultLogger *slog.Logger

// Init sets up the process logger on stdout. json selects the JSON handler, text otherwise.
func Init(level string, json bool) {
	InitWithWriter(os.Stdout, level, json)
}

// InitWithWriter is Init with an explicit sink
func InitWithWriter(w io.Writer, level string, json bool) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if json {
		h = slog.NewJSONHandler(w, opts)
	}

	defaultLogger = slog.New(h).With("app", AppName)
	slog.SetDefault(defaultLogger)
}

// Discard drops everything below error and writes nothing. Used by tests.
func Discard() {
	InitWithWriter(io.Discard, "error", false)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func Get() *slog.Logger {
	if defaultLogger == nil {
		Init("info", false)
	}
	return defaultLogger
}

// NewContext returns a copy of ctx carrying l, see WithContext
func NewContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// WithContext returns the request scoped logger stored by NewContext,
// falling back to the process logger
func WithContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return Get()
	}
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return Get()
}

func With(args ...any) *slog.Logger { return Get().With(args...) }

func Debug(msg string, args ...any) { Get().Debug(msg, args...) }
func Info(msg string, args ...any)  { Get().Info(msg, args...) }
func Warn(msg string, args ...any)  { Get().Warn(msg, args...) }
func Error(msg string, args ...any) { Get().Error(msg, args...) }

// Fatal logs at error level and exits with status 1
func Fatal(msg string, args ...any) {
	Get().Error(msg, args...)
	os.Exit(1)
}
