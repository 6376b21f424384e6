package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// LogLevel represents the severity of a log entry
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var slogLevels = [...]slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

func (l LogLevel) toSlog() slog.Level {
	if l < DebugLevel || l > ErrorLevel {
		return slog.LevelInfo
	}
	return slogLevels[l]
}

func (l LogLevel) String() string {
	return l.toSlog().String()
}

// ParseLogLevel parses a level name, falling back to InfoLevel
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger writes JSON entries through log/slog. Derived loggers share the
// handler and add attributes.
type Logger struct {
	logger *slog.Logger
	level  LogLevel
}

// NewLogger creates a JSON logger writing to output, or stderr when nil
func NewLogger(level LogLevel, output io.Writer) *Logger {
	if output == nil {
		output = os.Stderr
	}
	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level.toSlog()})
	return &Logger{logger: slog.New(handler), level: level}
}

// NopLogger discards everything
func NopLogger() *Logger {
	return &Logger{logger: slog.New(slog.DiscardHandler), level: ErrorLevel}
}

// Level returns the configured level
func (l *Logger) Level() LogLevel {
	return l.level
}

func (l *Logger) with(attrs ...any) *Logger {
	return &Logger{logger: l.logger.With(attrs...), level: l.level}
}

// WithField adds a field to every entry of the returned logger
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.with(slog.Any(key, value))
}

// WithFields adds fields in key order so entries are stable
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	return l.with(attrs...)
}

// WithError records err under "error"; a nil error returns l unchanged
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.with(slog.String("error", err.Error()))
}

func (l *Logger) Debug(message string) { l.logger.Debug(message) }
func (l *Logger) Info(message string)  { l.logger.Info(message) }
func (l *Logger) Warn(message string)  { l.logger.Warn(message) }
func (l *Logger) Error(message string) { l.logger.Error(message) }

type contextKey string

const (
	// PassIDKey is the context key for the resolution pass ID
	PassIDKey contextKey = "pass_id"
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
)

// WithPassID adds a resolution pass ID to the context
func WithPassID(ctx context.Context, passID string) context.Context {
	return context.WithValue(ctx, PassIDKey, passID)
}

// GetPassID retrieves the resolution pass ID from context
func GetPassID(ctx context.Context) string {
	passID, _ := ctx.Value(PassIDKey).(string)
	return passID
}

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// GetLogger retrieves the context logger, or a logger that discards
// everything when none was set
func GetLogger(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerKey).(*Logger); ok && logger != nil {
		return logger
	}
	return NopLogger()
}

// FromContext returns the context logger tagged with the pass ID, if any
func FromContext(ctx context.Context) *Logger {
	logger := GetLogger(ctx)
	if passID := GetPassID(ctx); passID != "" {
		logger = logger.WithField("pass_id", passID)
	}
	return logger
}
