package audit

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Field is a structured log field.
type Field struct {
	Key   string
	Value any
}

// Logger is a minimal structured logging interface.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: logging is best-effort and must not panic.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)
}

// Level represents a logging level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel parses a string log level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// jsonLogger writes one JSON object per line.
type jsonLogger struct {
	level  Level
	mu     sync.Mutex
	writer io.Writer
}

// NewLogger creates a structured logger writing to stderr.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter creates a structured logger with a custom writer.
func NewLoggerWithWriter(level string, w io.Writer) Logger {
	return &jsonLogger{level: ParseLevel(level), writer: w}
}

func (l *jsonLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(LevelInfo, msg, fields)
}

func (l *jsonLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(LevelWarn, msg, fields)
}

func (l *jsonLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(LevelError, msg, fields)
}

func (l *jsonLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.log(LevelDebug, msg, fields)
}

func (l *jsonLogger) log(level Level, msg string, fields []Field) {
	if level < l.level {
		return
	}

	entry := make(map[string]any, len(fields)+3)
	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg

	for _, f := range fields {
		if isRedactedField(f.Key) {
			entry[f.Key] = "[REDACTED]"
		} else {
			entry[f.Key] = f.Value
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return // drop malformed entries rather than fail the request path
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.writer.Write(data)
	_, _ = l.writer.Write([]byte("\n"))
}

// isRedactedField returns true for keys that must never reach the log.
func isRedactedField(key string) bool {
	switch key {
	case "token", "api_token", "api_key", "apiKey", "secret", "password", "credential", "credentials":
		return true
	}
	return false
}

// LogRecorder writes audit records through a Logger.
type LogRecorder struct {
	logger Logger
}

// NewLogRecorder creates a recorder backed by the given logger.
func NewLogRecorder(logger Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

// Record emits the record as a structured log entry.
func (r *LogRecorder) Record(ctx context.Context, rec Record) {
	fields := []Field{
		{Key: "audit.id", Value: rec.ID},
		{Key: "audit.event", Value: rec.Event},
		{Key: "subject", Value: rec.Subject},
		{Key: "dev_mode", Value: rec.DevMode},
	}
	if rec.Tool != "" {
		fields = append(fields, Field{Key: "tool", Value: rec.Tool})
	}
	if rec.Decision != "" {
		fields = append(fields, Field{Key: "decision", Value: rec.Decision})
	}
	if rec.Kind != "" {
		fields = append(fields, Field{Key: "kind", Value: rec.Kind})
	}
	if rec.Event == EventContextBuilt {
		fields = append(fields, Field{Key: "scope_count", Value: rec.ScopeCount})
	}
	if rec.TokenDigest != "" {
		fields = append(fields, Field{Key: "token_digest", Value: rec.TokenDigest})
	}

	if rec.Decision == DecisionDeny {
		r.logger.Warn(ctx, "authorization denied", fields...)
		return
	}
	r.logger.Info(ctx, "audit", fields...)
}

var _ Recorder = (*LogRecorder)(nil)
