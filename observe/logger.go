package observe

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Logger is the structured logging surface the runtime components write to.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging is best-effort and must not panic.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)
	WithTool(meta ToolMeta) Logger
}

// ExtendedLogger names the Logger-plus-WithTool surface for callers that
// need the scoping capability spelled out.
type ExtendedLogger interface {
	Logger
	WithTool(meta ToolMeta) Logger
}

// Field is one structured log attribute.
type Field struct {
	Key   string
	Value any
}

// LogLevel orders log severities for filtering.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLogLevel maps a level name to its LogLevel. Unknown names fall
// back to info.
func ParseLogLevel(s string) LogLevel {
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

func (l LogLevel) String() string {
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

var redactedKeys = func() map[string]bool {
	m := make(map[string]bool, len(RedactedFields))
	for _, k := range RedactedFields {
		m[k] = true
	}
	return m
}()

// jsonLogger writes one JSON object per line with level filtering and
// sensitive-field redaction.
type jsonLogger struct {
	level LogLevel
	bound map[string]any

	mu     *sync.Mutex
	writer io.Writer
}

// NewLogger creates a JSON line logger writing to stderr.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter creates a JSON line logger writing to w.
func NewLoggerWithWriter(level string, w io.Writer) Logger {
	return &jsonLogger{
		level:  ParseLogLevel(level),
		mu:     new(sync.Mutex),
		writer: w,
	}
}

// NopLogger returns a logger that discards everything.
func NopLogger() Logger {
	return &noopLogger{}
}

// WithTool returns a logger whose entries carry the tool's identity.
// The returned logger shares the parent's writer and level.
func (l *jsonLogger) WithTool(meta ToolMeta) Logger {
	bound := make(map[string]any, len(l.bound)+5)
	for k, v := range l.bound {
		bound[k] = v
	}
	bound["tool.id"] = meta.ToolID()
	bound["tool.name"] = meta.Name
	if meta.Namespace != "" {
		bound["tool.namespace"] = meta.Namespace
	}
	if meta.Operation != "" {
		bound["tool.operation"] = meta.Operation
	}
	if meta.Version != "" {
		bound["tool.version"] = meta.Version
	}

	return &jsonLogger{
		level:  l.level,
		bound:  bound,
		mu:     l.mu,
		writer: l.writer,
	}
}

func (l *jsonLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.emit(LevelInfo, msg, fields)
}

func (l *jsonLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.emit(LevelWarn, msg, fields)
}

func (l *jsonLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.emit(LevelError, msg, fields)
}

func (l *jsonLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.emit(LevelDebug, msg, fields)
}

func (l *jsonLogger) emit(level LogLevel, msg string, fields []Field) {
	if level < l.level {
		return
	}

	entry := make(map[string]any, len(l.bound)+len(fields)+3)
	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg
	for k, v := range l.bound {
		entry[k] = v
	}
	for _, f := range fields {
		if redactedKeys[f.Key] {
			entry[f.Key] = "[REDACTED]"
		} else {
			entry[f.Key] = f.Value
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		// An unserializable field value drops the whole entry.
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer.Write(data)
	l.writer.Write([]byte("\n"))
}

var _ ExtendedLogger = (*jsonLogger)(nil)

// noopLogger discards every entry.
type noopLogger struct{}

func (l *noopLogger) Info(ctx context.Context, msg string, fields ...Field)  {}
func (l *noopLogger) Warn(ctx context.Context, msg string, fields ...Field)  {}
func (l *noopLogger) Error(ctx context.Context, msg string, fields ...Field) {}
func (l *noopLogger) Debug(ctx context.Context, msg string, fields ...Field) {}
func (l *noopLogger) WithTool(meta ToolMeta) Logger                          { return l }
