package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// NewJSONLogger creates a logger writing one JSON object per line
func NewJSONLogger(writer io.Writer, level Level) *StructuredLogger {
	return newStructuredLogger(writer, level, encodeJSON)
}

// NewTextLogger creates a logger writing key=value lines
func NewTextLogger(writer io.Writer, level Level) *StructuredLogger {
	return newStructuredLogger(writer, level, encodeText)
}

// New creates a logger for the given format; unknown formats fall back to JSON
func New(writer io.Writer, level Level, format Format) *StructuredLogger {
	if format == FormatText {
		return NewTextLogger(writer, level)
	}
	return NewJSONLogger(writer, level)
}

func newStructuredLogger(writer io.Writer, level Level, enc encoder) *StructuredLogger {
	return &StructuredLogger{
		out:    &syncWriter{w: writer},
		level:  &levelHolder{level: level},
		encode: enc,
	}
}

func (l *StructuredLogger) log(level Level, msg string, fields ...Field) {
	if level < l.GetLevel() {
		return
	}

	all := make([]Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	if err := l.encode(l.out.w, time.Now(), level, msg, all); err != nil {
		fmt.Fprintf(l.out.w, "[ERROR] failed to encode log entry: %v\n", err)
	}
}

// Debug logs a debug-level message
func (l *StructuredLogger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, fields...)
}

// Info logs an info-level message
func (l *StructuredLogger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, fields...)
}

// Warn logs a warning-level message
func (l *StructuredLogger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, fields...)
}

// Error logs an error-level message
func (l *StructuredLogger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, fields...)
}

// With creates a child logger sharing the writer and level of its parent
func (l *StructuredLogger) With(fields ...Field) Logger {
	newFields := make([]Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &StructuredLogger{
		out:    l.out,
		level:  l.level,
		encode: l.encode,
		fields: newFields,
	}
}

// SetLevel sets the minimum log level for this logger and its children
func (l *StructuredLogger) SetLevel(level Level) {
	l.level.mu.Lock()
	defer l.level.mu.Unlock()
	l.level.level = level
}

// GetLevel returns the current log level
func (l *StructuredLogger) GetLevel() Level {
	l.level.mu.RLock()
	defer l.level.mu.RUnlock()
	return l.level.level
}

func encodeJSON(w io.Writer, ts time.Time, level Level, msg string, fields []Field) error {
	entry := LogEntry{
		Time:    ts.Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}
	if len(fields) > 0 {
		entry.Fields = make(map[string]any, len(fields))
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func encodeText(w io.Writer, ts time.Time, level Level, msg string, fields []Field) error {
	var b strings.Builder
	fmt.Fprintf(&b, "time=%s level=%s msg=%q", ts.Format(time.RFC3339), level.String(), msg)
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%s", f.Key, formatTextValue(f.Value))
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func formatTextValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		if strings.ContainsAny(val, " \t\"=") || val == "" {
			return fmt.Sprintf("%q", val)
		}
		return val
	case fmt.Stringer:
		return formatTextValue(val.String())
	case []string:
		return formatTextValue(strings.Join(val, ","))
	default:
		return fmt.Sprintf("%v", val)
	}
}

var (
	defaultLogger Logger
	defaultMu     sync.RWMutex
	once          sync.Once
)

// DefaultLogger returns the global default logger (JSON on stderr, level from LOG_LEVEL)
func DefaultLogger() Logger {
	once.Do(func() {
		level := InfoLevel
		if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
			level = ParseLevel(levelStr)
		}
		defaultMu.Lock()
		if defaultLogger == nil {
			defaultLogger = NewJSONLogger(os.Stderr, level)
		}
		defaultMu.Unlock()
	})
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger sets the global default logger
func SetDefaultLogger(logger Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: logger,
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// End logs the operation at INFO with its duration
func (t *TimedOperation) End(extra ...Field) {
	fields := append(append([]Field{}, t.fields...), extra...)
	t.logger.Info(t.msg, append(fields, Latency(time.Since(t.start)))...)
}

// EndError logs the operation as an error with its duration
func (t *TimedOperation) EndError(err error) {
	fields := append([]Field{}, t.fields...)
	t.logger.Error(t.msg, append(fields, Latency(time.Since(t.start)), Error(err))...)
}
