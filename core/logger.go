package core

import (
	"fmt"
	"log"
	"strings"
)

// Logger is the structured logging sink used by runners, the page and its
// diagnostics. Adapt it to any logging backend.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field is one key/value attached to a log line.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// DefaultLogger writes through the standard log package, so log.SetOutput
// decides where lines go.
type DefaultLogger struct {
	// Prefix is prepended to every message, e.g. "[pizzeria]".
	Prefix string
}

func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{}
}

func (l *DefaultLogger) Debug(msg string, fields ...Field) { l.write("DEBUG", msg, fields) }
func (l *DefaultLogger) Info(msg string, fields ...Field)  { l.write("INFO", msg, fields) }
func (l *DefaultLogger) Warn(msg string, fields ...Field)  { l.write("WARN", msg, fields) }
func (l *DefaultLogger) Error(msg string, fields ...Field) { l.write("ERROR", msg, fields) }

func (l *DefaultLogger) write(level, msg string, fields []Field) {
	log.Println(formatLine(l.Prefix, level, msg, fields))
}

// formatLine renders "prefix [LEVEL] msg {k: v, k2: v2}".
func formatLine(prefix, level, msg string, fields []Field) string {
	var b strings.Builder
	if prefix != "" {
		b.WriteString(prefix)
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "[%s] %s", level, msg)
	if len(fields) == 0 {
		return b.String()
	}
	b.WriteString(" {")
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", f.Key, f.Value)
	}
	b.WriteByte('}')
	return b.String()
}

// NoOpLogger drops everything. It is the default for runners and the
// interactive terminal, where stderr would corrupt the screen.
type NoOpLogger struct{}

func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (l *NoOpLogger) Debug(msg string, fields ...Field) {}
func (l *NoOpLogger) Info(msg string, fields ...Field)  {}
func (l *NoOpLogger) Warn(msg string, fields ...Field)  {}
func (l *NoOpLogger) Error(msg string, fields ...Field) {}
