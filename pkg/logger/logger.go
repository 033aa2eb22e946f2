/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Level represents the severity level of log messages
type Level int

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case TraceLevel:
		return zerolog.TraceLevel
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel maps a flag value to a Level. Unknown values fall back to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return TraceLevel
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

// Config holds the logger configuration
type Config struct {
	Level     Level
	UseColor  bool
	JSON      bool
	Component string
}

// Logger represents the logger instance
type Logger struct {
	config Config
	zl     zerolog.Logger
}

// Default logger instance
var defaultLogger *Logger

// New builds a logger writing to w.
func New(config Config, w io.Writer) *Logger {
	l := &Logger{config: config}
	l.setOutput(w)
	return l
}

// Initialize sets up the default logger
func Initialize(config Config) error {
	if config.Level == TraceLevel {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}
	defaultLogger = New(config, os.Stderr)
	return nil
}

func (l *Logger) setOutput(w io.Writer) {
	sink := w
	if !l.config.JSON {
		sink = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    !l.config.UseColor,
			TimeFormat: time.DateTime,
		}
	}

	ctx := zerolog.New(sink).Level(l.config.Level.zerolog()).With().Timestamp()
	if l.config.Component != "" {
		ctx = ctx.Str("component", l.config.Component)
	}
	l.zl = ctx.Logger()
}

// Log writes a log message
func (l *Logger) Log(level Level, message string, fields ...Field) {
	if level < l.config.Level {
		return
	}

	ev := l.zl.WithLevel(level.zerolog())
	if ev == nil {
		return
	}

	// Caller info for debug and trace
	if level <= DebugLevel {
		ev = ev.Caller(2)
	}

	for _, field := range fields {
		switch v := field.Value.(type) {
		case string:
			ev = ev.Str(field.Key, v)
		case int:
			ev = ev.Int(field.Key, v)
		case int64:
			ev = ev.Int64(field.Key, v)
		case bool:
			ev = ev.Bool(field.Key, v)
		case []string:
			ev = ev.Strs(field.Key, v)
		default:
			ev = ev.Interface(field.Key, v)
		}
	}

	ev.Msg(message)
}

// Field represents a structured field in a log entry
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Strings creates a string slice field
func Strings(key string, value []string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates an int64 field
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field
func Err(err error) Field {
	return Field{Key: "error", Value: err.Error()}
}

// Convenience functions for default logger
func Trace(message string, fields ...Field) {
	if defaultLogger != nil {
		defaultLogger.Log(TraceLevel, message, fields...)
	}
}

func Debug(message string, fields ...Field) {
	if defaultLogger != nil {
		defaultLogger.Log(DebugLevel, message, fields...)
	}
}

func Info(message string, fields ...Field) {
	if defaultLogger != nil {
		defaultLogger.Log(InfoLevel, message, fields...)
	} else {
		// Fallback to stderr if logger not initialized
		_, _ = fmt.Fprintf(os.Stderr, "[INFO] precache: %s\n", message)
	}
}

func Warn(message string, fields ...Field) {
	if defaultLogger != nil {
		defaultLogger.Log(WarnLevel, message, fields...)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[WARN] precache: %s\n", message)
	}
}

func Error(message string, fields ...Field) {
	if defaultLogger != nil {
		defaultLogger.Log(ErrorLevel, message, fields...)
	}
}

// SetOutput sets the output writer for the logger
func SetOutput(w io.Writer) {
	if defaultLogger != nil {
		defaultLogger.setOutput(w)
	}
}
