package logger

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with a small field API so callers do not import
// zerolog directly. The optional collector aggregates repeated messages
// and ships them to a Publisher instead of flooding stdout.
type Logger struct {
	zl        zerolog.Logger
	collector *LogCollector
}

type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field          { return Field{Key: key, Value: value} }
func Int(key string, value int) Field         { return Field{Key: key, Value: value} }
func Int64(key string, value int64) Field     { return Field{Key: key, Value: value} }
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field       { return Field{Key: key, Value: value} }
func Strings(key string, value []string) Field {
	return Field{Key: key, Value: value}
}
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}
func Any(key string, value any) Field { return Field{Key: key, Value: value} }
func Error(err error) Field           { return Field{Key: "error", Value: err} }

func New(environment string) *Logger {
	level := zerolog.InfoLevel
	if environment == "development" {
		level = zerolog.DebugLevel
	}

	var zl zerolog.Logger
	if environment == "development" {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			Level(level).
			With().Timestamp().Logger()
	} else {
		zl = zerolog.New(os.Stdout).
			Level(level).
			With().Timestamp().Logger()
	}

	return &Logger{zl: zl}
}

// WithCollector attaches a collector; log lines at Info and below are
// aggregated there rather than written immediately.
func (l *Logger) WithCollector(c *LogCollector) *Logger {
	return &Logger{zl: l.zl, collector: c}
}

func (l *Logger) Debug(msg string, fields ...Field) {
	if l.collect(zerolog.DebugLevel, msg, fields) {
		return
	}
	l.emit(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...Field) {
	if l.collect(zerolog.InfoLevel, msg, fields) {
		return
	}
	l.emit(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.emit(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.emit(l.zl.Error(), msg, fields)
}

func (l *Logger) Fatal(msg string, fields ...Field) {
	l.emit(l.zl.Fatal(), msg, fields)
}

func (l *Logger) collect(level zerolog.Level, msg string, fields []Field) bool {
	if l.collector == nil {
		return false
	}
	l.collector.Add(level.String(), msg, callerLocation(3), fields)
	return true
}

func (l *Logger) emit(ev *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			ev = ev.Str(f.Key, v)
		case int:
			ev = ev.Int(f.Key, v)
		case int64:
			ev = ev.Int64(f.Key, v)
		case float64:
			ev = ev.Float64(f.Key, v)
		case bool:
			ev = ev.Bool(f.Key, v)
		case []string:
			ev = ev.Strs(f.Key, v)
		case time.Duration:
			ev = ev.Dur(f.Key, v)
		case error:
			ev = ev.Err(v)
		default:
			ev = ev.Interface(f.Key, v)
		}
	}
	ev.Msg(msg)
}

// callerLocation trims the build path down to the in-repo portion so
// aggregated log keys stay stable across machines.
func callerLocation(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	if idx := strings.LastIndex(file, "MacroPulse"); idx >= 0 {
		file = file[idx:]
	}
	return fmt.Sprintf("%s:%d", file, line)
}
