package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Fields is an alias so callers don't need to import logrus directly.
type Fields = logrus.Fields

// Logger is a thin wrapper around a logrus entry carrying preset fields.
type Logger struct {
	entry *logrus.Entry
}

// NewLogger creates a Logger writing to stdout. Unknown levels fall back to info.
func NewLogger(level string, jsonFormat bool) *Logger {
	return newLogger(os.Stdout, level, jsonFormat)
}

// NewWithOutput creates a Logger writing to out.
func NewWithOutput(out io.Writer, level string, jsonFormat bool) *Logger {
	return newLogger(out, level, jsonFormat)
}

// Discard returns a Logger that drops everything. Used by tests.
func Discard() *Logger {
	return newLogger(io.Discard, "panic", false)
}

func newLogger(out io.Writer, level string, jsonFormat bool) *Logger {
	l := logrus.New()
	l.Out = out

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if jsonFormat {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			PadLevelText:  true,
		})
	}

	return &Logger{entry: logrus.NewEntry(l)}
}

// With returns a child Logger that adds fields to every message.
func (l *Logger) With(fields Fields) *Logger {
	return &Logger{entry: l.entry.WithFields(fields)}
}

// Debug logs a debug-level message.
func (l *Logger) Debug(msg string, fields ...Fields) {
	l.log(logrus.DebugLevel, msg, fields...)
}

// Info logs an info-level message.
func (l *Logger) Info(msg string, fields ...Fields) {
	l.log(logrus.InfoLevel, msg, fields...)
}

// Warn logs a warn-level message.
func (l *Logger) Warn(msg string, fields ...Fields) {
	l.log(logrus.WarnLevel, msg, fields...)
}

// Error logs an error-level message.
func (l *Logger) Error(msg string, fields ...Fields) {
	l.log(logrus.ErrorLevel, msg, fields...)
}

// Fatal logs a fatal-level message and exits the process.
func (l *Logger) Fatal(msg string, fields ...Fields) {
	l.log(logrus.FatalLevel, msg, fields...)
	os.Exit(1)
}

func (l *Logger) log(level logrus.Level, msg string, fields ...Fields) {
	entry := l.entry
	for _, f := range fields {
		entry = entry.WithFields(f)
	}
	entry.Log(level, msg)
}
