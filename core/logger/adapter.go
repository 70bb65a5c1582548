package logger

import (
	"io"

	"github.com/hyperterse/covidcol/core/infrastructure/logging"
)

// Re-export log level constants
const (
	LogLevelError = logging.LogLevelError
	LogLevelWarn  = logging.LogLevelWarn
	LogLevelInfo  = logging.LogLevelInfo
	LogLevelDebug = logging.LogLevelDebug
)

// SetLogLevel sets the global log level
func SetLogLevel(level int) {
	logging.SetLogLevel(level)
}

// GetLogLevel returns the current global log level
func GetLogLevel() int {
	return logging.GetLogLevel()
}

// SetTagFilter sets the tag filter
func SetTagFilter(filterStr string) {
	logging.SetTagFilter(filterStr)
}

// SetOutput redirects log output
func SetOutput(w io.Writer) {
	logging.SetOutput(w)
}

// SetLogFile enables log file streaming
func SetLogFile() (string, error) {
	return logging.SetLogFile()
}

// CloseLogFile closes the log file
func CloseLogFile() error {
	return logging.CloseLogFile()
}

// Logger wraps the zerolog-backed implementation behind a concrete type
type Logger struct {
	impl logging.Logger
}

// New creates a new logger instance with a tag
func New(tag string) *Logger {
	return &Logger{
		impl: logging.New(tag),
	}
}

// Error logs at ERROR level
func (l *Logger) Error(message string) {
	l.impl.Error(message)
}

// Errorf logs at ERROR level with formatting
func (l *Logger) Errorf(format string, args ...any) {
	l.impl.Errorf(format, args...)
}

// Warn logs at WARN level
func (l *Logger) Warn(message string) {
	l.impl.Warn(message)
}

// Warnf logs at WARN level with formatting
func (l *Logger) Warnf(format string, args ...any) {
	l.impl.Warnf(format, args...)
}

// Info logs at INFO level
func (l *Logger) Info(message string) {
	l.impl.Info(message)
}

// Infof logs at INFO level with formatting
func (l *Logger) Infof(format string, args ...any) {
	l.impl.Infof(format, args...)
}

// Success logs regardless of log level
func (l *Logger) Success(message string) {
	l.impl.Success(message)
}

// Successf logs regardless of log level
func (l *Logger) Successf(format string, args ...any) {
	l.impl.Successf(format, args...)
}

// Debug logs at DEBUG level
func (l *Logger) Debug(message string) {
	l.impl.Debug(message)
}

// Debugf logs at DEBUG level with formatting
func (l *Logger) Debugf(format string, args ...any) {
	l.impl.Debugf(format, args...)
}

// PrintError logs an error with a title
func (l *Logger) PrintError(title string, err error) {
	l.impl.PrintError(title, err)
}
