package common

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// Severity represents log message severity levels
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger interface defines the logging contract for the decoder
type Logger interface {
	// Log logs a message with the specified severity
	Log(severity Severity, msg string)

	// Logf logs a formatted message with the specified severity
	Logf(severity Severity, format string, args ...interface{})

	// Error logs an error
	Error(err error)

	// Debug logs a debug message
	Debug(msg string)

	// Info logs an info message
	Info(msg string)

	// Warning logs a warning message
	Warning(msg string)
}

// LogrusLogger implements the Logger interface on top of a logrus logger.
// Every entry is tagged with the component that produced it.
type LogrusLogger struct {
	entry *log.Entry
}

// NewLogrusLogger wraps l. A nil l uses the logrus standard logger.
func NewLogrusLogger(l *log.Logger, component string) *LogrusLogger {
	if l == nil {
		l = log.StandardLogger()
	}
	return &LogrusLogger{entry: l.WithField("component", component)}
}

// NewLogrusLoggerWithWriter creates a logger writing plain text to w at the
// given minimum severity. Used by tests and by callers that want their own
// sink rather than the process wide logger.
func NewLogrusLoggerWithWriter(w io.Writer, minLevel Severity, component string) *LogrusLogger {
	l := log.New()
	l.SetOutput(w)
	l.SetFormatter(&log.TextFormatter{DisableColors: true, DisableTimestamp: true})
	l.SetLevel(LogrusLevel(minLevel))
	return NewLogrusLogger(l, component)
}

// LogrusLevel maps a Severity onto the matching logrus level.
func LogrusLevel(s Severity) log.Level {
	switch s {
	case SeverityDebug:
		return log.DebugLevel
	case SeverityInfo:
		return log.InfoLevel
	case SeverityWarning:
		return log.WarnLevel
	default:
		return log.ErrorLevel
	}
}

// Log logs a message with the specified severity
func (l *LogrusLogger) Log(severity Severity, msg string) {
	l.entry.Log(LogrusLevel(severity), msg)
}

// Logf logs a formatted message with the specified severity
func (l *LogrusLogger) Logf(severity Severity, format string, args ...interface{}) {
	l.Log(severity, fmt.Sprintf(format, args...))
}

// Error logs an error
func (l *LogrusLogger) Error(err error) {
	if err != nil {
		l.entry.Error(err.Error())
	}
}

// Debug logs a debug message
func (l *LogrusLogger) Debug(msg string) {
	l.entry.Debug(msg)
}

// Info logs an info message
func (l *LogrusLogger) Info(msg string) {
	l.entry.Info(msg)
}

// Warning logs a warning message
func (l *LogrusLogger) Warning(msg string) {
	l.entry.Warn(msg)
}

// NoOpLogger is a logger that doesn't log anything
type NoOpLogger struct{}

// NewNoOpLogger creates a new no-op logger
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Log does nothing
func (l *NoOpLogger) Log(severity Severity, msg string) {}

// Logf does nothing
func (l *NoOpLogger) Logf(severity Severity, format string, args ...interface{}) {}

// Error does nothing
func (l *NoOpLogger) Error(err error) {}

// Debug does nothing
func (l *NoOpLogger) Debug(msg string) {}

// Info does nothing
func (l *NoOpLogger) Info(msg string) {}

// Warning does nothing
func (l *NoOpLogger) Warning(msg string) {}
