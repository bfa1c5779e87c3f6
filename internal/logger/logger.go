package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Fields carries structured key/value pairs attached to a log event.
type Fields = map[string]interface{}

// Logger wraps zerolog.Logger and provides structured logging capabilities.
type Logger struct {
	zlog zerolog.Logger
}

// New creates a Logger for the given environment writing to stdout.
// Development gets colored console output at debug level, every other
// environment gets JSON at info level.
func New(env string) *Logger {
	return NewWithOutput(env, os.Stdout)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(env string, out io.Writer) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if env == "development" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(out).
		Level(levelFor(env)).
		With().
		Timestamp().
		Logger()

	return &Logger{zlog: zlog}
}

func levelFor(env string) zerolog.Level {
	switch env {
	case "development":
		return zerolog.DebugLevel
	case "test":
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// Debug logs a debug message with optional fields.
func (l *Logger) Debug(msg string, fields Fields) {
	withFields(l.zlog.Debug(), fields).Msg(msg)
}

// Info logs an info message with optional fields.
func (l *Logger) Info(msg string, fields Fields) {
	withFields(l.zlog.Info(), fields).Msg(msg)
}

// Warn logs a warning message with optional fields.
func (l *Logger) Warn(msg string, fields Fields) {
	withFields(l.zlog.Warn(), fields).Msg(msg)
}

// Error logs an error message with an error and optional fields.
func (l *Logger) Error(msg string, err error, fields Fields) {
	withFields(l.zlog.Error().Err(err), fields).Msg(msg)
}

// Fatal logs a fatal message and exits the application.
func (l *Logger) Fatal(msg string, err error, fields Fields) {
	withFields(l.zlog.Fatal().Err(err), fields).Msg(msg)
}

// With creates a child logger with additional context fields.
func (l *Logger) With(fields Fields) *Logger {
	ctx := l.zlog.With()
	for key, value := range fields {
		ctx = ctx.Interface(key, value)
	}
	return &Logger{zlog: ctx.Logger()}
}

// WithRequestID creates a child logger with a request ID field.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		zlog: l.zlog.With().Str("request_id", requestID).Logger(),
	}
}

// WithComponent creates a child logger tagged with the emitting component,
// e.g. "listings_client" or "property_service".
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		zlog: l.zlog.With().Str("component", name).Logger(),
	}
}

// Zerolog returns the underlying zerolog.Logger.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zlog
}

func withFields(event *zerolog.Event, fields Fields) *zerolog.Event {
	for key, value := range fields {
		event = event.Interface(key, value)
	}
	return event
}
