package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with the key-value call signature used
// throughout the price-consensus pipeline.
type Logger struct {
	logger zerolog.Logger
}

// Init builds a Logger from the logging section of the configuration:
// level filters events below it, format selects console ("text") or
// JSON rendering, and output directs writes to stdout, stderr, or a
// file path.
func Init(level, format, output string) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	writer := os.Stdout
	switch output {
	case "stderr":
		writer = os.Stderr
	case "stdout", "":
	default:
		file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, err
		}
		return &Logger{logger: buildWriterLogger(format, file).Level(lvl)}, nil
	}

	return &Logger{logger: buildWriterLogger(format, writer).Level(lvl)}, nil
}

func buildWriterLogger(format string, writer *os.File) zerolog.Logger {
	if strings.ToLower(format) == "text" {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        writer,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
	return zerolog.New(writer).With().Timestamp().Logger()
}

// Component derives a child logger tagged with a "component" field,
// so log lines from the scheduler, ingestors, and the debug API can be
// filtered without threading a name through every call site.
func (l *Logger) Component(name string) *Logger {
	return &Logger{logger: l.logger.With().Str("component", name).Logger()}
}

// Debug logs a debug-level event.
func (l *Logger) Debug(msg string, fields ...interface{}) {
	event := l.logger.Debug()
	addFields(event, fields...)
	event.Msg(msg)
}

// Info logs an info-level event.
func (l *Logger) Info(msg string, fields ...interface{}) {
	event := l.logger.Info()
	addFields(event, fields...)
	event.Msg(msg)
}

// Warn logs a warning-level event.
func (l *Logger) Warn(msg string, fields ...interface{}) {
	event := l.logger.Warn()
	addFields(event, fields...)
	event.Msg(msg)
}

// Error logs an error-level event.
func (l *Logger) Error(msg string, fields ...interface{}) {
	event := l.logger.Error()
	addFields(event, fields...)
	event.Msg(msg)
}

// Fatal logs a fatal-level event and exits the process.
func (l *Logger) Fatal(msg string, fields ...interface{}) {
	event := l.logger.Fatal()
	addFields(event, fields...)
	event.Msg(msg)
}

// ZerologLogger returns the underlying zerolog.Logger, for callers that
// need to pass it to a library expecting one directly (e.g. an HTTP
// server's request logging middleware).
func (l *Logger) ZerologLogger() zerolog.Logger {
	return l.logger
}

// addFields interprets fields as alternating string keys and values,
// skipping a trailing unpaired argument.
func addFields(event *zerolog.Event, fields ...interface{}) {
	for i := 0; i < len(fields)-1; i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		event.Interface(key, fields[i+1])
	}
}
