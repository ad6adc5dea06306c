package core

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Logger is the minimal leveled logging surface the service depends on.
// Arguments are alternating key/value pairs in the manner of structured
// loggers.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// NewLogrusLogger adapts a logrus logger to the service Logger interface.
// Key/value pairs become structured fields; a trailing unpaired argument is
// recorded under the "extra" key. A nil base constructs a JSON-formatted
// logrus logger.
func NewLogrusLogger(base logrus.FieldLogger) Logger {
	if base == nil {
		std := logrus.New()
		std.SetFormatter(&logrus.JSONFormatter{})
		base = std
	}
	return logrusLogger{base: base}
}

type logrusLogger struct {
	base logrus.FieldLogger
}

func (l logrusLogger) Debug(msg string, args ...any) { l.entry(args).Debug(msg) }
func (l logrusLogger) Info(msg string, args ...any)  { l.entry(args).Info(msg) }
func (l logrusLogger) Warn(msg string, args ...any)  { l.entry(args).Warn(msg) }
func (l logrusLogger) Error(msg string, args ...any) { l.entry(args).Error(msg) }

func (l logrusLogger) entry(args []any) *logrus.Entry {
	fields := make(logrus.Fields, len(args)/2+1)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields[key] = args[i+1]
	}
	if len(args)%2 == 1 {
		fields["extra"] = args[len(args)-1]
	}
	return l.base.WithFields(fields)
}
