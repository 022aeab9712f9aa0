// Package log is a thin wrapper over slog that stamps every record with
// the emitting component.
package log

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with a component attribute.
type Logger struct {
	*slog.Logger
}

// New creates a text logger writing to stdout at the given level.
func New(level slog.Level, component string) *Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler).With(FieldComponent, component)}
}

// SetDefault installs the logger as the process default, so packages using
// slog directly inherit the handler.
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}
