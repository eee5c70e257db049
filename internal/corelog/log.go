// Package corelog wraps charmbracelet/log with prefix, timestamp,
// caller reporting, and a string level, but hands back a *Logger value
// instead of mutating a package global, so a game.Round can carry its
// own logger and tests can run silent.
package corelog

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Logger is a thin, leveled wrapper around charmbracelet/log.
type Logger struct {
	l *log.Logger
}

// New builds a Logger writing to stdout with the given prefix and
// level ("debug", "info", "warn", "error"; defaults to "info").
func New(prefix, level string) *Logger {
	l := log.New(os.Stdout)
	l.SetPrefix(prefix)
	l.SetReportTimestamp(true)
	l.SetTimeFormat(time.DateTime)
	l.SetReportCaller(true)
	l.SetLevel(parseLevel(level))
	return &Logger{l: l}
}

// Discard returns a Logger that writes nowhere, for tests and library
// consumers that don't want engine trace output.
func Discard() *Logger {
	l := log.New(io.Discard)
	return &Logger{l: l}
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func (lg *Logger) Debug(format string, args ...any) { lg.logf(lg.l.Debugf, format, args) }
func (lg *Logger) Info(format string, args ...any)  { lg.logf(lg.l.Infof, format, args) }
func (lg *Logger) Warn(format string, args ...any)  { lg.logf(lg.l.Warnf, format, args) }
func (lg *Logger) Error(format string, args ...any) { lg.logf(lg.l.Errorf, format, args) }

func (lg *Logger) logf(fn func(string, ...any), format string, args []any) {
	if lg == nil || lg.l == nil {
		return
	}
	if len(args) == 0 {
		fn(format)
		return
	}
	fn(format, args...)
}
