// Package runlog carries the leveled progress messages of a report run.
//
// Every stage reports through a single [Func] callback. Messages carry a
// level prefix such as "[WARNING]" so that sinks can colour or route them:
//
//	log := runlog.New(runlog.Tee(runlog.Terminal(os.Stderr), transcript.Func()))
//	log.Warn("Row index %d out of bounds. Using last available row.", 7)
package runlog

import (
	"fmt"
	"strings"
)

// Level is the severity of a message.
type Level int

// Message levels, in increasing severity.
const (
	// LevelInfo reports progress.
	LevelInfo Level = iota
	// LevelSuccess reports a completed document or batch.
	LevelSuccess
	// LevelWarning reports a problem the run recovered from.
	LevelWarning
	// LevelError reports a problem that stopped a document or the run.
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "SUCCESS"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Prefix returns the bracketed tag that starts messages of this level.
func (l Level) Prefix() string {
	return "[" + l.String() + "]"
}

var levels = []Level{LevelInfo, LevelSuccess, LevelWarning, LevelError}

// ParseLevel splits a message into its level and the text after the
// prefix. Messages without a known prefix are LevelInfo and returned
// unchanged.
func ParseLevel(message string) (Level, string) {
	for _, l := range levels {
		if rest, ok := strings.CutPrefix(message, l.Prefix()); ok {
			return l, strings.TrimPrefix(rest, " ")
		}
	}
	return LevelInfo, message
}

// Func receives one complete message per call.
type Func func(message string)

// Discard drops every message.
func Discard(string) {}

// Tee returns a Func that forwards each message to every non-nil fn in order.
func Tee(fns ...Func) Func {
	var sinks []Func
	for _, fn := range fns {
		if fn != nil {
			sinks = append(sinks, fn)
		}
	}
	return func(message string) {
		for _, fn := range sinks {
			fn(message)
		}
	}
}

// Logger formats prefixed messages and hands them to a Func. A nil
// *Logger discards everything.
type Logger struct {
	fn Func
}

// New returns a Logger writing to fn. A nil fn discards.
func New(fn Func) *Logger {
	if fn == nil {
		fn = Discard
	}
	return &Logger{fn: fn}
}

// Func returns the underlying callback.
func (l *Logger) Func() Func {
	if l == nil {
		return Discard
	}
	return l.fn
}

// Log formats a message at the given level.
func (l *Logger) Log(level Level, format string, args ...any) {
	if l == nil {
		return
	}
	l.fn(level.Prefix() + " " + fmt.Sprintf(format, args...))
}

// Info logs an [INFO] message.
func (l *Logger) Info(format string, args ...any) { l.Log(LevelInfo, format, args...) }

// Success logs a [SUCCESS] message.
func (l *Logger) Success(format string, args ...any) { l.Log(LevelSuccess, format, args...) }

// Warn logs a [WARNING] message.
func (l *Logger) Warn(format string, args ...any) { l.Log(LevelWarning, format, args...) }

// Error logs an [ERROR] message.
func (l *Logger) Error(format string, args ...any) { l.Log(LevelError, format, args...) }
