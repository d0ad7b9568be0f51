package logging

import (
	"fmt"
	"strings"
)

// Level orders log messages by severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel parses a level name. "warning" is accepted as an alias of "warn".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", s)
}

// Leveled drops messages below a minimum level and tags the rest with
// their level before passing them to the underlying Logger.
type Leveled struct {
	out Logger
	min Level
}

// NewLeveled wraps out. A nil out discards everything.
func NewLeveled(out Logger, min Level) *Leveled {
	if out == nil {
		out = NullLogger()
	}
	return &Leveled{out: out, min: min}
}

// Discard returns a Leveled logger that drops every message.
func Discard() *Leveled {
	return NewLeveled(NullLogger(), LevelError+1)
}

// Enabled reports whether messages at lvl are emitted.
func (l *Leveled) Enabled(lvl Level) bool {
	return lvl >= l.min
}

func (l *Leveled) Debug(values ...any) { l.emit(LevelDebug, values) }
func (l *Leveled) Info(values ...any)  { l.emit(LevelInfo, values) }
func (l *Leveled) Warn(values ...any)  { l.emit(LevelWarn, values) }
func (l *Leveled) Error(values ...any) { l.emit(LevelError, values) }

// Log and LogLine write at info level so a Leveled can stand in for any Logger.
func (l *Leveled) Log(values ...any)     { l.emit(LevelInfo, values) }
func (l *Leveled) LogLine(values ...any) { l.emit(LevelInfo, values) }

func (l *Leveled) emit(lvl Level, values []any) {
	if !l.Enabled(lvl) {
		return
	}
	tagged := make([]any, 0, len(values)+1)
	tagged = append(tagged, "["+lvl.String()+"]")
	tagged = append(tagged, values...)
	l.out.LogLine(tagged...)
}
