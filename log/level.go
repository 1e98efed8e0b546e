package log

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Level is the importance of a message. Higher levels are more verbose.
type Level int

const (
	NoneLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

var levelNames = [...]string{
	NoneLevel:  "none",
	FatalLevel: "fatal",
	ErrorLevel: "error",
	WarnLevel:  "warn",
	InfoLevel:  "info",
	DebugLevel: "debug",
}

func (l Level) String() string {
	if l < NoneLevel || l > DebugLevel {
		return ""
	}
	return levelNames[l]
}

// zapNone is above every level zap emits.
const zapNone zapcore.Level = 100

func (l Level) zap() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapNone
	}
}

// ParseLevel returns the level called name.
func ParseLevel(name string) (Level, error) {
	for l, n := range levelNames {
		if n == name {
			return Level(l), nil
		}
	}
	return NoneLevel, fmt.Errorf("invalid output level '%s'", name)
}

// levelChoices lists the level names from most to least verbose.
func levelChoices() string {
	names := make([]string, 0, len(levelNames))
	for l := DebugLevel; l >= NoneLevel; l-- {
		names = append(names, l.String())
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// parseScopedLevel splits one <scope>:<level> entry. A bare level applies
// to the default scope.
func parseScopedLevel(entry string) (string, Level, error) {
	pieces := strings.Split(entry, ":")
	if len(pieces) > 2 {
		return "", NoneLevel, fmt.Errorf("invalid output level format '%s'", entry)
	}
	scope := DefaultScopeName
	if len(pieces) == 2 {
		scope = pieces[0]
	}
	l, err := ParseLevel(pieces[len(pieces)-1])
	if err != nil {
		return "", NoneLevel, fmt.Errorf("invalid output level '%s'", entry)
	}
	return scope, l, nil
}

func entryScope(entry string) string {
	if i := strings.IndexByte(entry, ':'); i >= 0 {
		return entry[:i]
	}
	return DefaultScopeName
}

// setScopedLevel replaces the scope's entry in a comma-separated list of
// scoped levels, or appends one.
func setScopedLevel(list, scope string, level Level) string {
	entry := scope + ":" + level.String()
	var out []string
	replaced := false
	for _, e := range splitNonEmpty(list) {
		if entryScope(e) != scope {
			out = append(out, e)
			continue
		}
		if !replaced {
			out = append(out, entry)
			replaced = true
		}
	}
	if !replaced {
		out = append(out, entry)
	}
	return strings.Join(out, ",")
}

func getScopedLevel(list, scope string) (Level, error) {
	for _, e := range splitNonEmpty(list) {
		if entryScope(e) == scope {
			_, l, err := parseScopedLevel(e)
			return l, err
		}
	}
	return NoneLevel, fmt.Errorf("no level defined for scope '%s'", scope)
}

func splitNonEmpty(list string) []string {
	var out []string
	for _, s := range strings.Split(list, ",") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
