package log

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"khetao.com/clikit/structured"
)

// Scope is a named logger. Each scope has its own output level, stack trace
// level and caller setting, all of which may change while it is in use.
type Scope struct {
	name        string
	nameToEmit  string
	description string
	callerSkip  int

	settings *scopeSettings

	// category overrides the level-derived category in console output.
	category Category

	labelKeys []string
	labels    map[string]any
}

// scopeSettings is shared between a scope and the copies made by
// WithLabels, so changing the level of a scope changes it for its copies.
type scopeSettings struct {
	outputLevel     atomic.Int32
	stackTraceLevel atomic.Int32
	logCallers      atomic.Bool
}

type handlerFunc func(level Level, scope *Scope, se *structured.Error, msg string)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Scope)

	// handlers are registered from init functions only.
	handlers []handlerFunc
)

func registerDefaultHandler(h handlerFunc) {
	handlers = append(handlers, h)
}

// RegisterScope returns the scope called name, creating it at info level on
// first use. Names may not contain colons, commas or periods.
func RegisterScope(name string, description string, callerSkip int) *Scope {
	if strings.ContainsAny(name, ":,.") {
		panic(fmt.Sprintf("scope name %s is invalid, it cannot contain colons, commas, or periods", name))
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if s, ok := registry[name]; ok {
		return s
	}
	s := &Scope{
		name:        name,
		description: description,
		callerSkip:  callerSkip,
		settings:    &scopeSettings{},
		labels:      make(map[string]any),
	}
	if name != DefaultScopeName {
		s.nameToEmit = name
	}
	s.SetOutputLevel(InfoLevel)
	s.SetStackTraceLevel(NoneLevel)
	registry[name] = s
	return s
}

func FindScope(name string) *Scope {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[name]
}

// Scopes returns a snapshot of all registered scopes.
func Scopes() map[string]*Scope {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make(map[string]*Scope, len(registry))
	for k, v := range registry {
		out[k] = v
	}
	return out
}

func (s *Scope) Fatal(args ...any)  { s.print(FatalLevel, args) }
func (s *Scope) Fatalf(args ...any) { s.printf(FatalLevel, args) }
func (s *Scope) FatalEnabled() bool { return s.enabled(FatalLevel) }

func (s *Scope) Error(args ...any)  { s.print(ErrorLevel, args) }
func (s *Scope) Errorf(args ...any) { s.printf(ErrorLevel, args) }
func (s *Scope) ErrorEnabled() bool { return s.enabled(ErrorLevel) }

func (s *Scope) Warn(args ...any)  { s.print(WarnLevel, args) }
func (s *Scope) Warnf(args ...any) { s.printf(WarnLevel, args) }
func (s *Scope) WarnEnabled() bool { return s.enabled(WarnLevel) }

func (s *Scope) Info(args ...any)  { s.print(InfoLevel, args) }
func (s *Scope) Infof(args ...any) { s.printf(InfoLevel, args) }
func (s *Scope) InfoEnabled() bool { return s.enabled(InfoLevel) }

func (s *Scope) Debug(args ...any)  { s.print(DebugLevel, args) }
func (s *Scope) Debugf(args ...any) { s.printf(DebugLevel, args) }
func (s *Scope) DebugEnabled() bool { return s.enabled(DebugLevel) }

// Success logs at info level in the success category.
func (s *Scope) Success(args ...any) {
	s.withCategory(CategorySuccess).print(InfoLevel, args)
}

func (s *Scope) Successf(args ...any) {
	s.withCategory(CategorySuccess).printf(InfoLevel, args)
}

func (s *Scope) enabled(l Level) bool {
	return s.GetOutputLevel() >= l
}

// print and printf take an optional *structured.Error as first argument.
func (s *Scope) print(l Level, args []any) {
	if !s.enabled(l) || len(args) == 0 {
		return
	}
	se, rest := splitStructured(args)
	s.dispatch(l, se, fmt.Sprint(rest...))
}

func (s *Scope) printf(l Level, args []any) {
	if !s.enabled(l) || len(args) == 0 {
		return
	}
	se, rest := splitStructured(args)
	var msg string
	switch len(rest) {
	case 0:
	case 1:
		msg = fmt.Sprint(rest[0])
	default:
		msg = fmt.Sprintf(fmt.Sprint(rest[0]), rest[1:]...)
	}
	s.dispatch(l, se, msg)
}

func (s *Scope) dispatch(l Level, se *structured.Error, msg string) {
	for _, h := range handlers {
		h(l, s, se, msg)
	}
}

func splitStructured(args []any) (*structured.Error, []any) {
	if se, ok := args[0].(*structured.Error); ok {
		return se, args[1:]
	}
	return nil, args
}

func (s *Scope) Name() string {
	return s.name
}

func (s *Scope) Description() string {
	return s.description
}

func (s *Scope) SetOutputLevel(l Level) {
	s.settings.outputLevel.Store(int32(l))
}

func (s *Scope) GetOutputLevel() Level {
	return Level(s.settings.outputLevel.Load())
}

func (s *Scope) SetStackTraceLevel(l Level) {
	s.settings.stackTraceLevel.Store(int32(l))
}

func (s *Scope) GetStackTraceLevel() Level {
	return Level(s.settings.stackTraceLevel.Load())
}

func (s *Scope) SetLogCallers(logCallers bool) {
	s.settings.logCallers.Store(logCallers)
}

func (s *Scope) GetLogCallers() bool {
	return s.settings.logCallers.Load()
}

func (s *Scope) clone() *Scope {
	out := *s
	out.labelKeys = append([]string(nil), s.labelKeys...)
	out.labels = make(map[string]any, len(s.labels))
	for k, v := range s.labels {
		out.labels[k] = v
	}
	return &out
}

func (s *Scope) withCategory(c Category) *Scope {
	out := s.clone()
	out.category = c
	return out
}

// WithLabels returns a copy of the scope that attaches the given key/value
// pairs to every message. Keys must be strings.
func (s *Scope) WithLabels(kvlist ...any) *Scope {
	out := s.clone()
	if len(kvlist)%2 != 0 {
		out.setLabel("WithLabels error", fmt.Sprintf("even number of parameters required, got %d", len(kvlist)))
		return out
	}
	for i := 0; i < len(kvlist); i += 2 {
		key, ok := kvlist[i].(string)
		if !ok {
			out.setLabel("WithLabels error", fmt.Sprintf("label name %v must be a string, got %T", kvlist[i], kvlist[i]))
			return out
		}
		out.setLabel(key, kvlist[i+1])
	}
	return out
}

func (s *Scope) setLabel(key string, value any) {
	if _, exists := s.labels[key]; !exists {
		s.labelKeys = append(s.labelKeys, key)
	}
	s.labels[key] = value
}
