package log

import "sync"

var defaultScope = RegisterScope(DefaultScopeName, "Unscoped logging messages.", 1)

// DefaultScope returns the scope the package-level functions log to.
func DefaultScope() *Scope { return defaultScope }

func Fatal(args ...any)  { defaultScope.Fatal(args...) }
func Fatalf(args ...any) { defaultScope.Fatalf(args...) }

func Error(args ...any)  { defaultScope.Error(args...) }
func Errorf(args ...any) { defaultScope.Errorf(args...) }

func Warn(args ...any)  { defaultScope.Warn(args...) }
func Warnf(args ...any) { defaultScope.Warnf(args...) }

func Info(args ...any)  { defaultScope.Info(args...) }
func Infof(args ...any) { defaultScope.Infof(args...) }

func Success(args ...any)  { defaultScope.Success(args...) }
func Successf(args ...any) { defaultScope.Successf(args...) }

func Debug(args ...any)  { defaultScope.Debug(args...) }
func Debugf(args ...any) { defaultScope.Debugf(args...) }

func DebugEnabled() bool { return defaultScope.DebugEnabled() }

// WithLabels returns the default scope with labels attached, see
// Scope.WithLabels.
func WithLabels(kvlist ...any) *Scope { return defaultScope.WithLabels(kvlist...) }

var (
	verboseMu sync.Mutex
	// output levels of the scopes raised by SetVerbose(true), keyed by scope
	beforeVerbose map[*Scope]Level
)

// SetVerbose(true) raises every registered scope to debug level and
// remembers the level each one had. SetVerbose(false) puts those levels
// back; scopes registered in between are left alone.
func SetVerbose(verbose bool) {
	verboseMu.Lock()
	defer verboseMu.Unlock()

	if !verbose {
		for s, l := range beforeVerbose {
			s.SetOutputLevel(l)
		}
		beforeVerbose = nil
		return
	}

	if beforeVerbose == nil {
		beforeVerbose = make(map[*Scope]Level)
	}
	for _, s := range Scopes() {
		if _, raised := beforeVerbose[s]; !raised {
			beforeVerbose[s] = s.GetOutputLevel()
		}
		s.SetOutputLevel(DebugLevel)
	}
}
