package log

import (
	"fmt"

	"github.com/go-logr/logr"
)

// logrSink adapts a Scope to logr so that libraries logging through logr
// (klog among them) end up in scoped output.
type logrSink struct {
	l    *Scope
	name string
}

// logr V-levels above this threshold are logged at debug level
const debugLevelThreshold = 3

func (ls *logrSink) Init(logr.RuntimeInfo) {
}

func (ls *logrSink) Enabled(level int) bool {
	if level > debugLevelThreshold {
		return ls.l.DebugEnabled()
	}
	return ls.l.InfoEnabled()
}

func (ls *logrSink) Info(level int, msg string, keysAndVals ...any) {
	s := ls.l.WithLabels(keysAndVals...)
	msg = ls.prefixed(trimNewline(msg))
	if level > debugLevelThreshold {
		s.Debug(msg)
	} else {
		s.Info(msg)
	}
}

func (ls *logrSink) Error(err error, msg string, keysAndVals ...any) {
	if !ls.l.ErrorEnabled() {
		return
	}
	msg = ls.prefixed(trimNewline(msg))
	if err != nil {
		msg = fmt.Sprintf("%v: %s", err, msg)
	}
	ls.l.WithLabels(keysAndVals...).Error(msg)
}

func (ls *logrSink) WithValues(keysAndValues ...any) logr.LogSink {
	return &logrSink{l: ls.l.WithLabels(keysAndValues...), name: ls.name}
}

func (ls *logrSink) WithName(name string) logr.LogSink {
	if ls.name != "" {
		name = ls.name + "/" + name
	}
	return &logrSink{l: ls.l, name: name}
}

func (ls *logrSink) prefixed(msg string) string {
	if ls.name == "" {
		return msg
	}
	return ls.name + ": " + msg
}

func trimNewline(msg string) string {
	if len(msg) == 0 {
		return msg
	}
	lc := len(msg) - 1
	if msg[lc] == '\n' {
		return msg[:lc]
	}
	return msg
}

// NewLogrAdapter returns a logr.Logger writing to l.
func NewLogrAdapter(l *Scope) logr.Logger {
	return logr.New(&logrSink{l: l})
}
