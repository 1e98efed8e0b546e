package log

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"khetao.com/clikit/structured"
)

func init() {
	registerDefaultHandler(writeEntry)
}

// frames between the caller of a Scope method and runtime.Caller in writeEntry
const callerSkipOffset = 4

// writeEntry turns a scope message into a zap entry. JSON output carries
// structured details and labels as fields; console output appends them to
// the message after a tab.
func writeEntry(level Level, scope *Scope, se *structured.Error, msg string) {
	var fields []zapcore.Field
	if scope.category != "" {
		fields = append(fields, zap.String(categoryKey, string(scope.category)))
	}

	details := se.Details()
	if jsonOutput.Load() {
		for _, d := range details {
			fields = append(fields, zap.String(d.Key, d.Value))
		}
		for _, k := range scope.labelKeys {
			fields = append(fields, zap.Any(k, scope.labels[k]))
		}
	} else if len(details) > 0 || len(scope.labelKeys) > 0 {
		var extra []string
		for _, d := range details {
			extra = append(extra, d.Key+"="+d.Value)
		}
		for _, k := range scope.labelKeys {
			extra = append(extra, fmt.Sprintf("%s=%v", k, scope.labels[k]))
		}
		msg += "\t" + strings.Join(extra, " ")
	}

	ent := zapcore.Entry{
		Message:    msg,
		Level:      level.zap(),
		Time:       time.Now(),
		LoggerName: scope.nameToEmit,
	}
	if scope.GetLogCallers() {
		ent.Caller = zapcore.NewEntryCaller(runtime.Caller(scope.callerSkip + callerSkipOffset))
	}
	if wantStack(level, scope) {
		ent.Stack = zap.Stack("").String
	}

	out := current.Load()
	if err := out.write(ent, fields); err != nil {
		_, _ = fmt.Fprintf(out.errs, "%v log write error: %v\n", time.Now(), err)
		_ = out.errs.Sync()
	}
}

// wantStack reports whether the scope's stack trace level covers level.
// Scopes other than the default only trace errors and worse.
func wantStack(level Level, scope *Scope) bool {
	if scope != defaultScope && level > ErrorLevel {
		return false
	}
	return scope.GetStackTraceLevel() >= level
}
