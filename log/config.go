// Copyright 2017 Istio Authors

package log

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zapgrpc"
	"google.golang.org/grpc/grpclog"
)

const GrpcScopeName = "grpc"

var defaultEncoderConfig = zapcore.EncoderConfig{
	TimeKey:        "time",
	LevelKey:       "level",
	NameKey:        "scope",
	CallerKey:      "caller",
	MessageKey:     "msg",
	StacktraceKey:  "stack",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.LowercaseLevelEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
	EncodeDuration: zapcore.StringDurationEncoder,
	EncodeTime:     formatDate,
}

// sink is the configured destination of every scope. Configure swaps it
// atomically.
type sink struct {
	core zapcore.Core
	// errs receives failures of core itself.
	errs    zapcore.WriteSyncer
	closers []func() error
}

func (s *sink) write(ent zapcore.Entry, fields []zapcore.Field) error {
	err := s.core.Write(ent, fields)
	if ent.Level == zapcore.FatalLevel {
		exitProcess(1)
	}
	return err
}

func (s *sink) close() error {
	_ = s.core.Sync()
	var errs error
	for _, c := range s.closers {
		errs = multierr.Append(errs, c())
	}
	if errs != nil {
		return fmt.Errorf("failed to close log outputs: %v", errs)
	}
	return nil
}

var (
	current     atomic.Pointer[sink]
	jsonOutput  atomic.Bool
	logGrpc     bool
	exitProcess = os.Exit
)

func init() {
	all := zap.LevelEnablerFunc(func(zapcore.Level) bool { return true })
	current.Store(&sink{
		core: zapcore.NewCore(newConsoleEncoder(), zapcore.Lock(os.Stdout), all),
		errs: zapcore.Lock(os.Stderr),
	})
}

func formatDate(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format("2006-01-02T15:04:05.000000Z"))
}

// prepZap builds the core writing to the configured outputs, plus the sink
// used to report failures of that core.
func prepZap(options *Options) (zapcore.Core, zapcore.WriteSyncer, func() error, error) {
	var enc zapcore.Encoder
	switch {
	case options.JSONEncoding:
		encCfg := defaultEncoderConfig
		if options.useStackdriverFormat {
			encCfg.LevelKey = "severity"
			encCfg.MessageKey = "message"
			encCfg.EncodeLevel = encodeStackdriverLevel
		}
		enc = zapcore.NewJSONEncoder(encCfg)
	case options.DetailedConsole:
		enc = zapcore.NewConsoleEncoder(defaultEncoderConfig)
	default:
		enc = newConsoleEncoder()
	}

	var rotaterSink zapcore.WriteSyncer
	if options.RotateOutputPath != "" {
		rotaterSink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   options.RotateOutputPath,
			MaxSize:    options.RotationMaxSize,
			MaxBackups: options.RotationMaxBackups,
			MaxAge:     options.RotationMaxAge,
		})
	}

	errSink, closeErrorSink, err := zap.Open(options.ErrorOutputPaths...)
	if err != nil {
		return nil, nil, nil, err
	}

	var outputSink zapcore.WriteSyncer
	closeOutputSinks := func() {}
	if len(options.OutputPaths) > 0 {
		outputSink, closeOutputSinks, err = zap.Open(options.OutputPaths...)
		if err != nil {
			closeErrorSink()
			return nil, nil, nil, err
		}
	}

	var ws zapcore.WriteSyncer
	switch {
	case rotaterSink != nil && outputSink != nil:
		ws = zapcore.NewMultiWriteSyncer(outputSink, rotaterSink)
	case rotaterSink != nil:
		ws = rotaterSink
	case outputSink != nil:
		ws = outputSink
	default:
		closeErrorSink()
		return nil, nil, nil, errors.New("no log output configured")
	}

	// Scopes filter by level before an entry reaches the core.
	enabler := zap.LevelEnablerFunc(func(zapcore.Level) bool { return true })

	closeFn := func() error {
		closeOutputSinks()
		closeErrorSink()
		return nil
	}
	return zapcore.NewCore(enc, ws, enabler), errSink, closeFn, nil
}

// Configure initializes the logging subsystem. It may be called again to
// replace the configuration; the previous outputs are closed.
func Configure(options *Options) error {
	core, errSink, closeSinks, err := prepZap(options)
	if err != nil {
		return err
	}

	if err = updateScopes(options); err != nil {
		_ = closeSinks()
		return err
	}

	closeFns := []func() error{closeSinks}

	if t := options.stackdriver; t != nil {
		sd, err := newStackdriverShipper(t.project, t.quotaProject, t.logName, t.resource)
		if err != nil {
			_ = closeSinks()
			return err
		}
		core = teeRemote(core, sd)
		closeFns = append(closeFns, sd.close)
	}

	if t := options.uds; t != nil {
		core = teeRemote(core, newUDSShipper(t.socket, t.path))
	}

	next := &sink{core: core, errs: errSink, closers: closeFns}
	if prev := current.Swap(next); prev != nil {
		_ = prev.close()
	}
	jsonOutput.Store(options.JSONEncoding)

	if options.LogGrpc {
		grpcScope := RegisterScope(GrpcScopeName, "gRPC library messages.", 0)
		grpcLogger := zap.New(core, zap.IncreaseLevel(grpcScope.GetOutputLevel().zap())).Named(GrpcScopeName)
		grpclog.SetLoggerV2(zapgrpc.NewLogger(grpcLogger))
	}

	configureKlog.Do(routeKlog)

	return nil
}

// Sync flushes buffered output.
func Sync() error {
	return current.Load().core.Sync()
}

// Close flushes and closes the configured outputs.
func Close() error {
	return current.Load().close()
}

func updateScopes(options *Options) error {
	allScopes := Scopes()

	if err := processLevels(allScopes, options.outputLevels, (*Scope).SetOutputLevel); err != nil {
		return err
	}
	if err := processLevels(allScopes, options.stackTraceLevels, (*Scope).SetStackTraceLevel); err != nil {
		return err
	}

	for _, name := range splitNonEmpty(options.logCallers) {
		if name == OverrideScopeName {
			for _, scope := range allScopes {
				scope.SetLogCallers(true)
			}
			break
		}
		if scope, ok := allScopes[name]; ok {
			scope.SetLogCallers(true)
		}
	}

	if logGrpc {
		options.LogGrpc = true
	}
	return nil
}

// processLevels applies a <scope>:<level>,... list. The "all" scope applies
// its level to every scope and ends processing; naming the grpc scope turns
// on gRPC logging.
func processLevels(allScopes map[string]*Scope, list string, set func(*Scope, Level)) error {
	for _, entry := range splitNonEmpty(list) {
		name, l, err := parseScopedLevel(entry)
		if err != nil {
			return err
		}

		switch scope, ok := allScopes[name]; {
		case ok:
			set(scope, l)
		case name == OverrideScopeName:
			for _, scope := range allScopes {
				set(scope, l)
			}
			return nil
		case name == GrpcScopeName:
			logGrpc = true
			set(RegisterScope(GrpcScopeName, "gRPC library messages.", 0), l)
		default:
			return fmt.Errorf("invalid scope '%s' specified in '%s'", name, list)
		}
	}
	return nil
}
