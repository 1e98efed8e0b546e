package log

import (
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genproto/googleapis/api/monitoredres"
)

const (
	DefaultScopeName  = "default"
	OverrideScopeName = "all"

	defaultOutputPath      = "stdout"
	defaultErrorOutputPath = "stderr"

	defaultRotationMaxAge     = 30
	defaultRotationMaxSize    = 100
	defaultRotationMaxBackups = 1000
)

// Options controls where log output goes and how it looks.
type Options struct {
	OutputPaths      []string
	ErrorOutputPaths []string

	RotateOutputPath   string
	RotationMaxSize    int
	RotationMaxAge     int
	RotationMaxBackups int

	JSONEncoding bool
	// DetailedConsole prints time, level and scope on every console line
	// instead of the colored CATEGORY | message form.
	DetailedConsole bool
	LogGrpc         bool

	// comma-separated <scope>:<level> lists, and a list of scope names
	outputLevels     string
	stackTraceLevels string
	logCallers       string

	useStackdriverFormat bool
	stackdriver          *stackdriverTarget
	uds                  *udsTarget
}

type stackdriverTarget struct {
	project      string
	quotaProject string
	logName      string
	resource     *monitoredres.MonitoredResource
}

type udsTarget struct {
	socket string
	path   string
}

func DefaultOptions() *Options {
	return &Options{
		OutputPaths:        []string{defaultOutputPath},
		ErrorOutputPaths:   []string{defaultErrorOutputPath},
		RotationMaxSize:    defaultRotationMaxSize,
		RotationMaxAge:     defaultRotationMaxAge,
		RotationMaxBackups: defaultRotationMaxBackups,
		outputLevels:       DefaultScopeName + ":" + InfoLevel.String(),
		stackTraceLevels:   DefaultScopeName + ":" + NoneLevel.String(),
	}
}

// WithStackdriverLoggingFormat names JSON fields the way Cloud Logging
// expects them.
func (o *Options) WithStackdriverLoggingFormat() *Options {
	o.useStackdriverFormat = true
	return o
}

// WithTeeToStackdriver also sends every message to Cloud Logging.
func (o *Options) WithTeeToStackdriver(project, logName string, mr *monitoredres.MonitoredResource) *Options {
	return o.WithTeeToStackdriverWithQuotaProject(project, project, logName, mr)
}

func (o *Options) WithTeeToStackdriverWithQuotaProject(project, quotaProject, logName string, mr *monitoredres.MonitoredResource) *Options {
	o.stackdriver = &stackdriverTarget{project: project, quotaProject: quotaProject, logName: logName, resource: mr}
	return o
}

// WithTeeToUDS also posts every message to an HTTP server listening on the
// unix socket addr.
func (o *Options) WithTeeToUDS(addr, path string) *Options {
	o.uds = &udsTarget{socket: addr, path: path}
	return o
}

func (o *Options) SetOutputLevel(scope string, level Level) {
	o.outputLevels = setScopedLevel(o.outputLevels, scope, level)
}

func (o *Options) GetOutputLevel(scope string) (Level, error) {
	return getScopedLevel(o.outputLevels, scope)
}

func (o *Options) SetStackTraceLevel(scope string, level Level) {
	o.stackTraceLevels = setScopedLevel(o.stackTraceLevels, scope, level)
}

func (o *Options) GetStackTraceLevel(scope string) (Level, error) {
	return getScopedLevel(o.stackTraceLevels, scope)
}

func (o *Options) SetLogCallers(scope string, include bool) {
	var kept []string
	for _, s := range splitNonEmpty(o.logCallers) {
		if s != scope {
			kept = append(kept, s)
		}
	}
	if include {
		kept = append(kept, scope)
	}
	o.logCallers = strings.Join(kept, ",")
}

func (o *Options) GetLogCallers(scope string) bool {
	for _, s := range splitNonEmpty(o.logCallers) {
		if s == scope {
			return true
		}
	}
	return false
}

// AttachFlags declares the logging options through the given callbacks, one
// per value kind. Each callback receives the field to fill, the option name,
// its current value as default and a usage string.
func (o *Options) AttachFlags(
	stringSliceVar func(p *[]string, name string, value []string, usage string),
	stringVar func(p *string, name string, value string, usage string),
	intVar func(p *int, name string, value int, usage string),
	boolVar func(p *bool, name string, value bool, usage string),
) {
	stringSliceVar(&o.OutputPaths, "log_target", o.OutputPaths,
		"Comma-separated log outputs: file paths, stdout or stderr")
	stringVar(&o.RotateOutputPath, "log_rotate", o.RotateOutputPath,
		"Path of an additional, rotated log file")
	intVar(&o.RotationMaxAge, "log_rotate_max_age", o.RotationMaxAge,
		"Days before the rotated log file is rotated, 0 for no limit")
	intVar(&o.RotationMaxSize, "log_rotate_max_size", o.RotationMaxSize,
		"Megabytes before the rotated log file is rotated")
	intVar(&o.RotationMaxBackups, "log_rotate_max_backups", o.RotationMaxBackups,
		"Rotated log files to keep, 0 for no limit")
	boolVar(&o.JSONEncoding, "log_as_json", o.JSONEncoding,
		"Write log lines as JSON")

	scopes := make([]string, 0, len(Scopes())+1)
	for name := range Scopes() {
		scopes = append(scopes, name)
	}
	scopes = append(scopes, OverrideScopeName)
	sort.Strings(scopes)
	names := strings.Join(scopes, ", ")

	stringVar(&o.outputLevels, "log_output_level", o.outputLevels,
		fmt.Sprintf("Minimum level per scope, as <scope>:<level>,... with scope one of [%s] and level one of %s",
			names, levelChoices()))
	stringVar(&o.stackTraceLevels, "log_stacktrace_level", o.stackTraceLevels,
		fmt.Sprintf("Level per scope from which stack traces are captured, as <scope>:<level>,... with scope one of [%s] and level one of %s",
			names, levelChoices()))
	stringVar(&o.logCallers, "log_caller", o.logCallers,
		fmt.Sprintf("Comma-separated scopes whose messages include the caller, any of [%s]", names))
}
