// Package app is the foundation a command-line tool is built on: it parses
// the tool's options, answers -help and -version, configures logging and
// then hands control to the tool's run function.
package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/multierr"

	"khetao.com/clikit/cli/globalflag"
	"khetao.com/clikit/log"
	"khetao.com/clikit/option"
	"khetao.com/clikit/shutdown"
	"khetao.com/clikit/shutdown/manager"
	"khetao.com/clikit/version"
)

const defaultLocation = "UTC"

// RunFunc is the body of a tool. It runs after all options were accepted.
type RunFunc func(a *App) error

type App struct {
	name        string
	description string
	version     string
	location    string

	decls      []option.Declaration
	handlers   map[string]option.Handler
	cliOptions []CliOptions
	flagSets   []*pflag.FlagSet
	logOptions *log.Options
	logFlags   bool
	callbacks  []shutdown.Callback

	run  RunFunc
	out  io.Writer
	exit func(code int)

	info     Info
	registry *option.Registry
	store    *option.Store
}

type Option func(*App)

func WithDescription(description string) Option {
	return func(a *App) {
		a.description = description
	}
}

// WithVersion sets the version reported by -version. It defaults to the
// version stamped into the binary at build time.
func WithVersion(v string) Option {
	return func(a *App) {
		a.version = v
	}
}

// WithDeclarations adds options to the tool, after the built-in ones.
func WithDeclarations(decls ...option.Declaration) Option {
	return func(a *App) {
		a.decls = append(a.decls, decls...)
	}
}

// WithOptions adds a group of options that reads its values back after
// parsing.
func WithOptions(opts ...CliOptions) Option {
	return func(a *App) {
		a.cliOptions = append(a.cliOptions, opts...)
	}
}

// WithHandler binds fn to the handler name used by action options.
func WithHandler(name string, fn option.Handler) Option {
	return func(a *App) {
		a.handlers[name] = fn
	}
}

// WithFlagSet exposes the flags of fs, usually belonging to a library, as
// options of the tool.
func WithFlagSet(fs *pflag.FlagSet) Option {
	return func(a *App) {
		a.flagSets = append(a.flagSets, fs)
	}
}

// WithKlogFlags exposes klog's verbosity as the vklog option.
func WithKlogFlags() Option {
	return func(a *App) {
		fs := pflag.NewFlagSet("klog", pflag.ContinueOnError)
		if err := globalflag.Register(fs, log.KlogFlags(), "v", "vklog"); err == nil {
			a.flagSets = append(a.flagSets, fs)
		}
	}
}

func WithLogOptions(o *log.Options) Option {
	return func(a *App) {
		a.logOptions = o
	}
}

// WithLogFlags exposes the logging configuration as options of the tool.
func WithLogFlags() Option {
	return func(a *App) {
		a.logFlags = true
	}
}

// WithLocation sets the time zone of the process, by IANA name.
func WithLocation(name string) Option {
	return func(a *App) {
		a.location = name
	}
}

// WithOutput sets where help and version output is written.
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.out = w
	}
}

// WithExit replaces os.Exit.
func WithExit(exit func(code int)) Option {
	return func(a *App) {
		a.exit = exit
	}
}

func WithRunFunc(run RunFunc) Option {
	return func(a *App) {
		a.run = run
	}
}

// WithShutdownCallback registers a callback run when the tool receives
// SIGINT or SIGTERM while its run function executes.
func WithShutdownCallback(cb shutdown.Callback) Option {
	return func(a *App) {
		a.callbacks = append(a.callbacks, cb)
	}
}

func New(name string, opts ...Option) *App {
	a := &App{
		name:       name,
		location:   defaultLocation,
		handlers:   make(map[string]option.Handler),
		logOptions: log.DefaultOptions(),
		out:        os.Stdout,
		exit:       os.Exit,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *App) Name() string {
	return a.name
}

func (a *App) Description() string {
	return a.description
}

// Info describes the running program. It is filled in by Execute.
func (a *App) Info() Info {
	return a.info
}

// Options returns the parsed option values. It is nil before Execute.
func (a *App) Options() *option.Store {
	return a.store
}

func (a *App) Registry() *option.Registry {
	return a.registry
}

func (a *App) Out() io.Writer {
	return a.out
}

// Run executes the tool with args, os.Args included the program path, and
// exits when an action ran or something failed.
func (a *App) Run(args []string) {
	err := a.Execute(args)
	if err == nil {
		return
	}
	if he, ok := option.IsHalt(err); ok {
		a.exit(he.Code())
		return
	}
	log.Error(err)
	a.exit(1)
}

// Execute is Run without exiting. It returns an *option.HaltError when an
// action option ran.
func (a *App) Execute(args []string) error {
	if err := a.setLocation(); err != nil {
		return err
	}

	program := a.name
	if len(args) > 0 {
		program = args[0]
		args = args[1:]
	}
	a.info = newInfo(program, a.buildInfo().Version)

	if err := log.Configure(a.logOptions); err != nil {
		return fmt.Errorf("failed to configure logging: %v", err)
	}

	groups := a.optionGroups()
	decls := append([]option.Declaration{}, a.decls...)
	for _, g := range groups {
		decls = append(decls, g.Flags()...)
	}
	for _, fs := range a.flagSets {
		decls = append(decls, globalflag.Declarations(fs)...)
	}

	regOpts := []option.RegistryOption{
		option.WithHandler(option.HelpHandler, a.showHelp),
		option.WithHandler(option.VersionHandler, a.showVersion),
	}
	for name, fn := range a.handlers {
		regOpts = append(regOpts, option.WithHandler(name, fn))
	}
	reg, err := option.NewRegistry(decls, regOpts...)
	if err != nil {
		return err
	}
	a.registry = reg

	store, err := reg.Parse(args)
	a.store = store
	if err != nil {
		return err
	}

	verbose := store.Bool("verbose")
	if verbose {
		log.SetVerbose(true)
	}

	if err := a.applyOptions(groups, verbose); err != nil {
		return err
	}
	if a.logFlags {
		if err := log.Configure(a.logOptions); err != nil {
			return fmt.Errorf("failed to configure logging: %v", err)
		}
		if verbose {
			log.SetVerbose(true)
		}
	}

	if a.run == nil {
		return nil
	}

	stop := a.startShutdown()
	defer stop()
	return a.run(a)
}

func (a *App) optionGroups() []CliOptions {
	groups := append([]CliOptions{}, a.cliOptions...)
	if a.logFlags {
		groups = append(groups, newLogFlags(a.logOptions))
	}
	return groups
}

func (a *App) applyOptions(groups []CliOptions, verbose bool) error {
	var errs error
	for _, g := range groups {
		if c, ok := g.(ConfigurableOptions); ok {
			errs = multierr.Append(errs, multierr.Combine(c.ApplyFlags(a.store)...))
		}
	}
	if errs != nil {
		return errs
	}

	for _, g := range groups {
		if c, ok := g.(CompletableOptions); ok {
			errs = multierr.Append(errs, c.Complete())
		}
		errs = multierr.Append(errs, multierr.Combine(g.Validate()...))
		if p, ok := g.(PrintableOptions); ok && verbose {
			log.Debugf("Options: %s", p.String())
		}
	}
	return errs
}

func (a *App) setLocation() error {
	if a.location == "" {
		return nil
	}
	loc, err := time.LoadLocation(a.location)
	if err != nil {
		return fmt.Errorf("failed to set time zone %q: %v", a.location, err)
	}
	time.Local = loc
	return nil
}

func (a *App) startShutdown() func() {
	if len(a.callbacks) == 0 {
		return func() {}
	}
	gs := shutdown.New()
	gs.SetErrorHandler(shutdown.ErrorFunc(func(err error) {
		log.Errorf("Shutdown: %v", err)
	}))
	for _, cb := range a.callbacks {
		gs.AddCallback(cb)
	}
	m := manager.NewPosixSignalManager()
	m.SetExit(a.exit)
	gs.AddTrigger(m)
	if err := gs.Watch(); err != nil {
		log.Warnf("Unable to watch for shutdown signals: %v", err)
		return func() {}
	}
	return m.Stop
}

func (a *App) buildInfo() version.BuildInfo {
	return version.Info.WithVersion(a.version)
}

// Info is what the foundation knows about the running program.
type Info struct {
	// Filename is the program path as invoked.
	Filename string
	// Filepath is the absolute path with symbolic links resolved.
	Filepath  string
	Basename  string
	Directory string
	Version   string
}

func newInfo(program, v string) Info {
	path, err := filepath.Abs(program)
	if err == nil {
		if resolved, rerr := filepath.EvalSymlinks(path); rerr == nil {
			path = resolved
		}
	} else {
		path = program
	}
	return Info{
		Filename:  program,
		Filepath:  path,
		Basename:  filepath.Base(path),
		Directory: filepath.Dir(path),
		Version:   v,
	}
}
