package option

import (
	"errors"
	"fmt"

	"khetao.com/clikit/log"
)

var (
	ErrEmptyName      = errors.New("option name is empty")
	ErrUnknownHandler = errors.New("unknown action handler")
)

var scope = log.RegisterScope("option", "Option parsing diagnostics.", 0)

// Reporter receives parse diagnostics. Arguments follow the printf
// convention: a format followed by its operands. A *log.Scope is a Reporter.
type Reporter interface {
	Warnf(args ...any)
	Errorf(args ...any)
	Debugf(args ...any)
}

// Handler is the function bound to an action option.
type Handler func(ctx *ActionContext) error

// ActionContext is handed to a Handler when its action fires.
type ActionContext struct {
	Registry *Registry
	// Store holds the values accepted before the action fired.
	Store  *Store
	Action Name
}

// Registry is the option table of a tool. It is immutable once built and may
// be used for any number of parses.
type Registry struct {
	specs    []*Spec
	byName   map[Name]*Spec
	aliases  AliasTable
	required []Name
	handlers map[string]Handler
	reporter Reporter
}

type RegistryOption func(*Registry)

// WithHandler binds fn to the handler name used by action declarations.
func WithHandler(name string, fn Handler) RegistryOption {
	return func(r *Registry) {
		r.handlers[name] = fn
	}
}

// WithReporter sends diagnostics to rep instead of the "option" log scope.
func WithReporter(rep Reporter) RegistryOption {
	return func(r *Registry) {
		r.reporter = rep
	}
}

// NewRegistry merges decls with the built-in options and registers the
// result in order: types are normalized, aliases allocated and required
// options collected. Every action option must name a handler bound with
// WithHandler.
func NewRegistry(decls []Declaration, opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		byName:   make(map[Name]*Spec),
		aliases:  make(AliasTable),
		handlers: make(map[string]Handler),
		reporter: scope,
	}
	for _, o := range opts {
		o(r)
	}

	merged := merge(Builtins(), decls)
	names := make([]Name, len(merged))
	for i, d := range merged {
		names[i] = CanonicalName(d.Name)
	}
	for _, d := range merged {
		if err := r.register(d, names); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// register adds d. names holds every declared option name, so no alias
// shadows an option registered later.
func (r *Registry) register(d Declaration, names []Name) error {
	name := CanonicalName(d.Name)
	if name == "" {
		return ErrEmptyName
	}

	s := &Spec{
		Name:        name,
		Type:        NormalizeType(d.Type),
		Default:     d.Default,
		Description: d.Description,
		Required:    d.Required,
		Validate:    d.Validate,
		Handler:     d.Handler,
	}

	if s.Type == TypeAction {
		if _, ok := r.handlers[s.Handler]; !ok {
			return fmt.Errorf("option %q: %w %q", name, ErrUnknownHandler, s.Handler)
		}
	}

	alias, err := r.aliases.Allocate(name, string(CanonicalName(d.Alias)), names...)
	if err != nil {
		return err
	}
	s.Alias = alias

	r.specs = append(r.specs, s)
	r.byName[name] = s
	if s.Required {
		r.required = append(r.required, name)
	}
	return nil
}

// SpecOf resolves a canonical name or an alias to its spec. A canonical name
// wins over an alias spelled the same way.
func (r *Registry) SpecOf(nameOrAlias string) (*Spec, bool) {
	key := CanonicalName(nameOrAlias)
	if s, ok := r.byName[key]; ok {
		return s, true
	}
	if n, ok := r.aliases.Resolve(string(key)); ok {
		return r.byName[n], true
	}
	return nil, false
}

// Specs returns the registered options in declaration order.
func (r *Registry) Specs() []*Spec {
	out := make([]*Spec, len(r.specs))
	copy(out, r.specs)
	return out
}

// Aliases returns a copy of the alias table.
func (r *Registry) Aliases() AliasTable {
	out := make(AliasTable, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}

// Required returns the names of required options in declaration order.
func (r *Registry) Required() []Name {
	out := make([]Name, len(r.required))
	copy(out, r.required)
	return out
}

func (r *Registry) handler(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}
