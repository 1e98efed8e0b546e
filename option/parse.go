package option

import (
	"errors"
	"fmt"

	"khetao.com/clikit/structured"
)

var ErrMissingRequired = errors.New("missing required option")

var (
	invalidValueError = &structured.Error{
		Action:      "Run with -help to list the accepted options.",
		LikelyCause: "The value does not match the option's type or validator.",
	}
	missingRequiredError = &structured.Error{
		Impact:      "The tool cannot run without this option.",
		Action:      "Pass the option on the command line.",
		LikelyCause: "A required option was not given and has no default.",
	}
)

// HaltError is returned by Parse when an action option ran. Parsing stops at
// the action; the tool is expected to exit with Code.
type HaltError struct {
	Action Name
	// Missing lists the required options that triggered the help action.
	Missing []Name
	// Err is the handler's error, if any.
	Err error
}

func (e *HaltError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("%v: %v", ErrMissingRequired, e.Missing)
	case e.Err != nil:
		return fmt.Sprintf("action %q failed: %v", e.Action, e.Err)
	default:
		return fmt.Sprintf("action %q ran", e.Action)
	}
}

func (e *HaltError) Unwrap() error {
	if len(e.Missing) > 0 {
		return ErrMissingRequired
	}
	return e.Err
}

// Code is the exit status a tool should terminate with.
func (e *HaltError) Code() int {
	if len(e.Missing) > 0 || e.Err != nil {
		return 1
	}
	return 0
}

// IsHalt reports whether err came from an action option.
func IsHalt(err error) (*HaltError, bool) {
	var he *HaltError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

type parser struct {
	reg   *Registry
	rep   Reporter
	store *Store
}

// Parse builds a new store from the defaults and args, which must not include
// the program name. Defaults are applied in declaration order, then every
// argument in order, then required options are checked. If an action fires
// the store accepted so far is returned together with a *HaltError.
func (r *Registry) Parse(args []string) (*Store, error) {
	return r.ParseWith(args, r.reporter)
}

// ParseWith is Parse with diagnostics sent to rep.
func (r *Registry) ParseWith(args []string, rep Reporter) (*Store, error) {
	p := &parser{reg: r, rep: rep, store: NewStore()}

	for _, s := range r.specs {
		if s.Default.IsAbsent() {
			continue
		}
		if err := p.accept(s.Name, s.Default); err != nil {
			return p.store, err
		}
	}

	t := NewTokenizer(r, args, rep)
	for {
		pair, ok := t.Next()
		if !ok {
			break
		}
		if err := p.accept(pair.Option, pair.Value); err != nil {
			return p.store, err
		}
	}

	return p.store, p.checkRequired()
}

// accept validates v for the named option and either stores it or runs the
// bound action. Rejections are reported and leave the store unchanged.
func (p *parser) accept(name Name, v Value) error {
	s, ok := p.reg.SpecOf(string(name))
	if !ok {
		p.rep.Warnf("Unexpected option: '%s'", name)
		return nil
	}

	stored, ok := p.reg.validate(s, v, p.rep)
	if !ok {
		p.rep.Errorf(invalidValueError, "Invalid option: '%s'!", s.Name)
		return nil
	}

	if s.Type != TypeAction {
		p.rep.Debugf("Set option '%s' to '%s'", s.Name, stored)
		p.store.set(s.Name, stored)
		return nil
	}

	// an accepted action fires whatever value it was given
	return p.fire(s, nil)
}

func (p *parser) fire(s *Spec, missing []Name) error {
	h, ok := p.reg.handler(s.Handler)
	if !ok {
		return &HaltError{Action: s.Name, Missing: missing, Err: fmt.Errorf("%w %q", ErrUnknownHandler, s.Handler)}
	}
	err := h(&ActionContext{Registry: p.reg, Store: p.store, Action: s.Name})
	return &HaltError{Action: s.Name, Missing: missing, Err: err}
}

func (p *parser) checkRequired() error {
	var missing []Name
	for _, name := range p.reg.required {
		if !p.store.IsSet(string(name)) {
			p.rep.Errorf(structured.NewErr(missingRequiredError, ErrMissingRequired), "Missing required option: '%s'!", name)
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	help, ok := p.reg.byName["help"]
	if !ok || help.Type != TypeAction {
		return &HaltError{Action: "help", Missing: missing}
	}
	return p.fire(help, missing)
}
