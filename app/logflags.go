package app

import (
	"strings"

	"khetao.com/clikit/log"
	"khetao.com/clikit/option"
)

// logFlags exposes log.Options as tool options.
type logFlags struct {
	opts  *log.Options
	decls []option.Declaration
	apply []func(*option.Store)
}

func newLogFlags(opts *log.Options) *logFlags {
	lf := &logFlags{opts: opts}
	opts.AttachFlags(lf.stringSliceVar, lf.stringVar, lf.intVar, lf.boolVar)
	return lf
}

func (lf *logFlags) add(d option.Declaration, apply func(*option.Store)) {
	lf.decls = append(lf.decls, d)
	lf.apply = append(lf.apply, apply)
}

func (lf *logFlags) stringSliceVar(p *[]string, name string, value []string, usage string) {
	d := option.Declaration{Name: name, Type: string(option.TypeString), Description: usage}
	if len(value) > 0 {
		d.Default = option.Text(strings.Join(value, ","))
	}
	lf.add(d, func(s *option.Store) {
		if v, ok := s.Lookup(name); ok {
			*p = splitList(v.String())
		}
	})
}

func (lf *logFlags) stringVar(p *string, name string, value string, usage string) {
	d := option.Declaration{Name: name, Type: string(option.TypeString), Description: usage}
	if value != "" {
		d.Default = option.Text(value)
	}
	lf.add(d, func(s *option.Store) {
		if v, ok := s.Lookup(name); ok {
			*p = v.String()
		}
	})
}

func (lf *logFlags) intVar(p *int, name string, value int, usage string) {
	d := option.Declaration{Name: name, Type: string(option.TypeNumber), Description: usage, Default: option.Number(float64(value))}
	lf.add(d, func(s *option.Store) {
		if n, ok := s.Number(name); ok {
			*p = int(n)
		}
	})
}

func (lf *logFlags) boolVar(p *bool, name string, value bool, usage string) {
	d := option.Declaration{Name: name, Type: string(option.TypeBoolean), Description: usage, Default: option.Bool(value)}
	lf.add(d, func(s *option.Store) {
		if s.IsSet(name) {
			*p = s.Bool(name)
		}
	})
}

func (lf *logFlags) Flags() []option.Declaration {
	return lf.decls
}

func (lf *logFlags) ApplyFlags(store *option.Store) []error {
	for _, apply := range lf.apply {
		apply(store)
	}
	return nil
}

func (lf *logFlags) Validate() []error {
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
