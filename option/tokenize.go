package option

import (
	"regexp"
	"strings"
)

var (
	combinedPattern = regexp.MustCompile(`(?s)^-*([A-Za-z0-9_][A-Za-z0-9_-]*)=(.*\S.*)$`)
	separatePattern = regexp.MustCompile(`^-*([A-Za-z0-9_][A-Za-z0-9_-]*)$`)
)

// Pair is one option occurrence found on the command line.
type Pair struct {
	// Option is the canonical name when the option resolved, otherwise the
	// lower-cased name as written.
	Option Name
	Value  Value
	// Known reports whether Option resolved to a registered spec.
	Known bool
	// Token is the argument the option was read from.
	Token string
}

// Tokenizer walks an argument list left to right in a single pass. Arguments
// are either -name=value or -name followed, for non-flag options, by the
// value in the next argument. Any number of leading dashes is accepted.
type Tokenizer struct {
	reg  *Registry
	rep  Reporter
	args []string
	pos  int
}

// NewTokenizer scans args, which must not include the program name.
func NewTokenizer(reg *Registry, args []string, rep Reporter) *Tokenizer {
	if rep == nil {
		rep = reg.reporter
	}
	return &Tokenizer{reg: reg, rep: rep, args: args}
}

// Next returns the next option occurrence. Malformed arguments and options
// missing their value are reported and skipped. ok is false once the
// arguments are exhausted.
func (t *Tokenizer) Next() (p Pair, ok bool) {
	for t.pos < len(t.args) {
		arg := t.args[t.pos]
		t.pos++

		token := strings.TrimSpace(arg)

		if m := combinedPattern.FindStringSubmatch(token); m != nil {
			name := CanonicalName(m[1])
			raw := strings.TrimSpace(m[2])
			spec, known := t.reg.SpecOf(string(name))

			v := Text(raw)
			if known && spec.Type.IsFlag() {
				v = Bool(IsTruthy(raw))
			}
			return t.pair(name, spec, known, v, arg), true
		}

		if m := separatePattern.FindStringSubmatch(token); m != nil {
			name := CanonicalName(m[1])
			spec, known := t.reg.SpecOf(string(name))

			if known && spec.Type.IsFlag() {
				return t.pair(name, spec, known, Bool(true), arg), true
			}
			if t.pos >= len(t.args) {
				t.rep.Warnf("Unable to set option: '%s' without a value!", name)
				continue
			}
			v := Text(strings.TrimSpace(t.args[t.pos]))
			t.pos++
			return t.pair(name, spec, known, v, arg), true
		}

		t.rep.Warnf("Invalid argument: '%s'", arg)
	}
	return Pair{}, false
}

func (t *Tokenizer) pair(name Name, spec *Spec, known bool, v Value, token string) Pair {
	if known {
		name = spec.Name
	}
	return Pair{Option: name, Value: v, Known: known, Token: token}
}

// Tokenize returns every option occurrence in args.
func Tokenize(reg *Registry, args []string, rep Reporter) []Pair {
	t := NewTokenizer(reg, args, rep)
	var pairs []Pair
	for {
		p, ok := t.Next()
		if !ok {
			return pairs
		}
		pairs = append(pairs, p)
	}
}
