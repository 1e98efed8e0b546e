package option

import (
	"os"
	"strings"
)

// validate decides whether v is acceptable for s and returns the value to
// store. A custom predicate alone decides acceptance.
func (r *Registry) validate(s *Spec, v Value, rep Reporter) (Value, bool) {
	if s.Validate != nil {
		if !s.Validate(v) {
			return Value{}, false
		}
		if c, ok := coerce(s.Type, v); ok {
			return c, true
		}
		return v, true
	}

	switch s.Type {
	case TypeAction:
		_, ok := r.handler(s.Handler)
		return v, ok
	case TypeDirectory:
		text, ok := v.Text()
		if !ok {
			return Value{}, false
		}
		fi, err := os.Stat(text)
		return v, err == nil && fi.IsDir()
	case TypeFilename:
		text, ok := v.Text()
		if !ok {
			return Value{}, false
		}
		fi, err := os.Stat(text)
		return v, err == nil && !fi.IsDir()
	case TypeString:
		_, ok := v.Text()
		return v, ok
	case TypeNumber, TypeBoolean:
		return coerce(s.Type, v)
	default:
		rep.Warnf("Unable to validate option: '%s' for type: '%s'", s.Name, s.Type)
		return v, true
	}
}

// coerce converts v to the representation stored for type t.
func coerce(t Type, v Value) (Value, bool) {
	switch t {
	case TypeNumber:
		if _, ok := v.Number(); ok {
			return v, true
		}
		if text, ok := v.Text(); ok {
			if f, ok := parseNumber(text); ok {
				return Number(f), true
			}
		}
		return Value{}, false
	case TypeBoolean:
		if _, ok := v.Bool(); ok {
			return v, true
		}
		if text, ok := v.Text(); ok && strings.EqualFold(strings.TrimSpace(text), "true") {
			return Bool(true), true
		}
		return Value{}, false
	default:
		return v, true
	}
}
