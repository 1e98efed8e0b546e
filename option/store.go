package option

import "sort"

// Store holds the accepted value of each option, keyed by canonical name.
type Store struct {
	values map[Name]Value
}

func NewStore() *Store {
	return &Store{values: make(map[Name]Value)}
}

func (s *Store) set(name Name, v Value) {
	s.values[name] = v
}

// Lookup returns the value stored for name, which may be given in any case.
func (s *Store) Lookup(name string) (Value, bool) {
	v, ok := s.values[CanonicalName(name)]
	if !ok || v.IsAbsent() {
		return Value{}, false
	}
	return v, true
}

// Get returns the stored value or an absent Value.
func (s *Store) Get(name string) Value {
	v, _ := s.Lookup(name)
	return v
}

func (s *Store) IsSet(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// String returns the value rendered as text, or "" when unset.
func (s *Store) String(name string) string {
	return s.Get(name).String()
}

// Bool reports whether the option holds a true boolean or truthy text.
func (s *Store) Bool(name string) bool {
	v := s.Get(name)
	if b, ok := v.Bool(); ok {
		return b
	}
	if t, ok := v.Text(); ok {
		return IsTruthy(t)
	}
	if n, ok := v.Number(); ok {
		return n != 0
	}
	return false
}

// Number returns the numeric value, parsing text when needed.
func (s *Store) Number(name string) (float64, bool) {
	v := s.Get(name)
	if n, ok := v.Number(); ok {
		return n, true
	}
	if t, ok := v.Text(); ok {
		return parseNumber(t)
	}
	return 0, false
}

// Names returns the names of all set options, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.values))
	for k, v := range s.values {
		if !v.IsAbsent() {
			names = append(names, string(k))
		}
	}
	sort.Strings(names)
	return names
}
