package option

import (
	"errors"
	"fmt"
	"strconv"
)

// maxAliasSuffix bounds the name+counter fallback of the allocator.
const maxAliasSuffix = 1024

var ErrAliasExhausted = errors.New("no free alias")

// AliasTable maps an alias to the canonical name of the option it resolves to.
type AliasTable map[string]Name

func (t AliasTable) Resolve(alias string) (Name, bool) {
	n, ok := t[alias]
	return n, ok
}

// Allocate assigns a unique alias to name and records it in the table.
// Candidates already in the table are skipped, and so are the reserved
// names, which are the canonical names of other options: SpecOf resolves a
// canonical name before any alias, so such an alias could never be reached.
//
// A free preferred alias is taken as is. Otherwise prefixes of the name are
// tried from length 1 up to one short of the full name, then the name
// followed by a counter that starts at the name's length.
func (t AliasTable) Allocate(name Name, preferred string, reserved ...Name) (string, error) {
	free := func(candidate string) bool {
		if _, taken := t[candidate]; taken {
			return false
		}
		for _, r := range reserved {
			if r != name && string(r) == candidate {
				return false
			}
		}
		return true
	}
	take := func(candidate string) (string, error) {
		t[candidate] = name
		return candidate, nil
	}

	if preferred != "" && free(preferred) {
		return take(preferred)
	}

	s := string(name)
	for i := 1; i < len(s); i++ {
		if free(s[:i]) {
			return take(s[:i])
		}
	}

	start := len(s)
	if start == 0 {
		start = 1
	}
	for n := start; n < start+maxAliasSuffix; n++ {
		if candidate := s + strconv.Itoa(n); free(candidate) {
			return take(candidate)
		}
	}

	return "", fmt.Errorf("%w for option %q after %d attempts", ErrAliasExhausted, name, maxAliasSuffix)
}
