package structured

import "strings"

// Error carries the extra context printed alongside an error-level
// diagnostic. Pass it as the first argument of a log call.
type Error struct {
	// MoreInfo points at further reading, e.g. the tool's -help output.
	MoreInfo string
	// Impact is what the user loses, e.g. "The tool cannot run without this option."
	Impact string
	// Action is the next step the user should take, e.g. "Pass the option on the command line."
	Action string
	// LikelyCause is the likely cause, e.g. "A required option was not given."
	LikelyCause string
	// Err is the underlying error.
	Err error
}

// Detail is one named part of an Error.
type Detail struct {
	Key   string
	Value string
}

// Details returns the non-empty parts of e in a fixed order. It is nil for
// a nil Error.
func (e *Error) Details() []Detail {
	if e == nil {
		return nil
	}
	var ds []Detail
	add := func(k, v string) {
		if v != "" {
			ds = append(ds, Detail{Key: k, Value: v})
		}
	}
	add("moreInfo", e.MoreInfo)
	add("impact", e.Impact)
	add("action", e.Action)
	add("likelyCause", e.LikelyCause)
	if e.Err != nil {
		add("err", e.Err.Error())
	}
	return ds
}

func (e *Error) Error() string {
	ds := e.Details()
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.Key + "=" + d.Value
	}
	return strings.Join(parts, " ")
}

// NewErr copies serr with err attached, leaving the template untouched.
func NewErr(serr *Error, err error) *Error {
	ne := *serr
	ne.Err = err
	return &ne
}

func (e *Error) Unwrap() error { return e.Err }
