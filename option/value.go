package option

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindText
	KindNumber
	KindBool
)

var kindToString = map[Kind]string{
	KindAbsent: "absent",
	KindText:   "text",
	KindNumber: "number",
	KindBool:   "bool",
}

func (k Kind) String() string {
	return kindToString[k]
}

// Value is an option value: text, number, boolean, or absent. The zero Value
// is absent.
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
}

func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// Text returns the textual form of the value and whether it is a text value.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// String renders the value for display. Absent values render empty.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

var truthy = map[string]struct{}{
	"true": {},
	"yes":  {},
	"on":   {},
	"1":    {},
}

// IsTruthy reports whether s is one of true, yes, on or 1, ignoring case.
func IsTruthy(s string) bool {
	_, ok := truthy[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// parseNumber accepts decimal integers and floats with an optional exponent.
// Hex, infinities and NaN are rejected.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "xXpP_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
