package option

// Type is the canonical type of an option.
type Type string

const (
	TypeDirectory Type = "directory"
	TypeFilename  Type = "filename"
	TypeString    Type = "string"
	TypeNumber    Type = "number"
	TypeBoolean   Type = "boolean"
	TypeAction    Type = "action"
	TypeAny       Type = "any"
)

var typeSynonyms = map[string]Type{
	"dir":       TypeDirectory,
	"folder":    TypeDirectory,
	"directory": TypeDirectory,

	"file":     TypeFilename,
	"filename": TypeFilename,

	"str":    TypeString,
	"word":   TypeString,
	"string": TypeString,

	"num":     TypeNumber,
	"int":     TypeNumber,
	"float":   TypeNumber,
	"double":  TypeNumber,
	"digit":   TypeNumber,
	"digits":  TypeNumber,
	"numeric": TypeNumber,
	"number":  TypeNumber,

	"bool":      TypeBoolean,
	"yesno":     TypeBoolean,
	"truefalse": TypeBoolean,
	"boolean":   TypeBoolean,

	"run":      TypeAction,
	"exec":     TypeAction,
	"action":   TypeAction,
	"function": TypeAction,
}

// NormalizeType maps a type synonym to its canonical type. Matching is case
// sensitive and unknown tokens normalize to TypeAny.
func NormalizeType(token string) Type {
	if t, ok := typeSynonyms[token]; ok {
		return t
	}
	return TypeAny
}

// IsFlag reports whether options of this type take no value: presence alone
// means true.
func (t Type) IsFlag() bool {
	return t == TypeAction || t == TypeBoolean
}

func (t Type) String() string {
	return string(t)
}
