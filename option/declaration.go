package option

import (
	"fmt"
	"strings"

	"sigs.k8s.io/yaml"
)

// Name is a canonical option name: trimmed and lower-cased.
type Name string

func CanonicalName(s string) Name {
	return Name(strings.ToLower(strings.TrimSpace(s)))
}

// Declaration is how a tool describes one of its options.
type Declaration struct {
	Name        string
	Type        string
	Default     Value
	Description string
	Required    bool
	// Alias is the preferred short alias. It is kept only if still free.
	Alias string
	// Validate, when set, alone decides whether a value is accepted.
	Validate func(Value) bool
	// Handler names the function bound to an action option.
	Handler string
}

// Spec is a registered option: its declaration with a normalized type and the
// alias it was given.
type Spec struct {
	Name        Name
	Type        Type
	Default     Value
	Description string
	Required    bool
	Alias       string
	Validate    func(Value) bool
	Handler     string
}

const (
	HelpHandler    = "showHelp"
	VersionHandler = "showVersion"
)

// Builtins returns the options every tool has, in registration order.
func Builtins() []Declaration {
	return []Declaration{
		{
			Name:        "verbose",
			Type:        string(TypeBoolean),
			Default:     Bool(false),
			Description: "Extra debugging output",
		},
		{
			Name:        "help",
			Type:        string(TypeAction),
			Handler:     HelpHandler,
			Description: "Show help info",
		},
		{
			Name:        "version",
			Type:        string(TypeAction),
			Handler:     VersionHandler,
			Description: "Show version info",
		},
	}
}

// merge lays decls over base. A declaration whose name is already present
// overrides the non-zero fields of that entry without moving it.
func merge(base, decls []Declaration) []Declaration {
	out := make([]Declaration, 0, len(base)+len(decls))
	index := make(map[Name]int, len(base)+len(decls))
	for _, d := range append(append([]Declaration{}, base...), decls...) {
		key := CanonicalName(d.Name)
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, d)
			continue
		}
		cur := &out[i]
		if d.Type != "" {
			cur.Type = d.Type
		}
		if !d.Default.IsAbsent() {
			cur.Default = d.Default
		}
		if d.Description != "" {
			cur.Description = d.Description
		}
		if d.Required {
			cur.Required = true
		}
		if d.Alias != "" {
			cur.Alias = d.Alias
		}
		if d.Validate != nil {
			cur.Validate = d.Validate
		}
		if d.Handler != "" {
			cur.Handler = d.Handler
		}
	}
	return out
}

type yamlDeclaration struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Alias       string `json:"alias,omitempty"`
	Function    string `json:"function,omitempty"`
}

// ParseDeclarations reads a YAML list of option declarations:
//
//	- name: input
//	  type: file
//	  required: true
//	  description: File to read
//
// Validators cannot be expressed in YAML and are left unset.
func ParseDeclarations(data []byte) ([]Declaration, error) {
	var raw []yamlDeclaration
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse option declarations: %v", err)
	}

	decls := make([]Declaration, 0, len(raw))
	for i, r := range raw {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("declaration %d: %w", i, ErrEmptyName)
		}
		def, err := valueOf(r.Default)
		if err != nil {
			return nil, fmt.Errorf("declaration %q: %v", r.Name, err)
		}
		decls = append(decls, Declaration{
			Name:        r.Name,
			Type:        r.Type,
			Default:     def,
			Description: r.Description,
			Required:    r.Required,
			Alias:       r.Alias,
			Handler:     r.Function,
		})
	}
	return decls, nil
}

func valueOf(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Value{}, nil
	case string:
		return Text(t), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case int64:
		return Number(float64(t)), nil
	default:
		return Value{}, fmt.Errorf("unsupported default of type %T", v)
	}
}
