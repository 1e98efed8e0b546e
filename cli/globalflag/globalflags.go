package globalflag

import (
	"flag"
	"fmt"

	"github.com/spf13/pflag"

	"khetao.com/clikit/option"
)

// Register adds to local the flag named globalName in global, under
// localName when it is not empty. The flag keeps sharing its Value with the
// global flag set.
func Register(local *pflag.FlagSet, global *flag.FlagSet, globalName, localName string) error {
	f := global.Lookup(globalName)
	if f == nil {
		return fmt.Errorf("failed to find flag in global flagset (flag): %s", globalName)
	}
	pflagFlag := pflag.PFlagFromGoFlag(f)
	if localName != "" {
		pflagFlag.Name = localName
		pflagFlag.Shorthand = ""
	}
	normalizeFunc := local.GetNormalizeFunc()
	pflagFlag.Name = string(normalizeFunc(local, pflagFlag.Name))
	local.AddFlag(pflagFlag)
	return nil
}

var pflagTypes = map[string]option.Type{
	"bool":    option.TypeBoolean,
	"string":  option.TypeString,
	"int":     option.TypeNumber,
	"int8":    option.TypeNumber,
	"int16":   option.TypeNumber,
	"int32":   option.TypeNumber,
	"int64":   option.TypeNumber,
	"uint":    option.TypeNumber,
	"uint8":   option.TypeNumber,
	"uint16":  option.TypeNumber,
	"uint32":  option.TypeNumber,
	"uint64":  option.TypeNumber,
	"float32": option.TypeNumber,
	"float64": option.TypeNumber,
	"count":   option.TypeNumber,
}

// Declarations describes every flag of fs as an option. The flag's value
// validates what is passed on the command line: a value the flag refuses is
// rejected, an accepted one is written through to the flag.
func Declarations(fs *pflag.FlagSet) []option.Declaration {
	var decls []option.Declaration
	fs.VisitAll(func(f *pflag.Flag) {
		t, ok := pflagTypes[f.Value.Type()]
		if !ok {
			t = option.TypeAny
		}
		value := f.Value
		decls = append(decls, option.Declaration{
			Name:        f.Name,
			Type:        string(t),
			Description: f.Usage,
			Alias:       f.Shorthand,
			Validate: func(v option.Value) bool {
				return value.Set(v.String()) == nil
			},
		})
	})
	return decls
}
