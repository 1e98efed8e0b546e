package globalflag

import (
	"flag"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khetao.com/clikit/option"
)

func noop(*option.ActionContext) error { return nil }

func TestRegisterRenames(t *testing.T) {
	global := flag.NewFlagSet("global", flag.ContinueOnError)
	v := global.Int("v", 0, "verbosity")

	local := pflag.NewFlagSet("local", pflag.ContinueOnError)
	require.NoError(t, Register(local, global, "v", "vklog"))
	require.NotNil(t, local.Lookup("vklog"))

	require.NoError(t, local.Set("vklog", "4"))
	assert.Equal(t, 4, *v)

	assert.Error(t, Register(local, global, "missing", ""))
}

func TestDeclarationsWriteThrough(t *testing.T) {
	fs := pflag.NewFlagSet("lib", pflag.ContinueOnError)
	level := fs.Int("level", 1, "library level")
	trace := fs.Bool("trace", false, "trace calls")
	endpoint := fs.StringP("endpoint", "e", "", "server address")

	decls := Declarations(fs)
	require.Len(t, decls, 3)

	reg, err := option.NewRegistry(decls,
		option.WithHandler(option.HelpHandler, noop),
		option.WithHandler(option.VersionHandler, noop))
	require.NoError(t, err)

	s, ok := reg.SpecOf("endpoint")
	require.True(t, ok)
	assert.Equal(t, "e", s.Alias)
	assert.Equal(t, option.TypeString, s.Type)

	store, err := reg.Parse([]string{"-level=7", "-trace", "-e", "localhost:9000"})
	require.NoError(t, err)

	assert.Equal(t, 7, *level)
	assert.True(t, *trace)
	assert.Equal(t, "localhost:9000", *endpoint)
	assert.Equal(t, option.Number(7), store.Get("level"))

	store, err = reg.Parse([]string{"-level=high"})
	require.NoError(t, err)
	assert.False(t, store.IsSet("level"))
	assert.Equal(t, 7, *level)
}
