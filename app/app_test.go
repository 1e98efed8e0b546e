package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khetao.com/clikit/colors"
	"khetao.com/clikit/log"
	"khetao.com/clikit/option"
)

func TestMain(m *testing.M) {
	colors.SetEnabled(false)
	os.Exit(m.Run())
}

type harness struct {
	out     bytes.Buffer
	logPath string
	codes   []int
	ran     int
}

func newHarness(t *testing.T, opts ...Option) (*App, *harness) {
	t.Helper()
	h := &harness{logPath: filepath.Join(t.TempDir(), "tool.log")}
	lo := log.DefaultOptions()
	lo.OutputPaths = []string{h.logPath}
	lo.ErrorOutputPaths = []string{h.logPath}

	base := []Option{
		WithOutput(&h.out),
		WithExit(func(code int) { h.codes = append(h.codes, code) }),
		WithLogOptions(lo),
		WithRunFunc(func(*App) error {
			h.ran++
			return nil
		}),
	}
	t.Cleanup(func() {
		log.SetVerbose(false)
		_ = log.Configure(log.DefaultOptions())
	})
	return New("tool", append(base, opts...)...), h
}

func (h *harness) logLines(t *testing.T) []string {
	t.Helper()
	_ = log.Sync()
	data, err := os.ReadFile(h.logPath)
	require.NoError(t, err)
	out := strings.TrimRight(string(data), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestHelp(t *testing.T) {
	a, h := newHarness(t, WithDeclarations(option.Declaration{Name: "input", Type: "file", Description: "Input file"},
		option.Declaration{Name: "a_rather_long_option_name_indeed", Type: "string"}))

	a.Run([]string{"tool", "-help"})

	want := strings.Join([]string{
		"tool",
		"",
		"Options:",
		"\tAlias\tOption\t\t\t\tDescription",
		"",
		"\t(v) \tverbose\t\t\t\t- Extra debugging output",
		"\t(h) \thelp\t\t\t\t- Show help info",
		"\t(ve) \tversion\t\t\t\t- Show version info",
		"\t(i) \tinput\t\t\t\t- Input file",
		"\t(a) \ta_rather_long_option_name_indeed\t- No description",
		"",
	}, "\n")
	assert.Equal(t, want, h.out.String())
	assert.Equal(t, []int{0}, h.codes)
	assert.Zero(t, h.ran)
}

func TestVersion(t *testing.T) {
	a, h := newHarness(t, WithVersion("1.2.3"), WithDescription("Does things"))

	a.Run([]string{"tool", "--version"})

	assert.Equal(t, "tool\nDoes things\n\nVersion: 1.2.3\n", h.out.String())
	assert.Equal(t, []int{0}, h.codes)
}

func TestVerboseVersion(t *testing.T) {
	a, h := newHarness(t, WithVersion("1.2.3"))

	a.Run([]string{"tool", "-verbose", "-version"})

	assert.Contains(t, h.out.String(), "Version: 1.2.3\n\n")
	assert.Contains(t, h.out.String(), "version: 1.2.3\n")
}

func TestMissingRequired(t *testing.T) {
	a, h := newHarness(t, WithDeclarations(option.Declaration{Name: "input", Type: "string", Required: true}))

	a.Run([]string{"tool"})

	assert.Equal(t, []int{1}, h.codes)
	assert.Zero(t, h.ran)
	assert.Contains(t, h.out.String(), "Options:")
	lines := h.logLines(t)
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "ERROR\t| Missing required option: 'input'!"), lines[0])
}

func TestRunReceivesOptions(t *testing.T) {
	var got *option.Store
	a, h := newHarness(t,
		WithDeclarations(option.Declaration{Name: "name", Type: "string"}),
		WithRunFunc(func(a *App) error {
			got = a.Options()
			log.Debug("running")
			return nil
		}))

	a.Run([]string{"tool", "-name=world", "-bogus", "x", "-verbose"})

	require.NotNil(t, got)
	assert.Empty(t, h.codes)
	assert.Equal(t, "world", got.String("name"))
	assert.True(t, got.Bool("verbose"))
	assert.Equal(t, "tool", a.Info().Basename)
	assert.Contains(t, h.logLines(t), "WARN\t| Unexpected option: 'bogus'")
	assert.Contains(t, h.logLines(t), "DEBUG\t| running")
}

func TestRunError(t *testing.T) {
	a, h := newHarness(t, WithRunFunc(func(*App) error { return errors.New("exploded") }))

	a.Run([]string{"tool"})

	assert.Equal(t, []int{1}, h.codes)
	assert.Contains(t, h.logLines(t), "ERROR\t| exploded")
}

type serverOptions struct {
	port      int
	completed bool
}

func (o *serverOptions) Flags() []option.Declaration {
	return []option.Declaration{{Name: "port", Type: "int", Default: option.Number(8080)}}
}

func (o *serverOptions) ApplyFlags(store *option.Store) []error {
	n, _ := store.Number("port")
	o.port = int(n)
	return nil
}

func (o *serverOptions) Complete() error {
	o.completed = true
	return nil
}

func (o *serverOptions) Validate() []error {
	if o.port <= 0 || o.port > 65535 {
		return []error{errors.New("port out of range")}
	}
	return nil
}

func TestCliOptions(t *testing.T) {
	so := &serverOptions{}
	a, h := newHarness(t, WithOptions(so))

	require.NoError(t, a.Execute([]string{"tool", "-port", "9090"}))
	assert.Equal(t, 9090, so.port)
	assert.True(t, so.completed)
	assert.Equal(t, 1, h.ran)

	err := a.Execute([]string{"tool", "-p=70000"})
	assert.EqualError(t, err, "port out of range")
}

func TestLogFlags(t *testing.T) {
	a, _ := newHarness(t, WithLogFlags())

	require.NoError(t, a.Execute([]string{"tool", "-log_as_json", "-log_rotate_max_age=7"}))
	assert.True(t, a.logOptions.JSONEncoding)
	assert.Equal(t, 7, a.logOptions.RotationMaxAge)
}

func TestKlogFlags(t *testing.T) {
	a, _ := newHarness(t, WithKlogFlags())

	require.NoError(t, a.Execute([]string{"tool", "-vklog=3"}))
	assert.Equal(t, "3", log.KlogFlags().Lookup("v").Value.String())
	log.EnableKlogWithVerbosity(0)
}

func TestCustomAction(t *testing.T) {
	var greeted bytes.Buffer
	a, h := newHarness(t,
		WithDeclarations(option.Declaration{Name: "greet", Type: "exec", Handler: "greet"}),
		WithHandler("greet", func(ctx *option.ActionContext) error {
			_, err := greeted.WriteString("hello from " + string(ctx.Action) + "\n")
			return err
		}))

	a.Run([]string{"tool", "-greet"})

	assert.Equal(t, "hello from greet\n", greeted.String())
	assert.Equal(t, []int{0}, h.codes)
	assert.Zero(t, h.ran)
}

func TestBadLocation(t *testing.T) {
	a, _ := newHarness(t, WithLocation("Not/AZone"))

	assert.Error(t, a.Execute([]string{"tool"}))
}

func TestInfoResolvesSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real-tool")
	require.NoError(t, os.WriteFile(target, nil, 0o700))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	info := newInfo(link, "1.0")

	resolvedDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, link, info.Filename)
	assert.Equal(t, filepath.Join(resolvedDir, "real-tool"), info.Filepath)
	assert.Equal(t, "real-tool", info.Basename)
	assert.Equal(t, resolvedDir, info.Directory)
	assert.Equal(t, "1.0", info.Version)
}

func TestCommand(t *testing.T) {
	var name string
	a, h := newHarness(t,
		WithDeclarations(option.Declaration{Name: "name", Type: "string"}),
		WithRunFunc(func(a *App) error {
			name = a.Options().String("name")
			return nil
		}))

	cmd := a.Command()
	cmd.SetArgs([]string{"-name", "cobra"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "cobra", name)

	cmd = a.Command()
	cmd.SetOut(&h.out)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, h.out.String(), "Options:")
}
