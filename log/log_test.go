package log

import (
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"khetao.com/clikit/colors"
	"khetao.com/clikit/structured"
)

// captureOutput configures logging into a temp file, runs f and returns the
// lines written.
func captureOutput(t *testing.T, o *Options, f func()) []string {
	t.Helper()
	prevColors := colors.Enabled()
	colors.SetEnabled(false)
	defer colors.SetEnabled(prevColors)

	path := filepath.Join(t.TempDir(), "out.log")
	o.OutputPaths = []string{path}
	o.ErrorOutputPaths = []string{path}
	if err := Configure(o); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	defer func() {
		_ = Configure(DefaultOptions())
	}()

	f()
	_ = Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := strings.TrimRight(string(data), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestConsoleCategories(t *testing.T) {
	g := NewWithT(t)

	lines := captureOutput(t, DefaultOptions(), func() {
		Info("plain")
		Warnf("careful with %s", "this")
		Error("broken")
		Success("done")
		Debug("hidden")
	})

	g.Expect(lines).To(Equal([]string{
		"plain",
		"WARN\t| careful with this",
		"ERROR\t| broken",
		"SUCCESS\t| done",
	}))
}

func TestVerboseEnablesDebug(t *testing.T) {
	g := NewWithT(t)
	defer SetVerbose(false)

	lines := captureOutput(t, DefaultOptions(), func() {
		SetVerbose(true)
		Debugf("value=%d", 3)
	})

	g.Expect(lines).To(ConsistOf("DEBUG\t| value=3"))
}

func TestVerboseRestoresConfiguredLevels(t *testing.T) {
	g := NewWithT(t)

	quiet := RegisterScope("quietscope", "scope kept silent", 0)
	chatty := RegisterScope("chattyscope", "scope at warn", 0)
	o := DefaultOptions()
	o.SetOutputLevel("quietscope", NoneLevel)
	o.SetOutputLevel("chattyscope", WarnLevel)
	g.Expect(Configure(o)).To(Succeed())
	defer func() { _ = Configure(DefaultOptions()) }()

	SetVerbose(true)
	SetVerbose(true)
	g.Expect(quiet.GetOutputLevel()).To(Equal(DebugLevel))
	g.Expect(chatty.GetOutputLevel()).To(Equal(DebugLevel))

	SetVerbose(false)
	g.Expect(quiet.GetOutputLevel()).To(Equal(NoneLevel))
	g.Expect(chatty.GetOutputLevel()).To(Equal(WarnLevel))
	g.Expect(DefaultScope().GetOutputLevel()).To(Equal(InfoLevel))

	SetVerbose(false)
	g.Expect(chatty.GetOutputLevel()).To(Equal(WarnLevel))
}

func TestStructuredErrorAndLabels(t *testing.T) {
	g := NewWithT(t)

	ie := &structured.Error{Action: "pass -input", LikelyCause: "missing"}
	lines := captureOutput(t, DefaultOptions(), func() {
		Errorf(ie, "Missing required option: '%s'!", "input")
		WithLabels("k", "v").Info("labelled")
	})

	g.Expect(lines).To(HaveLen(2))
	g.Expect(lines[0]).To(Equal("ERROR\t| Missing required option: 'input'!\taction=pass -input likelyCause=missing"))
	g.Expect(lines[1]).To(Equal("labelled\tk=v"))
}

func TestJSONEncoding(t *testing.T) {
	g := NewWithT(t)

	o := DefaultOptions()
	o.JSONEncoding = true
	lines := captureOutput(t, o, func() {
		Success("shipped")
	})

	g.Expect(lines).To(HaveLen(1))
	g.Expect(lines[0]).To(ContainSubstring(`"level":"info"`))
	g.Expect(lines[0]).To(ContainSubstring(`"msg":"shipped"`))
	g.Expect(lines[0]).To(ContainSubstring(`"category":"success"`))
}

func TestScopeOutputLevels(t *testing.T) {
	g := NewWithT(t)

	s := RegisterScope("testscope", "scope under test", 0)
	o := DefaultOptions()
	o.SetOutputLevel("testscope", ErrorLevel)

	lines := captureOutput(t, o, func() {
		s.Warn("dropped")
		s.Error("kept")
	})
	g.Expect(lines).To(Equal([]string{"ERROR\t| kept"}))

	o.SetOutputLevel("nosuchscope", InfoLevel)
	g.Expect(Configure(o)).NotTo(Succeed())
	g.Expect(Configure(DefaultOptions())).To(Succeed())
}

func TestOptionsScopedLevels(t *testing.T) {
	g := NewWithT(t)

	o := DefaultOptions()
	l, err := o.GetOutputLevel(DefaultScopeName)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(l).To(Equal(InfoLevel))

	o.SetOutputLevel(DefaultScopeName, DebugLevel)
	o.SetOutputLevel("option", WarnLevel)
	g.Expect(o.GetOutputLevel(DefaultScopeName)).To(Equal(DebugLevel))
	g.Expect(o.GetOutputLevel("option")).To(Equal(WarnLevel))

	_, err = o.GetOutputLevel("missing")
	g.Expect(err).To(HaveOccurred())

	o.SetLogCallers("option", true)
	o.SetLogCallers("klog", true)
	o.SetLogCallers("option", false)
	g.Expect(o.GetLogCallers("option")).To(BeFalse())
	g.Expect(o.GetLogCallers("klog")).To(BeTrue())
}

func TestAttachFlags(t *testing.T) {
	g := NewWithT(t)

	o := DefaultOptions()
	var names []string
	o.AttachFlags(
		func(p *[]string, name string, value []string, usage string) { names = append(names, name) },
		func(p *string, name string, value string, usage string) { names = append(names, name) },
		func(p *int, name string, value int, usage string) { names = append(names, name) },
		func(p *bool, name string, value bool, usage string) {
			names = append(names, name)
			*p = true
		},
	)

	g.Expect(names).To(ContainElements("log_target", "log_as_json", "log_output_level", "log_rotate"))
	g.Expect(o.JSONEncoding).To(BeTrue())
}

func TestStackdriverRequiresProject(t *testing.T) {
	g := NewWithT(t)

	o := DefaultOptions().WithTeeToStackdriver("", "log", nil)
	g.Expect(Configure(o)).NotTo(Succeed())
}

func TestTeeToUDS(t *testing.T) {
	g := NewWithT(t)

	sock := filepath.Join(t.TempDir(), "log.sock")
	l, err := net.Listen("unix", sock)
	g.Expect(err).NotTo(HaveOccurred())

	var mu sync.Mutex
	var bodies []string
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(body))
		mu.Unlock()
	})}
	go func() { _ = srv.Serve(l) }()
	defer srv.Close()

	o := DefaultOptions().WithTeeToUDS(sock, "/logs")
	captureOutput(t, o, func() {
		Warn("over the socket")
	})

	mu.Lock()
	defer mu.Unlock()
	g.Expect(bodies).To(HaveLen(1))
	g.Expect(bodies[0]).To(ContainSubstring("over the socket"))
}

func TestLogrAdapter(t *testing.T) {
	g := NewWithT(t)

	s := RegisterScope("logrtest", "logr adapter under test", 0)
	lines := captureOutput(t, DefaultOptions(), func() {
		l := NewLogrAdapter(s).WithName("lib")
		l.Info("hello\n", "k", 1)
		l.V(9).Info("too detailed")
		l.Error(errors.New("bad"), "failed")
	})

	g.Expect(lines).To(Equal([]string{
		"lib: hello\tk=1",
		"ERROR\t| bad: lib: failed",
	}))
}

func TestParseLevel(t *testing.T) {
	g := NewWithT(t)

	g.Expect(ParseLevel("warn")).To(Equal(WarnLevel))
	_, err := ParseLevel("loud")
	g.Expect(err).To(HaveOccurred())
	g.Expect(levelChoices()).To(Equal("[debug, info, warn, error, fatal, none]"))

	_, _, err = parseScopedLevel("a:b:c")
	g.Expect(err).To(MatchError("invalid output level format 'a:b:c'"))
	g.Expect(setScopedLevel("info,klog:warn", DefaultScopeName, ErrorLevel)).To(Equal("default:error,klog:warn"))
}

func TestRemoteCoreCarriesCategory(t *testing.T) {
	g := NewWithT(t)

	rec := &recordingShipper{}
	local := zapcore.NewCore(newConsoleEncoder(), zapcore.AddSync(io.Discard), zapcore.InfoLevel)
	core := teeRemote(local, rec).With([]zapcore.Field{zap.String("tool", "demo")})

	g.Expect(core.Enabled(zapcore.DebugLevel)).To(BeFalse())
	ent := zapcore.Entry{Level: zapcore.InfoLevel, Message: "done"}
	if ce := core.Check(ent, nil); ce != nil {
		ce.Write(zap.String(categoryKey, string(CategorySuccess)))
	}
	g.Expect(core.Sync()).To(Succeed())

	g.Expect(rec.fields).To(HaveLen(1))
	g.Expect(rec.fields[0]).To(HaveKeyWithValue("tool", "demo"))
	g.Expect(rec.fields[0]).To(HaveKeyWithValue(categoryKey, "success"))
	g.Expect(rec.flushed).To(Equal(1))
}

type recordingShipper struct {
	fields  []map[string]any
	flushed int
}

func (r *recordingShipper) ship(_ zapcore.Entry, fields map[string]any) error {
	r.fields = append(r.fields, fields)
	return nil
}

func (r *recordingShipper) flush() error {
	r.flushed++
	return nil
}
