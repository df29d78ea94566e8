package startup

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quill/internal/config"
	"quill/internal/crash"
	"quill/internal/editor"
	"quill/internal/instance"
	"quill/internal/launch"

	"github.com/gdamore/tcell"
	"github.com/stretchr/testify/assert"
)

type fakeHost struct {
	quoted   string
	params   *launch.CmdLineParams
	initErr  error
	loop     func() int
	loops    int
	closed   int
	notices  []string
	saveDirs []string
}

func (h *fakeHost) IsZoomed() bool { return false }
func (h *fakeHost) IsIconic() bool { return false }
func (h *fakeHost) ShowWindow(mode instance.ShowMode) {}
func (h *fakeHost) OnOpen(params launch.CmdLineParams, files []string) {}

func (h *fakeHost) Notice(title, message string, isError bool) { h.notices = append(h.notices, title) }

func (h *fakeHost) Emergency(dir string) bool {
	h.saveDirs = append(h.saveDirs, dir)
	return true
}

func (h *fakeHost) Init(quoted string, params *launch.CmdLineParams) error {
	h.quoted, h.params = quoted, params
	return h.initErr
}

func (h *fakeHost) Loop() int {
	h.loops++
	if h.loop != nil { return h.loop() }
	return 0
}

func (h *fakeHost) Close() { h.closed++ }

type fakeChannel struct {
	found    bool
	lookups  int
	payloads []instance.Payload
}

func (c *fakeChannel) FindRunningInstance() (instance.Handle, bool) {
	c.lookups++
	return instance.Handle{Address: "fake"}, c.found
}

func (c *fakeChannel) Activate(h instance.Handle) error { return nil }

func (c *fakeChannel) SendPayload(h instance.Handle, p instance.Payload) error {
	c.payloads = append(c.payloads, p)
	return nil
}

type closer struct{ closed int }

func (c *closer) Close() error { c.closed++; return nil }

type fixture struct {
	env      Env
	host     *fakeHost
	channel  *fakeChannel
	server   *closer
	listened []string
	chdirs   []string
	locked   int
	released int
	stdout   bytes.Buffer
	stderr   bytes.Buffer
	hosts    int
}

func newFixture(t *testing.T, first bool) *fixture {
	f := &fixture{host: &fakeHost{}, channel: &fakeChannel{}, server: &closer{}}

	conf := config.DefaultConfig()
	conf.InstallDir = t.TempDir()
	conf.RecoveryDir = "quill-recovery-test"
	t.Cleanup(func() { os.RemoveAll(crash.RecoveryDir(conf.RecoveryDir)) })

	arbiter := instance.NewArbiter(conf.InstanceName, f.channel)
	arbiter.Acquire = func(string) (func(), bool, error) {
		f.locked++
		return func() { f.released++ }, first, nil
	}
	arbiter.Sleep = func(time.Duration) {}

	f.env = Env{
		Config:  conf,
		Stdout:  &f.stdout,
		Stderr:  &f.stderr,
		Channel: f.channel,
		Arbiter: arbiter,
		NewHost: func(*config.Config) Host { f.hosts++; return f.host },
		Listen: func(name string, handler instance.Handler) (io.Closer, error) {
			f.listened = append(f.listened, name)
			return f.server, nil
		},
		Chdir: func(dir string) error { f.chdirs = append(f.chdirs, dir); return nil },
	}
	return f
}

func TestHelpPrintsUsageAndExits(t *testing.T) {
	f := newFixture(t, true)

	assert.Equal(t, ExitOK, Run("quill --help a.txt", f.env))
	assert.Equal(t, launch.Usage, f.stdout.String())
	assert.Equal(t, 0, f.hosts)
	assert.Empty(t, f.chdirs)
}

func TestSecondInstanceForwardsAndExits(t *testing.T) {
	f := newFixture(t, false)
	f.channel.found = true

	assert.Equal(t, ExitOK, Run("quill -ro -n12 a.txt", f.env))

	abs, err := filepath.Abs("a.txt")
	assert.NoError(t, err)
	assert.Len(t, f.channel.payloads, 1)
	payload := f.channel.payloads[0]
	assert.Equal(t, `"`+abs+`" `, payload.FileNames)
	assert.True(t, payload.Params.IsReadOnly)
	assert.Equal(t, 12, payload.Params.Line2Go)

	assert.Equal(t, []string{f.env.Config.InstallDir}, f.chdirs)
	assert.Equal(t, 0, f.hosts)
	assert.Empty(t, f.listened)
	assert.Equal(t, 1, f.released)
}

func TestFirstInstanceListensAndRunsHost(t *testing.T) {
	f := newFixture(t, true)
	f.host.loop = func() int { return 0 }

	assert.Equal(t, 0, Run("quill -notabbar b.txt", f.env))

	abs, _ := filepath.Abs("b.txt")
	assert.Equal(t, `"`+abs+`" `, f.host.quoted)
	assert.True(t, f.host.params.IsNoTab)
	assert.Equal(t, []string{config.DefaultInstanceName}, f.listened)
	assert.Equal(t, 1, f.server.closed)
	assert.Equal(t, 1, f.host.closed)
	assert.Equal(t, 0, f.channel.lookups)
	assert.Equal(t, 1, f.locked)
	assert.Equal(t, 1, f.released)
}

func TestUnreachableInstanceRunsWithoutServer(t *testing.T) {
	f := newFixture(t, false)

	assert.Equal(t, 0, Run("quill", f.env))
	assert.Equal(t, 1+instance.DefaultRetries, f.channel.lookups)
	assert.Equal(t, 1, f.host.loops)
	assert.Empty(t, f.listened)
	assert.Equal(t, "", f.host.quoted)
}

func TestMultiInstSkipsLookup(t *testing.T) {
	f := newFixture(t, false)
	f.channel.found = true

	assert.Equal(t, 0, Run("quill -multiInst c.txt", f.env))
	assert.Equal(t, 0, f.channel.lookups)
	assert.Equal(t, 1, f.host.loops)
}

func TestNotepadStyleForcesMultiInstance(t *testing.T) {
	f := newFixture(t, false)
	f.channel.found = true
	f.env.Config.NotepadStyle = true

	assert.Equal(t, 0, Run("quill c.txt", f.env))
	assert.Equal(t, 0, f.channel.lookups)
	assert.True(t, f.host.params.IsNoTab)
	assert.True(t, f.host.params.IsNoSession)
}

func TestFaultInLoopRunsRecovery(t *testing.T) {
	f := newFixture(t, true)
	f.host.loop = func() int {
		var buffers []string
		return len(buffers[3])
	}

	assert.Equal(t, crash.ExitCrash, Run("quill", f.env))
	assert.Equal(t, []string{filepath.Join(os.TempDir(), "quill-recovery-test")}, f.host.saveDirs)
	assert.Equal(t, []string{"Recovery initiating", "Recovery success"}, f.host.notices)
	assert.Equal(t, 1, f.host.closed)
	assert.Equal(t, 1, f.server.closed)
}

func TestInitFailureSkipsLoop(t *testing.T) {
	f := newFixture(t, true)
	f.host.initErr = errors.New("no terminal")

	assert.Equal(t, ExitInitFailure, Run("quill", f.env))
	assert.Equal(t, 0, f.host.loops)
	assert.Contains(t, f.stderr.String(), "no terminal")
	assert.Equal(t, 1, f.host.closed)
}

func TestListenFailureStillRunsHost(t *testing.T) {
	f := newFixture(t, true)
	f.env.Listen = func(string, instance.Handler) (io.Closer, error) { return nil, errors.New("address in use") }

	assert.Equal(t, 0, Run("quill", f.env))
	assert.Equal(t, 1, f.host.loops)
}

func TestDefaultsFallBackToValidInstanceName(t *testing.T) {
	conf := config.DefaultConfig()
	conf.InstanceName = "///"
	env := Env{Config: conf}
	env.defaults()

	assert.Equal(t, config.DefaultInstanceName, conf.InstanceName)
	assert.IsType(t, &instance.SocketChannel{}, env.Channel)
	assert.NotNil(t, env.Arbiter)
	assert.NotNil(t, env.NewHost(conf))
}

// quitting runs the real editor on a simulation screen and quits once the loop starts
type quitting struct{ *editor.Editor }

func (q quitting) Loop() int {
	q.Screen.(tcell.SimulationScreen).InjectKey(tcell.KeyCtrlQ, 0, tcell.ModNone)
	return q.Editor.Loop()
}

func TestForwardDuringStartupReachesEditor(t *testing.T) {
	f := newFixture(t, true)
	f.env.Config.Session = filepath.Join(t.TempDir(), "session.yaml")
	path := filepath.Join(t.TempDir(), "early.txt")
	assert.NoError(t, os.WriteFile(path, []byte("early"), 0644))

	var host *editor.Editor
	f.env.NewHost = func(conf *config.Config) Host {
		host = editor.NewEditor(conf)
		host.Screen = tcell.NewSimulationScreen("UTF-8")
		return quitting{host}
	}
	// a second instance forwards as soon as the server accepts, before the screen exists
	f.env.Listen = func(name string, handler instance.Handler) (io.Closer, error) {
		handler.ShowWindow(instance.ChooseShowMode(handler.IsZoomed(), handler.IsIconic()))
		handler.OnOpen(launch.NewCmdLineParams(), []string{path})
		return f.server, nil
	}

	assert.Equal(t, 0, Run("quill -systemtray", f.env))
	assert.False(t, host.IsIconic())
	assert.Len(t, host.Buffers, 1)
	assert.Equal(t, path, host.Buffers[0].AbsoluteFilePath)
	assert.Equal(t, 1, f.server.closed)
}
