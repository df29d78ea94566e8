package editor

import (
	. "quill/internal/config"
	. "quill/internal/logger"
	. "quill/internal/utils"
	"quill/internal/instance"
	"quill/internal/launch"

	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/gdamore/tcell"
	"github.com/gdamore/tcell/encoding"
)

type Editor struct {
	COLUMNS     int // terminal size columns
	ROWS        int // terminal size rows
	LINES_WIDTH int // draw file lines number

	Screen Screen  // Screen for drawing
	Config *Config // theme, tab width, session file

	Buffers []*Buffer // open documents
	Current int       // index of the buffer on screen

	Params      launch.CmdLineParams // what this instance was started with
	Status      string               // one-off message in the status line
	IsTabBar    bool                 // false with -notabbar
	Highlighter *Highlighter
	Watcher     *FileWatcher

	hidden  atomic.Bool // started with -systemtray and not activated yet
	ready   atomic.Bool // screen is initialised, events can be posted and notices drawn
	quit    bool
	confirm string // action waiting for a second key press
	closed  bool

	requestsMu sync.Mutex
	requests   []interface{} // posted from other goroutines, handled by the loop
}

// requests posted to the main loop from other goroutines
type showRequest struct{ mode instance.ShowMode }
type openRequest struct {
	params launch.CmdLineParams
	files  []string
}
type reloadRequest struct{ path string }

func NewEditor(conf *Config) *Editor {
	if conf == nil { conf = DefaultConfig() }
	return &Editor{
		Config:      conf,
		LINES_WIDTH: 6,
		IsTabBar:    true,
		Params:      launch.NewCmdLineParams(),
		Highlighter: NewHighlighter(conf.Theme),
	}
}

// Init brings the editor up with the files of a quoted block ("a" "b" ) and the launch flags.
func (e *Editor) Init(quotedFileNames string, params *launch.CmdLineParams) error {
	start := time.Now()
	if params != nil { e.Params = *params }
	p := e.Params

	if err := e.InitScreen(); err != nil { return err }
	e.hidden.Store(p.IsPreLaunch)
	e.IsTabBar = !p.IsNoTab

	e.Watcher = NewFileWatcher(func(path string) { e.post(reloadRequest{path}) })
	e.Watcher.StartWatch()

	if !p.IsNoSession { e.RestoreSession() }
	e.LoadCommandlineParams(p, launch.SplitFileNames(quotedFileNames))
	if len(e.Buffers) == 0 { e.Buffers = append(e.Buffers, NewBuffer()) }

	if p.IsPointXValid || p.IsPointYValid {
		Log.Info(fmt.Sprintf("window position %d,%d ignored in a terminal", p.PointX, p.PointY))
	}
	if p.IsNoPlugin { Log.Info("plugins disabled") }
	if p.IsPreLaunch { Log.Info("started hidden") }
	if p.ShowLoadingTime { e.Status = "loading time: " + time.Since(start).Round(time.Millisecond).String() }

	Log.Info("editor ready with", fmt.Sprint(len(e.Buffers)), "buffers")
	return nil
}

func (e *Editor) InitScreen() error {
	if e.Screen == nil {
		encoding.Register()
		screen, err := NewScreen()
		if err != nil { return fmt.Errorf("create screen: %w", err) }
		e.Screen = screen
	}

	if err := e.Screen.Init(); err != nil { return fmt.Errorf("init screen: %w", err) }
	e.Screen.Clear()
	e.COLUMNS, e.ROWS = e.Screen.Size()
	e.ready.Store(true)
	return nil
}

func (e *Editor) RestoreSession() {
	path := e.Config.GetSessionPath()
	session, err := LoadSession(path)
	if err != nil { Log.Info("no session restored:", err.Error()); return }

	for _, file := range session.Files {
		if _, err := os.Stat(file); err != nil { continue }
		if _, err := e.OpenFile(file); err != nil { Log.Error("session file:", err.Error()) }
	}
	if len(e.Buffers) > 0 { e.Current = Clamp(session.Current, 0, len(e.Buffers)-1) }
}

func (e *Editor) SaveSession() {
	session := Session{}
	for i, b := range e.Buffers {
		if b.AbsoluteFilePath == "" { continue }
		if i == e.Current { session.Current = len(session.Files) }
		session.Files = append(session.Files, b.AbsoluteFilePath)
	}
	if err := session.Save(e.Config.GetSessionPath()); err != nil { Log.Error("save session:", err.Error()) }
}

// OpenFile shows path, reading it unless a buffer for it is already open.
func (e *Editor) OpenFile(path string) (*Buffer, error) {
	b, err := ReadBuffer(path)
	if err != nil { return nil, err }

	for i, open := range e.Buffers {
		if open.AbsoluteFilePath == b.AbsoluteFilePath {
			e.Current = i
			return open, nil
		}
	}

	// an untouched new buffer gives its place to the first opened file
	if len(e.Buffers) == 1 && e.Buffers[0].AbsoluteFilePath == "" && !e.Buffers[0].IsContentChanged {
		e.Buffers = e.Buffers[:0]
	}
	e.Buffers = append(e.Buffers, b)
	e.Current = len(e.Buffers) - 1
	if e.Watcher != nil {
		if err := e.Watcher.Watch(b.AbsoluteFilePath); err != nil { Log.Error("watch:", err.Error()) }
	}
	Log.Info("open", b.AbsoluteFilePath)
	return b, nil
}

// LoadCommandlineParams opens files and applies the flags: read only and language to every file,
// line and column to the last one.
func (e *Editor) LoadCommandlineParams(params launch.CmdLineParams, files []string) {
	var last *Buffer
	for _, file := range files {
		b, err := e.OpenFile(file)
		if err != nil {
			Log.Error("open:", err.Error())
			e.Status = err.Error()
			continue
		}
		if params.IsReadOnly { b.IsReadOnly = true }
		if params.LangType != launch.LangExternal {
			b.Lang = params.LangType
			b.IsLangForced = true
			b.IsRecolor = true
		}
		last = b
	}
	if last == nil { return }

	row, col := last.Row, last.Col
	if params.IsLine2GoValid { row, col = params.Line2Go-1, 0 }
	if params.IsColumn2GoValid { col = params.Column2Go - 1 }
	last.GoTo(row, col)
}

func (e *Editor) CurrentBuffer() *Buffer {
	if len(e.Buffers) == 0 { e.Buffers = append(e.Buffers, NewBuffer()) }
	e.Current = Clamp(e.Current, 0, len(e.Buffers)-1)
	return e.Buffers[e.Current]
}

// Loop draws and handles events until the user quits.
func (e *Editor) Loop() int {
	Log.Info("main loop started")
	for !e.quit {
		e.HandleRequests()
		e.DrawEverything()
		e.Screen.Show()
		e.HandleEvents()
	}

	if !e.Params.IsNoSession { e.SaveSession() }
	e.Close()
	return 0
}

// Close releases the screen and the watcher. Safe to call more than once.
func (e *Editor) Close() {
	if e.closed { return }
	e.closed = true
	if e.Watcher != nil { e.Watcher.Stop() }
	if e.ready.Swap(false) { e.Screen.Fini() }
}

func (e *Editor) HandleEvents() {
	ev := e.Screen.PollEvent()
	switch ev := ev.(type) {
	case nil:
		e.quit = true // screen finalised

	case *EventResize:
		e.COLUMNS, e.ROWS = e.Screen.Size()
		e.Screen.Sync()

	case *EventInterrupt:
		e.HandleRequests()

	case *EventKey:
		if e.hidden.Load() && ev.Key() != KeyCtrlQ {
			e.hidden.Store(false)
			return
		}
		e.HandleKeyboard(ev.Key(), ev.Rune(), ev.Modifiers())
	}
}

// HandleRequests applies everything queued by post, in arrival order.
func (e *Editor) HandleRequests() {
	e.requestsMu.Lock()
	requests := e.requests
	e.requests = nil
	e.requestsMu.Unlock()

	for _, req := range requests { e.HandleRequest(req) }
}

func (e *Editor) HandleRequest(data interface{}) {
	switch req := data.(type) {
	case showRequest:
		// a terminal cannot be raised, showing means leaving the hidden state
		e.hidden.Store(false)
		e.Screen.Sync()
		e.Status = "activated (" + req.mode.String() + ")"

	case openRequest:
		e.LoadCommandlineParams(req.params, req.files)

	case reloadRequest:
		e.OnFileChanged(req.path)
	}
}

func (e *Editor) OnFileChanged(path string) {
	for _, b := range e.Buffers {
		if b.IsContentChanged || !sameFile(b.AbsoluteFilePath, path) { continue }
		if err := b.Reload(); err != nil { Log.Error("reload:", err.Error()); continue }
		Log.Info("reloaded", b.AbsoluteFilePath)
	}
}

func sameFile(a, b string) bool {
	if a == "" || b == "" { return false }
	if a == b { return true }
	sa, err := os.Stat(a)
	if err != nil { return false }
	sb, err := os.Stat(b)
	if err != nil { return false }
	return os.SameFile(sa, sb)
}

// post queues a request for the loop goroutine. The server starts before the screen,
// so requests wait in the queue until the loop runs and are never dropped.
func (e *Editor) post(data interface{}) {
	e.requestsMu.Lock()
	e.requests = append(e.requests, data)
	e.requestsMu.Unlock()

	// Screen is only read once ready is set, InitScreen assigns it before that
	if !e.ready.Load() { return }
	if err := e.Screen.PostEvent(NewEventInterrupt(nil)); err != nil {
		// a full queue wakes the loop anyway, the request is picked up after that event
		Log.Info("post event:", err.Error())
	}
}

// window state as seen by another instance

func (e *Editor) IsZoomed() bool { return false }
func (e *Editor) IsIconic() bool { return e.hidden.Load() }

func (e *Editor) ShowWindow(mode instance.ShowMode) { e.post(showRequest{mode}) }

func (e *Editor) OnOpen(params launch.CmdLineParams, files []string) {
	e.post(openRequest{params, files})
}

// Notice draws on the screen while it is up and falls back to stderr otherwise.
func (e *Editor) Notice(title, message string, isError bool) {
	if e.ready.Load() {
		NewModalNotifier(e.Screen).Notice(title, message, isError)
		return
	}
	ConsoleNotifier{}.Notice(title, message, isError)
}
