package crash

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	. "quill/internal/logger"
)

const ExitCrash = 1

// Notifier shows a modal notice and returns once the user has seen it.
type Notifier interface {
	Notice(title, message string, isError bool)
}

// EmergencySaver writes whatever unsaved work it can into dir.
type EmergencySaver interface {
	Emergency(dir string) bool
}

func RecoveryDir(name string) string {
	return filepath.Join(os.TempDir(), name)
}

// Guard is the fault boundary around the main loop. It handles at most one fault
// and is uninstalled before recovery runs, a broken process must not fault into itself again.
type Guard struct {
	RecoveryDir string

	notifier Notifier
	saver    EmergencySaver

	mu        sync.Mutex
	installed bool
	previous  bool
	once      sync.Once
}

func NewGuard(recoveryDir string, notifier Notifier, saver EmergencySaver) *Guard {
	return &Guard{RecoveryDir: recoveryDir, notifier: notifier, saver: saver}
}

// Install makes memory faults on the calling goroutine panic instead of killing the process.
func (g *Guard) Install() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.installed { return }
	g.previous = debug.SetPanicOnFault(true)
	g.installed = true
}

func (g *Guard) Uninstall() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.installed { return }
	debug.SetPanicOnFault(g.previous)
	g.installed = false
}

func (g *Guard) IsInstalled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.installed
}

// Run calls loop inside the boundary. It must be called on the goroutine that runs the loop.
func (g *Guard) Run(loop func() int) (exitCode int) {
	g.Install()
	defer func() {
		if r := recover(); r != nil {
			fault := Classify(r)
			if fault.Stack == nil { fault.Stack = debug.Stack() }
			exitCode = g.Handle(fault)
		}
	}()

	exitCode = loop()
	g.Uninstall()
	return exitCode
}

// Handle runs the recovery sequence once. The process is expected to exit with the returned code.
func (g *Guard) Handle(r any) int {
	fault := Classify(r)
	g.once.Do(func() { g.recoverFrom(fault) })
	return ExitCrash
}

func (g *Guard) recoverFrom(fault *Fault) {
	g.Uninstall()
	Log.Error(fault.Title()+":", fault.Error())
	if fault.Stack != nil { Log.Error(string(fault.Stack)) }

	details := fault.Details()
	if report, err := g.writeReport(fault); err != nil {
		Log.Error("crash report:", err.Error())
	} else {
		details += "\nA crash report was written to " + report
	}

	g.notifier.Notice("Recovery initiating", details+
		"\n\nquill will attempt to save any unsaved data. However, dataloss is very likely.", true)

	if g.emergency() {
		g.notifier.Notice("Recovery success", "quill was able to successfully recover some unsaved documents, "+
			"or nothing to be saved could be found.\nYou can find the results at :\n"+g.RecoveryDir, false)
	} else {
		g.notifier.Notice("Recovery failure", "Unfortunately, quill was not able to save your work. "+
			"We are sorry for any lost data.", true)
	}
}

// writeReport leaves the fault and its stack next to the recovered files, the log may be off.
func (g *Guard) writeReport(fault *Fault) (string, error) {
	if err := os.MkdirAll(g.RecoveryDir, 0755); err != nil { return "", err }

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n\n%s\n", fault.Title(), fault.Error(), fault.Details())
	if fault.Stack != nil {
		sb.WriteString("\n")
		sb.Write(fault.Stack)
	}

	path := filepath.Join(g.RecoveryDir, "crash-"+time.Now().Format("20060102-150405")+".log")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil { return "", err }
	return path, nil
}

// a second panic while saving counts as a failed save
func (g *Guard) emergency() (saved bool) {
	defer func() {
		if r := recover(); r != nil {
			Log.Error("emergency save panicked:", Classify(r).Error())
			saved = false
		}
	}()
	Log.Info("emergency save into", g.RecoveryDir)
	return g.saver.Emergency(g.RecoveryDir)
}
