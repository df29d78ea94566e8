package editor

import (
	. "quill/internal/logger"

	"path/filepath"
	"sync"

	"github.com/rjeczalik/notify"
)

// FileWatcher reports writes in the directories of open buffers.
type FileWatcher struct {
	events   chan notify.EventInfo
	onUpdate func(path string)
	dirs     map[string]bool
	mu       sync.Mutex
	started  bool
	stopped  bool
	done     chan struct{}
}

func NewFileWatcher(onUpdate func(path string)) *FileWatcher {
	return &FileWatcher{
		events:   make(chan notify.EventInfo, 16),
		onUpdate: onUpdate,
		dirs:     map[string]bool{},
		done:     make(chan struct{}),
	}
}

func (fw *FileWatcher) StartWatch() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.started || fw.stopped { return }
	fw.started = true
	go func() {
		defer close(fw.done)
		for e := range fw.events { fw.onUpdate(e.Path()) }
	}()
}

// Watch adds the directory of path. Directories are watched once and not recursively.
func (fw *FileWatcher) Watch(path string) error {
	dir := filepath.Dir(path)
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.stopped || fw.dirs[dir] { return nil }

	if err := notify.Watch(dir, fw.events, notify.Write|notify.Create|notify.Rename); err != nil { return err }
	fw.dirs[dir] = true
	Log.Info("watching", dir)
	return nil
}

func (fw *FileWatcher) Stop() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.stopped { return }
	fw.stopped = true
	notify.Stop(fw.events)
	close(fw.events)
	if fw.started { <-fw.done }
}
