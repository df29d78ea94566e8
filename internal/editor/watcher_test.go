package editor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFileWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "example.txt")
	assert.NoError(t, os.WriteFile(file, []byte(`Hello, world!`), 0644))

	updateChan := make(chan string, 16)
	fw := NewFileWatcher(func(path string) { updateChan <- path })
	fw.StartWatch()
	defer fw.Stop()

	if err := fw.Watch(file); err != nil { t.Skip("file notifications unavailable:", err) }
	assert.NoError(t, fw.Watch(file))

	go func() {
		time.Sleep(100 * time.Millisecond)
		os.WriteFile(file, []byte(`file content changed`), 0644)
	}()

	select {
	case <-time.After(2 * time.Second):
		t.Error("file change was not reported")
	case path := <-updateChan:
		assert.True(t, sameFile(file, path), path)
	}
}

func TestFileWatcherStopTwice(t *testing.T) {
	fw := NewFileWatcher(func(string) {})
	fw.StartWatch()
	fw.Stop()
	fw.Stop()
	assert.NoError(t, fw.Watch(filepath.Join(t.TempDir(), "late.txt")))
}
