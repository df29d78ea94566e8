package editor

import (
	. "quill/internal/logger"

	"fmt"
	"os"
	"path/filepath"
)

// Emergency writes every modified buffer into dir as <index>-<name>. It runs after a fault,
// so it only reads buffer content and never touches the screen.
func (e *Editor) Emergency(dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		Log.Error("recovery dir:", err.Error())
		return false
	}

	saved := true
	for i, b := range e.Buffers {
		if b == nil || !b.IsContentChanged { continue }

		name := b.Filename
		if name == "" { name = "new" }
		path := filepath.Join(dir, fmt.Sprintf("%d-%s", i+1, name))

		if err := os.WriteFile(path, []byte(b.Text()), 0644); err != nil {
			Log.Error("recover", name+":", err.Error())
			saved = false
			continue
		}
		Log.Info("recovered", path)
	}
	return saved
}
