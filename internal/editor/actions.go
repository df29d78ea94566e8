package editor

import (
	. "quill/internal/logger"
	. "quill/internal/utils"

	. "github.com/gdamore/tcell"
)

func (e *Editor) HandleKeyboard(key Key, ch rune, modifiers ModMask) {
	b := e.CurrentBuffer()

	// quitting or closing with unsaved changes needs the same key twice
	if key == KeyCtrlQ { e.OnQuit(); return }
	if key == KeyCtrlW { e.OnCloseBuffer(); return }
	e.confirm = ""

	switch key {
	case KeyCtrlS: e.OnSave()
	case KeyCtrlN: e.SwitchBuffer(1)
	case KeyCtrlP: e.SwitchBuffer(-1)
	case KeyUp: b.OnUp()
	case KeyDown: b.OnDown()
	case KeyLeft: b.OnLeft()
	case KeyRight: b.OnRight()
	case KeyHome: b.OnHome()
	case KeyEnd: b.OnEnd()
	case KeyPgUp: b.OnPageUp(e.textRows())
	case KeyPgDn: b.OnPageDown(e.textRows())
	case KeyEnter: e.edit(b, b.NewLine)
	case KeyBackspace, KeyBackspace2: e.edit(b, b.Backspace)
	case KeyDelete: e.edit(b, b.Delete)
	case KeyTab: e.edit(b, func() { b.InsertRune('\t') })
	case KeyRune:
		if modifiers&ModAlt != 0 { return }
		e.edit(b, func() { b.InsertRune(ch) })
	}
}

func (e *Editor) edit(b *Buffer, action func()) {
	if b.IsReadOnly { e.Status = b.Filename + " is read only"; return }
	action()
}

func (e *Editor) OnSave() {
	b := e.CurrentBuffer()
	if err := b.Save(); err != nil {
		Log.Error("save:", err.Error())
		e.Status = "not saved: " + err.Error()
		return
	}
	e.Status = "saved " + b.AbsoluteFilePath
	Log.Info(e.Status)
}

func (e *Editor) SwitchBuffer(step int) {
	n := len(e.Buffers)
	if n == 0 { return }
	e.Current = ((e.Current+step)%n + n) % n
}

func (e *Editor) hasUnsaved() bool {
	for _, b := range e.Buffers {
		if b.IsContentChanged { return true }
	}
	return false
}

func (e *Editor) OnQuit() {
	if e.hasUnsaved() && e.confirm != "quit" {
		e.confirm = "quit"
		e.Status = "unsaved changes, press Ctrl+Q again to quit"
		return
	}
	e.quit = true
}

func (e *Editor) OnCloseBuffer() {
	b := e.CurrentBuffer()
	if b.IsContentChanged && e.confirm != "close" {
		e.confirm = "close"
		e.Status = "unsaved changes, press Ctrl+W again to close"
		return
	}
	e.confirm = ""
	e.CloseBuffer(e.Current)
}

// CloseBuffer drops buffer i. The last buffer is replaced with an empty one.
func (e *Editor) CloseBuffer(i int) {
	if i < 0 || i >= len(e.Buffers) { return }
	Log.Info("close", e.Buffers[i].AbsoluteFilePath)
	e.Buffers = Remove(e.Buffers, i)
	if i < e.Current { e.Current-- }
	if len(e.Buffers) == 0 { e.Buffers = append(e.Buffers, NewBuffer()) }
	e.Current = Clamp(e.Current, 0, len(e.Buffers)-1)
}
