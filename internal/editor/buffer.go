package editor

import (
	. "quill/internal/logger"
	. "quill/internal/utils"
	"quill/internal/launch"

	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell"
)

// Buffer is one open document.
type Buffer struct {
	Filename         string // base name shown in the bar, empty for a new document
	AbsoluteFilePath string // empty for a new document

	Content [][]rune        // text characters
	Colors  [][]tcell.Color // text characters colors, recomputed when IsRecolor is set

	Lang             string // chroma lexer name
	IsLangForced     bool   // -l was given, do not detect from the file name
	IsContentChanged bool   // shows * if buffer is changed
	IsReadOnly       bool
	IsRecolor        bool

	Row int // cursor position row
	Col int // cursor position column
	Y   int // row offset for scrolling
	X   int // col offset for scrolling
}

func NewBuffer() *Buffer {
	return &Buffer{Content: [][]rune{{}}, IsRecolor: true}
}

// ReadBuffer loads path into a new buffer. A file that does not exist yet opens empty.
func ReadBuffer(path string) (*Buffer, error) {
	abs, err := filepath.Abs(path)
	if err != nil { return nil, err }

	b := NewBuffer()
	b.AbsoluteFilePath = abs
	b.Filename = filepath.Base(abs)
	b.Lang = launch.DetectLang(b.Filename)

	data, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		Log.Info("new file", abs)
		return b, nil
	}
	if err != nil { return nil, fmt.Errorf("read %s: %w", abs, err) }

	b.Content = ContentFromString(string(data))
	return b, nil
}

// Reload replaces the content with what is on disk, keeping the cursor where it still fits.
func (b *Buffer) Reload() error {
	if b.AbsoluteFilePath == "" { return nil }
	data, err := os.ReadFile(b.AbsoluteFilePath)
	if err != nil { return err }

	b.Content = ContentFromString(string(data))
	b.IsContentChanged = false
	b.IsRecolor = true
	b.GoTo(b.Row, b.Col)
	return nil
}

func (b *Buffer) Save() error {
	if b.AbsoluteFilePath == "" { return errors.New("buffer has no file name") }
	if b.IsReadOnly { return fmt.Errorf("%s is read only", b.Filename) }

	err := os.WriteFile(b.AbsoluteFilePath, []byte(ConvertContentToString(b.Content)), 0644)
	if err != nil { return err }
	b.IsContentChanged = false
	return nil
}

func (b *Buffer) Text() string { return ConvertContentToString(b.Content) }

// GoTo moves the cursor to a zero based row and column, clamped to the content.
func (b *Buffer) GoTo(row, col int) {
	b.Row = Clamp(row, 0, len(b.Content)-1)
	b.Col = Clamp(col, 0, len(b.Content[b.Row]))
}

func (b *Buffer) OnUp() { b.GoTo(b.Row-1, b.Col) }
func (b *Buffer) OnDown() { b.GoTo(b.Row+1, b.Col) }
func (b *Buffer) OnHome() { b.Col = 0 }
func (b *Buffer) OnEnd() { b.Col = len(b.Content[b.Row]) }

func (b *Buffer) OnLeft() {
	if b.Col > 0 { b.Col--; return }
	if b.Row > 0 { b.Row--; b.Col = len(b.Content[b.Row]) }
}

func (b *Buffer) OnRight() {
	if b.Col < len(b.Content[b.Row]) { b.Col++; return }
	if b.Row < len(b.Content)-1 { b.Row++; b.Col = 0 }
}

func (b *Buffer) OnPageUp(rows int) { b.GoTo(b.Row-rows, b.Col) }
func (b *Buffer) OnPageDown(rows int) { b.GoTo(b.Row+rows, b.Col) }

func (b *Buffer) changed() {
	b.IsContentChanged = true
	b.IsRecolor = true
}

func (b *Buffer) InsertRune(ch rune) {
	if b.IsReadOnly { return }
	b.Content[b.Row] = InsertTo(b.Content[b.Row], b.Col, ch)
	b.Col++
	b.changed()
}

func (b *Buffer) NewLine() {
	if b.IsReadOnly { return }
	line := b.Content[b.Row]
	after := append([]rune{}, line[b.Col:]...)
	b.Content[b.Row] = line[:b.Col]
	b.Content = InsertTo(b.Content, b.Row+1, after)
	b.Row++; b.Col = 0
	b.changed()
}

func (b *Buffer) Backspace() {
	if b.IsReadOnly { return }
	if b.Col > 0 {
		b.Col--
		b.Content[b.Row] = Remove(b.Content[b.Row], b.Col)
		b.changed()
		return
	}
	if b.Row == 0 { return }

	// join with the previous line
	prev := b.Content[b.Row-1]
	b.Col = len(prev)
	b.Content[b.Row-1] = append(prev, b.Content[b.Row]...)
	b.Content = Remove(b.Content, b.Row)
	b.Row--
	b.changed()
}

func (b *Buffer) Delete() {
	if b.IsReadOnly { return }
	if b.Col < len(b.Content[b.Row]) {
		b.Content[b.Row] = Remove(b.Content[b.Row], b.Col)
		b.changed()
		return
	}
	if b.Row == len(b.Content)-1 { return }

	b.Content[b.Row] = append(b.Content[b.Row], b.Content[b.Row+1]...)
	b.Content = Remove(b.Content, b.Row+1)
	b.changed()
}
