package editor

import (
	"testing"

	"github.com/alecthomas/chroma/styles"
	"github.com/gdamore/tcell"
	"github.com/stretchr/testify/assert"
)

func TestQuillStyleIsRegistered(t *testing.T) {
	assert.Equal(t, "quill", styles.Get("quill").Name)
	assert.Equal(t, "quill-light", styles.Get("quill-light").Name)
}

func TestColorizeGivesOneColorPerRune(t *testing.T) {
	h := NewHighlighter("quill")
	code := "package main\n\nfunc main() {\n\tprintln(\"é\")\n}"

	colors := h.Colorize(code, "go", "")
	assert.Len(t, colors, 5)
	assert.Len(t, colors[0], len("package main"))
	assert.Len(t, colors[1], 0)
	assert.Len(t, colors[3], len([]rune("\tprintln(\"é\")")))
	assert.Equal(t, tcell.GetColor("#FF69B4"), colors[0][0])
}

func TestColorizeDetectsFromFileName(t *testing.T) {
	h := NewHighlighter("quill")
	forced := h.Colorize("package main", "", "main.go")
	assert.Equal(t, tcell.GetColor("#FF69B4"), forced[0][0])

	plain := h.Colorize("package main", "", "notes.qqqzz")
	assert.Len(t, plain, 1)
	assert.Equal(t, tcell.ColorDefault, plain[0][0])
}

func TestUnknownThemeFallsBack(t *testing.T) {
	h := NewHighlighter("no-such-theme")
	assert.NotNil(t, h.Colorize("x := 1", "go", ""))
}
