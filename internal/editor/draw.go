package editor

import (
	. "quill/internal/utils"

	"fmt"
	"strconv"

	. "github.com/gdamore/tcell"
)

const hiddenBanner = " quill is running in the background. Press any key or start quill again to show it. "

func (e *Editor) textTop() int {
	if e.IsTabBar { return 1 }
	return 0
}

// rows left for text between the buffer bar and the status line
func (e *Editor) textRows() int { return Max(e.ROWS-1-e.textTop(), 1) }

func (e *Editor) textColumns() int { return Max(e.COLUMNS-e.LINES_WIDTH, 1) }

func (e *Editor) tabWidth() int {
	if e.Config.TabWidth > 0 { return e.Config.TabWidth }
	return 4
}

// visual column of col in line, tabs expanded
func (e *Editor) visualCol(line []rune, col int) int {
	return col + CountTabsTo(line, col)*(e.tabWidth()-1)
}

func (e *Editor) DrawEverything() {
	e.Screen.Clear()
	if e.hidden.Load() {
		e.drawText(0, 0, e.COLUMNS, hiddenBanner, StyleDefault.Reverse(true))
		e.Screen.HideCursor()
		return
	}

	b := e.CurrentBuffer()
	if b.IsRecolor {
		b.Colors = e.Highlighter.Colorize(b.Text(), b.Lang, b.Filename)
		b.IsRecolor = false
	}
	if e.IsTabBar { e.DrawTabs() }

	e.scroll(b)
	top := e.textTop()
	for row := 0; row < e.textRows(); row++ {
		ry := row + b.Y // index to get right row in characters buffer by scrolling offset Y
		if ry >= len(b.Content) { break }
		e.DrawLineNumber(ry, top+row)

		vx := 0
		for cx, ch := range b.Content[ry] {
			style := e.GetStyle(b, ry, cx)
			width := 1
			if ch == '\t' { ch = ' '; width = e.tabWidth() }
			for i := 0; i < width; i++ {
				x := e.LINES_WIDTH + vx - b.X
				if x >= e.LINES_WIDTH && x < e.COLUMNS { e.Screen.SetContent(x, top+row, ch, nil, style) }
				vx++
			}
			if vx-b.X >= e.textColumns() { break }
		}
	}

	e.DrawStatus(b)
	e.Screen.ShowCursor(e.LINES_WIDTH+e.visualCol(b.Content[b.Row], b.Col)-b.X, top+b.Row-b.Y)
}

// scroll keeps the cursor inside the text area
func (e *Editor) scroll(b *Buffer) {
	rows := e.textRows()
	if b.Row < b.Y { b.Y = b.Row }
	if b.Row >= b.Y+rows { b.Y = b.Row - rows + 1 }

	vc := e.visualCol(b.Content[b.Row], b.Col)
	cols := e.textColumns()
	if vc < b.X { b.X = vc }
	if vc >= b.X+cols { b.X = vc - cols + 1 }
}

func (e *Editor) GetStyle(b *Buffer, row, col int) Style {
	style := StyleDefault
	if row < len(b.Colors) && col < len(b.Colors[row]) { style = style.Foreground(b.Colors[row][col]) }
	return style
}

func (e *Editor) DrawLineNumber(ry, y int) {
	style := StyleDefault.Foreground(ColorDimGray)
	if ry == e.CurrentBuffer().Row { style = StyleDefault.Foreground(AccentColor) }
	number := PadLeft(strconv.Itoa(ry+1), e.LINES_WIDTH-2)
	e.drawText(0, y, e.LINES_WIDTH, number, style)
}

func (e *Editor) DrawTabs() {
	x := 0
	for i, b := range e.Buffers {
		name := b.Filename
		if name == "" { name = "new " + strconv.Itoa(i+1) }
		if b.IsContentChanged { name += "*" }
		style := StyleDefault.Foreground(ColorGray)
		if i == e.Current { style = StyleDefault.Reverse(true) }
		x += e.drawText(x, 0, e.COLUMNS-x, " "+name+" ", style)
		if x >= e.COLUMNS { break }
	}
}

func (e *Editor) DrawStatus(b *Buffer) {
	name := b.Filename
	if name == "" { name = "new" }
	var changes = ""; if b.IsContentChanged { changes = "*" }
	var ro = ""; if b.IsReadOnly { ro = " [RO]" }
	lang := b.Lang
	if lang == "" { lang = "text" }

	status := fmt.Sprintf(" %s %d %d %s%s%s ", lang, b.Row+1, b.Col+1, name, changes, ro)
	if e.Status != "" { status += "| " + e.Status + " " }

	y := e.ROWS - 1
	for x := 0; x < e.COLUMNS; x++ { e.Screen.SetContent(x, y, ' ', nil, StyleDefault.Reverse(true)) }
	e.drawText(0, y, e.COLUMNS, status, StyleDefault.Reverse(true))
}

// drawText returns the number of cells written
func (e *Editor) drawText(x, y, maxWidth int, text string, style Style) int {
	n := 0
	for _, ch := range text {
		if n >= maxWidth { break }
		e.Screen.SetContent(x+n, y, ch, nil, style)
		n++
	}
	return n
}
