package editor

import (
	. "quill/internal/logger"
	. "quill/internal/utils"

	"fmt"
	"io"
	"os"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/atotto/clipboard"
	. "github.com/gdamore/tcell"
)

const noticeHelp = " [Enter] close  [c] copy "

// ModalNotifier draws a centred box over the screen and blocks until it is dismissed.
type ModalNotifier struct {
	Screen Screen
	Copy   func(text string) error // clipboard.WriteAll unless replaced
}

func NewModalNotifier(screen Screen) *ModalNotifier {
	return &ModalNotifier{Screen: screen, Copy: clipboard.WriteAll}
}

func (n *ModalNotifier) Notice(title, message string, isError bool) {
	text := stripansi.Strip(message)
	copied := false

	for {
		n.draw(title, text, isError, copied)
		n.Screen.Show()

		switch ev := n.Screen.PollEvent().(type) {
		case nil:
			return // screen is gone
		case *EventResize:
			n.Screen.Sync()
		case *EventKey:
			if ev.Key() == KeyEnter || ev.Key() == KeyEscape { return }
			if ev.Key() == KeyRune && (ev.Rune() == 'c' || ev.Rune() == 'C') {
				if err := n.Copy(title + "\n" + text); err != nil {
					Log.Error("copy notice:", err.Error())
				} else {
					copied = true
				}
			}
		}
	}
}

func (n *ModalNotifier) draw(title, text string, isError, copied bool) {
	cols, rows := n.Screen.Size()
	lines := strings.Split(strings.ReplaceAll(text, "\t", "    "), "\n")

	width := len([]rune(title)) + 4
	width = Max(width, len(noticeHelp)+2)
	for _, line := range lines { width = Max(width, len([]rune(line))+4) }
	width = Min(width, cols)
	height := Min(len(lines)+4, rows)

	left := Max((cols-width)/2, 0)
	top := Max((rows-height)/2, 0)

	style := StyleDefault.Background(ColorNavy).Foreground(ColorWhite)
	if isError { style = StyleDefault.Background(ColorMaroon).Foreground(ColorWhite) }

	for y := top; y < top+height; y++ {
		for x := left; x < left+width; x++ {
			ch := ' '
			switch {
			case y == top || y == top+height-1:
				ch = '─'
			case x == left || x == left+width-1:
				ch = '│'
			}
			n.Screen.SetContent(x, y, ch, nil, style)
		}
	}
	n.Screen.SetContent(left, top, '┌', nil, style)
	n.Screen.SetContent(left+width-1, top, '┐', nil, style)
	n.Screen.SetContent(left, top+height-1, '└', nil, style)
	n.Screen.SetContent(left+width-1, top+height-1, '┘', nil, style)

	n.text(left+2, top, width-4, " "+title+" ", style.Bold(true))
	for i, line := range lines {
		if top+2+i >= top+height-1 { break }
		n.text(left+2, top+2+i, width-4, line, style)
	}
	help := noticeHelp
	if copied { help = " copied to clipboard " }
	n.text(left+width-len(help)-1, top+height-1, len(help), help, style)
	n.Screen.HideCursor()
}

func (n *ModalNotifier) text(x, y, maxWidth int, s string, style Style) {
	for i, ch := range []rune(s) {
		if i >= maxWidth { break }
		n.Screen.SetContent(x+i, y, ch, nil, style)
	}
}

// ConsoleNotifier is used when there is no screen to draw on.
type ConsoleNotifier struct {
	Out io.Writer
}

func (n ConsoleNotifier) Notice(title, message string, isError bool) {
	out := n.Out
	if out == nil { out = os.Stderr }
	prefix := ""
	if isError { prefix = "error: " }
	fmt.Fprintf(out, "%s%s\n%s\n", prefix, title, stripansi.Strip(message))
}
