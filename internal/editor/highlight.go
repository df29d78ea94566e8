package editor

import (
	. "quill/internal/logger"

	"time"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/gdamore/tcell"
)

var QuillDark = styles.Register(chroma.MustNewStyle("quill", chroma.StyleEntries{
	chroma.Comment:             "#a8a8a8",
	chroma.Keyword:             "#FF69B4",
	chroma.KeywordNamespace:    "#FF69B4",
	chroma.String:              "#90EE90",
	chroma.LiteralStringDouble: "#90EE90",
	chroma.Literal:             "#90EE90",
	chroma.StringChar:          "#90EE90",
	chroma.KeywordType:         "#7FFFD4",
	chroma.KeywordDeclaration:  "#7FFFD4",
	chroma.KeywordReserved:     "#7FFFD4",
	chroma.NameTag:             "#7FFFD4",
	chroma.NameFunction:        "#7FFFD4",
	chroma.NumberInteger:       "#00BFFF",
	chroma.NameBuiltinPseudo:   "#FF69B4",
}))

var QuillLight = styles.Register(chroma.MustNewStyle("quill-light", chroma.StyleEntries{
	chroma.Comment:             "#707070",
	chroma.Keyword:             "#1132AC",
	chroma.KeywordNamespace:    "#1232AC",
	chroma.String:              "#65aa70",
	chroma.LiteralStringDouble: "#65aa70",
	chroma.Literal:             "#65aa70",
	chroma.KeywordType:         "#8B588A",
	chroma.KeywordDeclaration:  "#1232AC",
	chroma.NumberInteger:       "#284FE2",
	chroma.NameFunction:        "#286077",
}))

var AccentColor = tcell.GetColor("#FF69B4")

type Highlighter struct {
	style *chroma.Style
}

// NewHighlighter uses the named chroma style, unknown names get chroma's fallback.
func NewHighlighter(theme string) *Highlighter {
	h := &Highlighter{style: styles.Get(theme)}
	if c := h.style.Get(chroma.Keyword).Colour; c.IsSet() { AccentColor = tcell.GetColor(c.String()) }
	return h
}

// Colorize returns one colour per rune of code, line by line. lang wins over filename when set.
func (h *Highlighter) Colorize(code, lang, filename string) [][]tcell.Color {
	start := time.Now()

	var lexer chroma.Lexer
	if lang != "" { lexer = lexers.Get(lang) }
	if lexer == nil { lexer = lexers.Match(filename) }
	if lexer == nil { lexer = lexers.Fallback }

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		Log.Error("tokenization error:", err.Error())
		return nil
	}

	textColors := [][]tcell.Color{}
	for _, tokens := range chroma.SplitTokensIntoLines(iterator.Tokens()) {
		lineColors := []tcell.Color{}
		for _, token := range tokens {
			color := tcell.ColorDefault
			if c := h.style.Get(token.Type).Colour; c.IsSet() { color = tcell.GetColor(c.String()) }
			// copy color for each token character
			for _, ch := range token.Value {
				if ch == '\n' { continue }
				lineColors = append(lineColors, color)
			}
		}
		textColors = append(textColors, lineColors)
	}

	Log.Info("colorize end, elapsed: " + time.Since(start).String())
	return textColors
}
