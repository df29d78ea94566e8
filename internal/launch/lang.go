package launch

import (
	"strings"

	"github.com/alecthomas/chroma/lexers"
)

// LangExternal means no language was forced, the host picks one from the file name.
const LangExternal = ""

// GetLangIDFromStr maps a user supplied name or alias ("py", "golang", "C++") to chroma's lexer name.
func GetLangIDFromStr(name string) string {
	name = strings.TrimSpace(name)
	if name == "" { return LangExternal }

	lexer := lexers.Get(name)
	if lexer == nil { return LangExternal }
	config := lexer.Config()
	if config == nil { return LangExternal }
	return strings.ToLower(config.Name)
}

func DetectLang(filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil { return LangExternal }
	config := lexer.Config()
	if config == nil { return LangExternal }
	return strings.ToLower(config.Name)
}
