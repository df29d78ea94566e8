package launch

import (
	"path/filepath"
	"strings"

	"quill/internal/cmdline"
)

// ResolveFileNames makes relative names absolute against the current directory,
// the running instance may live somewhere else.
func ResolveFileNames(files []string) []string {
	resolved := make([]string, 0, len(files))
	for _, file := range files {
		if !filepath.IsAbs(file) {
			if full, err := filepath.Abs(file); err == nil { file = full }
		}
		resolved = append(resolved, file)
	}
	return resolved
}

// QuoteFileNames builds the `"a" "b" ` block handed to the editor or to the running instance.
func QuoteFileNames(files []string) string {
	var quotFileName strings.Builder
	for _, file := range files {
		quotFileName.WriteString(`"`)
		quotFileName.WriteString(file)
		quotFileName.WriteString(`" `)
	}
	return quotFileName.String()
}

func SplitFileNames(block string) []string {
	return []string(cmdline.Split(block))
}
