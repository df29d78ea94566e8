package cmdline

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Params is the argument vector left after the executable path.
// Recognised flags are removed from it one by one, whatever remains are file names.
type Params []string

// Tokenize splits a raw command line the way the editor has always done it.
// The first token is the executable and is skipped.
func Tokenize(commandLine string) Params {
	return TokenizeWith(commandLine, IsSingleFile)
}

func TokenizeWith(commandLine string, isFile func(string) bool) Params {
	line := []rune(commandLine)
	end := len(line)
	if nul := slices.Index(line, 0); nul >= 0 { end = nul }

	i := 0
	stopChar := ' '
	if end > 0 && line[0] == '"' { stopChar = '"'; i++ }
	for i < end && line[i] != stopChar { i++ }

	// "quill" with nothing after it: do not step past the end
	if i < end { i++ }
	for i < end && line[i] == ' ' { i++ }

	rest := string(line[i:end])
	if rest == "" { return Params{} }

	// an unquoted path with spaces still opens as one file
	if isFile(rest) { return Params{rest} }

	return Split(rest)
}

// Split scans line into tokens. A quote toggles quoted mode and never ends up in a token,
// blanks outside quotes separate tokens. Bad quoting is not an error: boundaries are best effort.
func Split(line string) Params {
	buf := []rune(line)
	end := len(buf)
	if nul := slices.Index(buf, 0); nul >= 0 { end = nul }

	cuts := make([]bool, end)
	starts := []int{}
	isInFile := false
	isInWhiteSpace := true

	for i := 0; i < end; i++ {
		switch buf[i] {
		case '"':
			// a quote always starts or ends a param, even without a blank before it
			if !isInFile { starts = append(starts, i+1) }
			isInFile = !isInFile
			isInWhiteSpace = false
			cuts[i] = true
		case ' ', '\t':
			isInWhiteSpace = true
			if !isInFile { cuts[i] = true }
		default:
			if !isInFile && isInWhiteSpace {
				starts = append(starts, i)
				isInWhiteSpace = false
			}
		}
	}

	params := Params{}
	for _, start := range starts {
		stop := start
		for stop < end && !cuts[stop] { stop++ }
		if stop == start { continue }
		params = append(params, string(buf[start:stop]))
	}
	return params
}

func IsSingleFile(commandLine string) bool {
	fullpath, err := filepath.Abs(commandLine)
	if err != nil { return false }
	_, err = os.Stat(fullpath)
	return err == nil
}

// IsInList removes the first token equal to flag and reports whether it was there.
func (p *Params) IsInList(flag string) bool {
	for i, param := range *p {
		if param == flag {
			*p = slices.Delete(*p, i, i+1)
			return true
		}
	}
	return false
}

// GetParamVal removes the first "-<c><value>" token and returns its value.
func (p *Params) GetParamVal(c byte) (string, bool) {
	for i, token := range *p {
		if len(token) >= 2 && token[0] == '-' && token[1] == c {
			*p = slices.Delete(*p, i, i+1)
			return token[2:], true
		}
	}
	return "", false
}

// GetNumberFromParam returns -1, false when the flag is absent. A present flag with
// garbage after the letter counts as present with value 0.
func (p *Params) GetNumberFromParam(c byte) (int, bool) {
	value, found := p.GetParamVal(c)
	if !found { return -1, false }
	return Atoi(value), true
}

// Atoi parses like C atoi: leading blanks, an optional sign, then as many digits as there are.
// The result saturates at the 32-bit range, the launch record carries int32 fields.
func Atoi(s string) int {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	negative := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		negative = s[0] == '-'
		s = s[1:]
	}

	var n int64
	for _, ch := range s {
		if ch < '0' || ch > '9' { break }
		n = min(n*10+int64(ch-'0'), math.MaxInt32+1)
	}
	if negative { return int(-n) }
	return int(min(n, math.MaxInt32))
}
