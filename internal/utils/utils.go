package utils

import (
	"strings"
)

func Max(x, y int) int {
	if x < y { return y }
	return x
}

func Min(x, y int) int {
	if x <= y { return x }
	return y
}

// Clamp keeps v inside [low, high]. high wins when the range is empty.
func Clamp(v, low, high int) int {
	return Min(Max(v, low), high)
}

func InsertTo[T any](a []T, index int, value T) []T {
	if index >= len(a) { return append(a, value) }
	a = append(a[:index+1], a[index:]...)
	a[index] = value
	return a
}

func Remove[T any](slice []T, s int) []T {
	return append(slice[:s], slice[s+1:]...)
}

func ConvertContentToString(content [][]rune) string {
	var result strings.Builder
	for i, row := range content {
		for _, ch := range row { result.WriteRune(ch) }
		if i != len(content)-1 { result.WriteByte('\n') }
	}
	return result.String()
}

// ContentFromString splits text into rune lines. CRLF endings are folded, an empty text is one empty line.
func ContentFromString(text string) [][]rune {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	content := make([][]rune, 0, len(lines))
	for _, line := range lines {
		content = append(content, []rune(line))
	}
	return content
}

func CountTabsTo(str []rune, stopIndex int) int {
	count := 0
	for i, char := range str {
		if i >= stopIndex { break }
		if char == '\t' { count++ }
	}
	return count
}

func PadLeft(str string, length int) string {
	if len(str) >= length { return str }
	return strings.Repeat(" ", length-len(str)) + str
}
