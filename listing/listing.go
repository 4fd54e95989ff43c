// Package listing turns source text into numbered lines with at most one
// highlighted line.
package listing

import "strings"

// Line is one numbered source line.
type Line struct {
	Number      int    `json:"number"`
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted"`
}

// Listing is source text split into lines.
type Listing struct {
	Lines []Line `json:"lines"`
	// Highlighted is the highlighted line number, or 0 for none.
	Highlighted int `json:"highlighted"`
}

// Highlight splits source into 1-based numbered lines and marks line. A
// line of 0, or one past the end of the source, highlights nothing.
func Highlight(source string, line int) Listing {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	texts := strings.Split(source, "\n")

	l := Listing{Lines: make([]Line, len(texts))}
	for i, text := range texts {
		n := i + 1
		l.Lines[i] = Line{Number: n, Text: text, Highlighted: n == line}
	}
	if line >= 1 && line <= len(texts) {
		l.Highlighted = line
	}
	return l
}
