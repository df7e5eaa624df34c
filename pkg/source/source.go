package source

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"
)

// File is a loaded, immutable source text.
type File struct {
	name       string
	text       string
	lineStarts []int
}

// NewFile wraps source text under the given display name.
func NewFile(name, text string) *File {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &File{name: name, text: text, lineStarts: starts}
}

// Load reads a file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	return NewFile(path, string(data)), nil
}

// Name returns the display name of the file.
func (f *File) Name() string { return f.name }

// Text returns the full source text.
func (f *File) Text() string { return f.text }

// LineCount reports the number of lines, counting a trailing partial line.
func (f *File) LineCount() int { return len(f.lineStarts) }

// Line returns the 1-based line n without its terminator.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lineStarts) {
		return ""
	}
	start := f.lineStarts[n-1]
	end := len(f.text)
	if n < len(f.lineStarts) {
		end = f.lineStarts[n] - 1
	}
	return strings.TrimSuffix(f.text[start:end], "\r")
}

// LineStart returns the byte offset at which 1-based line n begins.
func (f *File) LineStart(n int) int {
	if n < 1 {
		return 0
	}
	if n > len(f.lineStarts) {
		return len(f.text)
	}
	return f.lineStarts[n-1]
}

// LineCol converts a byte offset into a 1-based line and a 1-based column
// counted in characters.
func (f *File) LineCol(offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.text) {
		offset = len(f.text)
	}
	idx := sort.Search(len(f.lineStarts), func(i int) bool { return f.lineStarts[i] > offset }) - 1
	if idx < 0 {
		idx = 0
	}
	col := utf8.RuneCountInString(f.text[f.lineStarts[idx]:offset]) + 1
	return idx + 1, col
}

// Span returns a span over [start, end) in this file.
func (f *File) Span(start, end int) Span {
	return NewSpan(f, start, end)
}

// EOFSpan is the zero-length span at the end of the text.
func (f *File) EOFSpan() Span {
	return Span{File: f, Start: len(f.text), End: len(f.text)}
}
