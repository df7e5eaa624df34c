package source

import "fmt"

// Span references the half-open byte range [Start, End) of a File.
type Span struct {
	File  *File
	Start int
	End   int
}

// NewSpan builds a span, panicking when end precedes start.
func NewSpan(file *File, start, end int) Span {
	if start > end {
		panic(fmt.Sprintf("source: span ends (%d) before it starts (%d)", end, start))
	}
	return Span{File: file, Start: start, End: end}
}

// IsZero reports whether the span references no file.
func (s Span) IsZero() bool {
	return s.File == nil
}

// Equal compares file identity and offsets.
func (s Span) Equal(other Span) bool {
	return s.File == other.File && s.Start == other.Start && s.End == other.End
}

// Len is the span length in bytes.
func (s Span) Len() int { return s.End - s.Start }

// Text returns the covered source text.
func (s Span) Text() string {
	if s.File == nil {
		return ""
	}
	return s.File.text[s.Start:s.End]
}

// Join returns the smallest span covering both s and other. Both spans must
// belong to the same file.
func (s Span) Join(other Span) Span {
	if s.File != other.File {
		panic("source: cannot join spans from different files")
	}
	return Span{File: s.File, Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

func (s Span) String() string {
	if s.File == nil {
		return "<unknown>"
	}
	startLine, startCol := s.File.LineCol(s.Start)
	endLine, endCol := s.File.LineCol(s.End)
	switch {
	case startLine != endLine:
		return fmt.Sprintf("%s:(%d:%d)-(%d:%d)", s.File.name, startLine, startCol, endLine, endCol)
	case startCol == endCol:
		return fmt.Sprintf("%s:%d:%d", s.File.name, startLine, startCol)
	default:
		return fmt.Sprintf("%s:%d:%d-%d", s.File.name, startLine, startCol, endCol)
	}
}

// Located pairs a value with the span it came from.
type Located[T any] struct {
	Span  Span
	Value T
}
