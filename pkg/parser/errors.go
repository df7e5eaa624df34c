package parser

import (
	"fmt"
	"strings"

	"pel/interpreter-go/pkg/source"
)

// SyntaxError is a lexing or parsing failure at a location.
type SyntaxError struct {
	Span    source.Span
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Span.IsZero() {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Span, e.Message)
}

func newSyntaxError(span source.Span, format string, args ...any) *SyntaxError {
	return &SyntaxError{Span: span, Message: fmt.Sprintf(format, args...)}
}

// ErrorList collects every syntax error reported for one file.
type ErrorList []*SyntaxError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no syntax errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d syntax errors:", len(l))
	for _, err := range l {
		b.WriteString("\n  ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Err returns nil for an empty list so callers can `return list.Err()`.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
