// Package diag renders located errors as source excerpts with carets under
// the offending region.
package diag

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"pel/interpreter-go/pkg/ansi"
	"pel/interpreter-go/pkg/interpreter"
	"pel/interpreter-go/pkg/parser"
	"pel/interpreter-go/pkg/source"
)

type located struct {
	message string
	span    source.Span
}

// Render writes err to w. Syntax and runtime errors carry a span and get a
// source excerpt; anything else is printed as a bare "error:" line.
func Render(w io.Writer, err error, color bool) error {
	if err == nil {
		return nil
	}
	var b strings.Builder
	for i, d := range collect(err) {
		if i > 0 {
			b.WriteByte('\n')
		}
		renderOne(&b, d, color)
	}
	_, werr := io.WriteString(w, b.String())
	return werr
}

func collect(err error) []located {
	var list parser.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		out := make([]located, len(list))
		for i, e := range list {
			out[i] = located{message: e.Message, span: e.Span}
		}
		return out
	}
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		return []located{{message: syntaxErr.Message, span: syntaxErr.Span}}
	}
	var runtimeErr *interpreter.RuntimeError
	if errors.As(err, &runtimeErr) {
		return []located{{message: runtimeErr.Error(), span: runtimeErr.Span}}
	}
	return []located{{message: err.Error()}}
}

func renderOne(b *strings.Builder, d located, color bool) {
	label := "error"
	var errCodes []string
	if color {
		c := interpreter.ErrorColor
		errCodes = []string{ansi.Bold, ansi.Foreground(c.R, c.G, c.B)}
		label = ansi.Wrap(label, errCodes...)
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(d.message)
	b.WriteByte('\n')
	if d.span.IsZero() {
		return
	}

	file := d.span.File
	line, col := file.LineCol(d.span.Start)
	endLine, endCol := file.LineCol(d.span.End)
	number := strconv.Itoa(line)
	gutter := strings.Repeat(" ", len(number))

	b.WriteString(gutter)
	b.WriteString("--> ")
	b.WriteString(file.Name())
	b.WriteByte(':')
	b.WriteString(number)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(col))
	b.WriteByte('\n')

	b.WriteString(gutter)
	b.WriteString(" |\n")

	text := file.Line(line)
	b.WriteString(number)
	b.WriteString(" | ")
	b.WriteString(text)
	b.WriteByte('\n')

	width := endCol - col
	if endLine != line {
		width = utf8.RuneCountInString(text) - col + 1
	}
	carets := strings.Repeat("^", max(width, 1))
	if color {
		carets = ansi.Wrap(carets, errCodes...)
	}
	b.WriteString(gutter)
	b.WriteString(" | ")
	b.WriteString(padding(text, col-1))
	b.WriteString(carets)
	b.WriteByte('\n')
}

// padding reproduces the first n characters of text as blanks, keeping tabs
// so the carets line up under tab-indented code.
func padding(text string, n int) string {
	var b strings.Builder
	for _, r := range text {
		if n == 0 {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
		n--
	}
	b.WriteString(strings.Repeat(" ", n))
	return b.String()
}
