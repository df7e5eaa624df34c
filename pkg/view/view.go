// Package view renders trace records as terminal text for interactive
// stepping.
package view

import (
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"pel/interpreter-go/pkg/ansi"
	"pel/interpreter-go/pkg/interpreter"
	"pel/interpreter-go/pkg/runtime"
	"pel/interpreter-go/pkg/source"
)

// Options control record rendering.
type Options struct {
	// Color enables 24-bit ANSI backgrounds; otherwise the primary region is
	// bracketed with [ and ].
	Color bool
	// Index is printed in the heading when positive.
	Index int
}

// Render writes the message, the highlighted source, the substituted form of
// the operation, the scope table and the output so far.
func Render(w io.Writer, rec interpreter.TraceRecord, opts Options) error {
	var b strings.Builder
	heading := rec.Message
	if opts.Index > 0 {
		heading = fmt.Sprintf("step %d: %s", opts.Index, rec.Message)
	}
	if opts.Color {
		heading = ansi.Wrap(heading, ansi.Bold)
	}
	b.WriteString(heading)
	b.WriteByte('\n')

	if !rec.Primary.IsZero() {
		fmt.Fprintf(&b, "  --> %s\n", rec.Primary)
		writeExcerpt(&b, rec, opts.Color)
	}
	if len(rec.Substitutions) > 0 {
		fmt.Fprintf(&b, "  = %s\n", Substitute(rec))
	}
	writeScopes(&b, rec.Snapshot)
	writeOutput(&b, rec.Snapshot.Output)
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderScopes writes only the scope table of a snapshot.
func RenderScopes(w io.Writer, snap interpreter.Snapshot) error {
	var b strings.Builder
	writeScopes(&b, snap)
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderOutput writes only the program output of a snapshot.
func RenderOutput(w io.Writer, output string) error {
	var b strings.Builder
	writeOutput(&b, output)
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderOutcome reports a terminal stepper state.
func RenderOutcome(w io.Writer, out interpreter.StepOutcome, color bool) error {
	var msg string
	switch {
	case out.State != interpreter.Finished:
		msg = fmt.Sprintf("interpreter is %s", out.State)
	case out.Err == nil:
		msg = "interpreter finished successfully"
	default:
		msg = "interpreter had error: " + out.Err.Error()
		if color {
			c := interpreter.ErrorColor
			msg = ansi.Wrap(msg, ansi.Foreground(c.R, c.G, c.B))
		}
	}
	_, err := io.WriteString(w, msg+"\n")
	return err
}

var lineBreak = regexp.MustCompile(`[ \t\r]*\n[ \t\r]*`)

// Substitute returns the source covering the primary span and every
// substituted region, with each substituted region replaced by its value.
func Substitute(rec interpreter.TraceRecord) string {
	if rec.Primary.IsZero() {
		return ""
	}
	region := rec.Primary
	subs := make([]interpreter.Substitution, 0, len(rec.Substitutions))
	for _, sub := range rec.Substitutions {
		if sub.Span.File != region.File {
			continue
		}
		region = region.Join(sub.Span)
		subs = append(subs, sub)
	}
	slices.SortStableFunc(subs, func(a, b interpreter.Substitution) int { return a.Span.Start - b.Span.Start })

	text := region.File.Text()
	var b strings.Builder
	pos := region.Start
	for _, sub := range subs {
		if sub.Span.Start < pos {
			continue
		}
		b.WriteString(text[pos:sub.Span.Start])
		b.WriteString(sub.Text)
		pos = sub.Span.End
	}
	b.WriteString(text[pos:region.End])
	return lineBreak.ReplaceAllString(b.String(), " ")
}

type style int

const (
	plain style = iota
	primary
	secondary
)

func writeExcerpt(b *strings.Builder, rec interpreter.TraceRecord, color bool) {
	file := rec.Primary.File
	first, _ := file.LineCol(rec.Primary.Start)
	last, _ := file.LineCol(rec.Primary.End)
	width := len(strconv.Itoa(last))
	for n := first; n <= last; n++ {
		start := file.LineStart(n)
		text := file.Line(n)
		fmt.Fprintf(b, "%*d | ", width, n)
		if color {
			writeColoredLine(b, rec, start, text)
		} else {
			writeBracketedLine(b, rec.Primary, start, text)
		}
		b.WriteByte('\n')
	}
}

func writeBracketedLine(b *strings.Builder, span source.Span, start int, text string) {
	end := start + len(text)
	for i := 0; i <= len(text); i++ {
		off := start + i
		if off == span.Start {
			b.WriteByte('[')
		}
		if off == span.End && (span.End > span.Start || off == span.Start) {
			b.WriteByte(']')
		}
		if off < end {
			b.WriteByte(text[i])
		}
	}
}

func writeColoredLine(b *strings.Builder, rec interpreter.TraceRecord, start int, text string) {
	styleAt := func(off int) style {
		for _, h := range rec.Secondary {
			if h.Span.File == rec.Primary.File && h.Span.Start <= off && off < h.Span.End {
				return secondary
			}
		}
		if rec.Primary.Start <= off && off < rec.Primary.End {
			return primary
		}
		return plain
	}
	secondaryColor := interpreter.SecondaryColor
	if len(rec.Secondary) > 0 {
		secondaryColor = rec.Secondary[0].Color
	}
	codes := map[style]string{
		primary:   ansi.Background(interpreter.PrimaryColor.R, interpreter.PrimaryColor.G, interpreter.PrimaryColor.B),
		secondary: ansi.Background(secondaryColor.R, secondaryColor.G, secondaryColor.B),
	}

	segStart, cur := 0, plain
	flush := func(i int) {
		if i == segStart {
			return
		}
		seg := text[segStart:i]
		if cur != plain {
			seg = ansi.Wrap(seg, codes[cur])
		}
		b.WriteString(seg)
		segStart = i
	}
	for i := range len(text) {
		if s := styleAt(start + i); s != cur {
			flush(i)
			cur = s
		}
	}
	flush(len(text))
}

func writeScopes(b *strings.Builder, snap interpreter.Snapshot) {
	b.WriteString("scopes:\n")
	if len(snap.Scopes) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for depth, scope := range snap.Scopes {
		if len(scope.Bindings) == 0 {
			fmt.Fprintf(b, "  #%d (empty)\n", depth)
			continue
		}
		for i := range scope.Bindings {
			binding := &scope.Bindings[i]
			prefix := "   "
			if i == 0 {
				prefix = fmt.Sprintf("#%d", depth)
			}
			if !binding.Initialized() {
				fmt.Fprintf(b, "  %-3s %s: %s\n", prefix, binding.Name, runtime.Display(nil))
				continue
			}
			fmt.Fprintf(b, "  %-3s %s: %s = %s\n", prefix, binding.Name, binding.Value.Kind(), runtime.Repr(binding.Value))
		}
	}
}

func writeOutput(b *strings.Builder, output string) {
	if output == "" {
		b.WriteString("output: (none)\n")
		return
	}
	b.WriteString("output:\n")
	for _, line := range strings.SplitAfter(strings.TrimSuffix(output, "\n"), "\n") {
		b.WriteString("  | ")
		b.WriteString(strings.TrimSuffix(line, "\n"))
		b.WriteByte('\n')
	}
}
