package source

import "testing"

func TestLineCol(t *testing.T) {
	cases := []struct {
		text      string
		offset    int
		line, col int
	}{
		{"abc\n", 0, 1, 1},
		{"abc\n", 1, 1, 2},
		{"abc\n", 2, 1, 3},
		{"abc\n", 3, 1, 4},
		{"abc\nabcde", 4, 2, 1},
		{"abc\nabcde", 5, 2, 2},
		{"é\nx", 2, 1, 2},
	}
	for _, tc := range cases {
		file := NewFile("line_col", tc.text)
		line, col := file.LineCol(tc.offset)
		if line != tc.line || col != tc.col {
			t.Fatalf("LineCol(%q, %d) = (%d, %d), want (%d, %d)", tc.text, tc.offset, line, col, tc.line, tc.col)
		}
	}
}

func TestLineText(t *testing.T) {
	file := NewFile("lines", "first\r\nsecond\nthird")
	if file.LineCount() != 3 {
		t.Fatalf("expected 3 lines, got %d", file.LineCount())
	}
	if got := file.Line(1); got != "first" {
		t.Fatalf("line 1 = %q", got)
	}
	if got := file.Line(3); got != "third" {
		t.Fatalf("line 3 = %q", got)
	}
	if got := file.Line(4); got != "" {
		t.Fatalf("line 4 = %q, want empty", got)
	}
}

func TestSpanJoinAndString(t *testing.T) {
	file := NewFile("demo.pel", "var x = 1 + 2;\nprint x;")
	left := file.Span(8, 9)
	right := file.Span(12, 13)
	joined := left.Join(right)
	if joined.Start != 8 || joined.End != 13 {
		t.Fatalf("unexpected join %d..%d", joined.Start, joined.End)
	}
	if joined.Text() != "1 + 2" {
		t.Fatalf("joined text = %q", joined.Text())
	}
	if got := joined.String(); got != "demo.pel:1:9-14" {
		t.Fatalf("String() = %q", got)
	}
	if got := file.Span(8, 23).String(); got != "demo.pel:(1:9)-(2:9)" {
		t.Fatalf("multi-line String() = %q", got)
	}
	if got := file.EOFSpan().String(); got != "demo.pel:2:9" {
		t.Fatalf("eof String() = %q", got)
	}
}

func TestSpanJoinDifferentFilesPanics(t *testing.T) {
	a := NewFile("a", "x")
	b := NewFile("b", "x")
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when joining spans from different files")
		}
	}()
	a.Span(0, 1).Join(b.Span(0, 1))
}

func TestSpanEquality(t *testing.T) {
	a := NewFile("same", "abc")
	b := NewFile("same", "abc")
	if !a.Span(0, 1).Equal(a.Span(0, 1)) {
		t.Fatalf("identical spans should be equal")
	}
	if a.Span(0, 1).Equal(b.Span(0, 1)) {
		t.Fatalf("spans from different file values must not be equal")
	}
}
