package parser

import (
	"math/big"
	"strconv"
	"unicode/utf8"

	"pel/interpreter-go/pkg/source"
)

type lexer struct {
	file *source.File
	src  string
	pos  int
	errs ErrorList
}

func newLexer(file *source.File) *lexer {
	return &lexer{file: file, src: file.Text()}
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) matchByte(b byte) bool {
	if l.peekByte() == b && l.pos < len(l.src) {
		l.pos++
		return true
	}
	return false
}

func (l *lexer) spanFrom(start int) source.Span {
	return l.file.Span(start, l.pos)
}

func (l *lexer) token(start int, typ TokenType) source.Located[Token] {
	return source.Located[Token]{Span: l.spanFrom(start), Value: Token{Type: typ, Text: l.src[start:l.pos]}}
}

// withEqual lexes a one-character operator that may be followed by '='.
func (l *lexer) withEqual(start int, plain, eq TokenType) source.Located[Token] {
	if l.matchByte('=') {
		return l.token(start, eq)
	}
	return l.token(start, plain)
}

// next returns the next token, skipping whitespace, comments and bad input.
// Lexing errors are recorded and lexing resumes after the offending text.
func (l *lexer) next() source.Located[Token] {
	for {
		if l.pos >= len(l.src) {
			return source.Located[Token]{Span: l.file.EOFSpan(), Value: Token{Type: EOF}}
		}
		start := l.pos
		c := l.src[l.pos]
		l.pos++

		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		case '/':
			if l.peekByte() == '/' {
				for l.pos < len(l.src) && l.src[l.pos] != '\n' {
					l.pos++
				}
				continue
			}
			return l.withEqual(start, Slash, SlashEqual)
		case '"':
			if tok, ok := l.stringLiteral(start); ok {
				return tok
			}
			continue
		case '(':
			return l.token(start, LParen)
		case ')':
			return l.token(start, RParen)
		case '[':
			return l.token(start, LBracket)
		case ']':
			return l.token(start, RBracket)
		case '{':
			return l.token(start, LBrace)
		case '}':
			return l.token(start, RBrace)
		case ';':
			return l.token(start, Semicolon)
		case '.':
			return l.token(start, Period)
		case ',':
			return l.token(start, Comma)
		case '=':
			return l.withEqual(start, Equal, DoubleEqual)
		case '!':
			return l.withEqual(start, Bang, BangEqual)
		case '+':
			return l.withEqual(start, Plus, PlusEqual)
		case '-':
			return l.withEqual(start, Minus, MinusEqual)
		case '*':
			return l.withEqual(start, Star, StarEqual)
		case '%':
			return l.withEqual(start, Percent, PercentEqual)
		case '>':
			return l.withEqual(start, Greater, GreaterEqual)
		case '<':
			return l.withEqual(start, Less, LessEqual)
		case '|':
			if l.matchByte('|') {
				return l.token(start, DoublePipe)
			}
			return l.token(start, Pipe)
		case '&':
			if l.matchByte('&') {
				return l.token(start, DoubleAmper)
			}
			return l.token(start, Amper)
		}

		switch {
		case isDigit(c):
			return l.number(start)
		case isAlpha(c) || c == '_':
			return l.identifier(start)
		}

		l.pos = start
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		l.pos += size
		if r < utf8.RuneSelf {
			l.errs = append(l.errs, newSyntaxError(l.spanFrom(start), "bad character '%c'", r))
		} else {
			l.errs = append(l.errs, newSyntaxError(l.spanFrom(start), "bad non-ascii character '%c'", r))
		}
	}
}

func (l *lexer) stringLiteral(start int) (source.Located[Token], bool) {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		l.pos++
		if c == '"' {
			tok := l.token(start, StringLit)
			tok.Value.Text = l.src[start+1 : l.pos-1]
			return tok, true
		}
	}
	l.errs = append(l.errs, newSyntaxError(l.spanFrom(start), "unterminated string literal"))
	return source.Located[Token]{}, false
}

func (l *lexer) number(start int) source.Located[Token] {
	for isDigit(l.peekByte()) {
		l.pos++
	}
	if l.peekByte() == '.' {
		l.pos++
		for isDigit(l.peekByte()) {
			l.pos++
		}
		tok := l.token(start, FloatLit)
		f, err := strconv.ParseFloat(tok.Value.Text, 64)
		if err != nil {
			l.errs = append(l.errs, newSyntaxError(tok.Span, "invalid float literal %q", tok.Value.Text))
		}
		tok.Value.Float = f
		return tok
	}
	tok := l.token(start, IntLit)
	// digits only, so SetString cannot fail
	tok.Value.Int, _ = new(big.Int).SetString(tok.Value.Text, 10)
	return tok
}

func (l *lexer) identifier(start int) source.Located[Token] {
	for c := l.peekByte(); isAlpha(c) || isDigit(c) || c == '_'; c = l.peekByte() {
		l.pos++
	}
	text := l.src[start:l.pos]
	switch text {
	case "true", "false":
		tok := l.token(start, BoolLit)
		tok.Value.Bool = text == "true"
		return tok
	}
	if kw, ok := keywords[text]; ok {
		return l.token(start, kw)
	}
	return l.token(start, Identifier)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

// Tokenize lexes the whole file, mainly for tooling and tests.
func Tokenize(file *source.File) ([]source.Located[Token], error) {
	l := newLexer(file)
	var toks []source.Located[Token]
	for {
		tok := l.next()
		toks = append(toks, tok)
		if tok.Value.Type == EOF {
			break
		}
	}
	return toks, l.errs.Err()
}
