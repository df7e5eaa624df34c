package parser

import (
	"fmt"
	"math/big"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Punctuation
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Semicolon
	Period
	Comma
	Equal

	// Operators
	Bang
	Plus
	Minus
	Star
	Slash
	Percent
	Pipe
	Amper
	DoublePipe
	DoubleAmper
	PlusEqual
	MinusEqual
	StarEqual
	SlashEqual
	PercentEqual
	BangEqual
	DoubleEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals & identifiers
	Identifier
	IntLit
	FloatLit
	StringLit
	BoolLit

	// Keywords
	KwIf
	KwElse
	KwFor
	KwWhile
	KwBreak
	KwContinue
	KwVar
	KwReturn
	KwFn
	KwAssign
	KwTo
	KwPrint
	KwMake
)

var tokenNames = map[TokenType]string{
	EOF:          "end of file",
	LParen:       "'('",
	RParen:       "')'",
	LBracket:     "'['",
	RBracket:     "']'",
	LBrace:       "'{'",
	RBrace:       "'}'",
	Semicolon:    "';'",
	Period:       "'.'",
	Comma:        "','",
	Equal:        "'='",
	Bang:         "'!'",
	Plus:         "'+'",
	Minus:        "'-'",
	Star:         "'*'",
	Slash:        "'/'",
	Percent:      "'%'",
	Pipe:         "'|'",
	Amper:        "'&'",
	DoublePipe:   "'||'",
	DoubleAmper:  "'&&'",
	PlusEqual:    "'+='",
	MinusEqual:   "'-='",
	StarEqual:    "'*='",
	SlashEqual:   "'/='",
	PercentEqual: "'%='",
	BangEqual:    "'!='",
	DoubleEqual:  "'=='",
	Greater:      "'>'",
	GreaterEqual: "'>='",
	Less:         "'<'",
	LessEqual:    "'<='",
	Identifier:   "identifier",
	IntLit:       "integer literal",
	FloatLit:     "float literal",
	StringLit:    "string literal",
	BoolLit:      "boolean literal",
	KwIf:         "'if'",
	KwElse:       "'else'",
	KwFor:        "'for'",
	KwWhile:      "'while'",
	KwBreak:      "'break'",
	KwContinue:   "'continue'",
	KwVar:        "'var'",
	KwReturn:     "'return'",
	KwFn:         "'fn'",
	KwAssign:     "'assign'",
	KwTo:         "'to'",
	KwPrint:      "'print'",
	KwMake:       "'make'",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

var keywords = map[string]TokenType{
	"if":       KwIf,
	"else":     KwElse,
	"for":      KwFor,
	"while":    KwWhile,
	"break":    KwBreak,
	"continue": KwContinue,
	"var":      KwVar,
	"return":   KwReturn,
	"fn":       KwFn,
	"assign":   KwAssign,
	"to":       KwTo,
	"print":    KwPrint,
	"make":     KwMake,
}

// Token is a lexeme with its decoded literal payload. Only the field matching
// Type is meaningful.
type Token struct {
	Type  TokenType
	Text  string
	Int   *big.Int
	Float float64
	Bool  bool
}
