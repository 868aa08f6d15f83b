package token

import "fmt"

type TokenType int

type Token struct {
	Type    TokenType
	Literal string
	Line    int // 1-based
	Col     int // 1-based, in runes
}

func (t Token) String() string {
	return fmt.Sprintf("%v %q at %d:%d", t.Type, t.Literal, t.Line, t.Col)
}

const (
	ILLEGAL TokenType = iota

	// Whitespace
	NEWLINE
	EOF

	// Identifiers
	ID

	// Operators
	LAMBDA // \ or λ
	ASSIGN // =

	// Delimiters
	LPAREN // (
	RPAREN // )

	// Unused
	NUM_TOKEN_TYPES
)

var names = [...]string{
	ILLEGAL: "ILLEGAL",
	NEWLINE: "NEWLINE",
	EOF:     "EOF",
	ID:      "ID",
	LAMBDA:  "LAMBDA",
	ASSIGN:  "ASSIGN",
	LPAREN:  "LPAREN",
	RPAREN:  "RPAREN",
}

func (t TokenType) String() string {
	if t >= 0 && t < NUM_TOKEN_TYPES {
		return names[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Note that the order of these is significant if an operator
// is ever a prefix of another one.
func GetOperators() []Token {
	return []Token{
		{Type: LAMBDA, Literal: `\`},
		{Type: LAMBDA, Literal: "λ"},
		{Type: ASSIGN, Literal: "="},
		{Type: LPAREN, Literal: "("},
		{Type: RPAREN, Literal: ")"},
	}
}
