package lexer

import (
	"lcalc/token"
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // line of the current char
	col          int  // column of the current char
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readRune()
	return l
}

func (l *Lexer) readRune() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	l.col++

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition += 1
	} else {
		runeVal, runeW := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = runeVal
		l.position = l.readPosition
		l.readPosition += runeW
	}
}

func (l *Lexer) NextToken() token.Token {
	l.consumeWhitespace()
	l.consumeComment()

	line, col := l.line, l.col

	var tok token.Token
	switch {
	case l.ch == 0:
		tok = newToken(token.EOF, "")
	case isNewline(l.ch):
		tok = newToken(token.NEWLINE, "\n")
		l.readRune()
	default:
		if pTok := l.consumeOperatorOrRewind(); pTok != nil {
			tok = *pTok
			break
		}

		if isIDChar(l.ch) {
			tok = newToken(token.ID, l.readIdentifier())
			break
		}

		tok = newToken(token.ILLEGAL, string(l.ch))
		l.readRune()
	}

	tok.Line, tok.Col = line, col
	return tok
}

func newToken(tokenType token.TokenType, str string) token.Token {
	return token.Token{Type: tokenType, Literal: str}
}

func (l *Lexer) readIdentifier() string {
	position := l.position

	for isIDChar(l.ch) {
		l.readRune()
	}

	return l.input[position:l.position]
}

func (l *Lexer) consumeWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == 0x85 || l.ch == 0xA0 { // NEL, NBSP
		l.readRune()
	}
}

func (l *Lexer) consumeComment() {
	if l.ch == '#' {
		for !isNewline(l.ch) && l.ch > 0 {
			l.readRune()
		}
	}
}

func (l *Lexer) consumeOperatorOrRewind() *token.Token {
	for _, tok := range token.GetOperators() {
		opStr := tok.Literal

		if len(l.input) >= l.position+len(opStr) &&
			l.input[l.position:l.position+len(opStr)] == opStr {
			// advance one rune at a time
			for n := 0; n < utf8.RuneCountInString(opStr); n++ {
				l.readRune()
			}
			return &tok
		}
	}

	// none found, so return nil
	return nil
}

// λ is a letter, but it is reserved for definitions.
func isIDChar(ch rune) bool {
	return ch != 'λ' && (unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_')
}

func isNewline(ch rune) bool {
	return ch == '\n' || ch == '\r' || ch == '\v' || ch == '\f'
}
