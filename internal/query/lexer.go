package query

import "unicode"

// Lexer tokenizes a query expression. Lexing is context dependent: the
// token immediately after a comparator is read as a raw value so that
// globs like *.rs and sizes like 1Mb survive as single tokens.
type Lexer struct {
	input           string
	position        int
	readPosition    int
	ch              byte
	afterComparator bool
}

// NewLexer creates a lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// NextToken returns the next token in the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	startPosition := l.position

	if l.afterComparator && l.ch != 0 && l.ch != '(' && l.ch != ')' {
		l.afterComparator = false
		return l.readValue(startPosition)
	}

	switch l.ch {
	case '(':
		l.readChar()
		return NewToken(LPAREN, "(", startPosition)
	case ')':
		l.readChar()
		return NewToken(RPAREN, ")", startPosition)
	case '+':
		l.readChar()
		return NewToken(PLUS, "+", startPosition)
	case '-':
		l.readChar()
		return NewToken(MINUS, "-", startPosition)
	case '=':
		l.readChar()
		l.afterComparator = true
		return NewToken(EQ, "=", startPosition)
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			l.afterComparator = true
			return NewToken(NEQ, "!=", startPosition)
		}
		l.readChar()
		return NewToken(ILLEGAL, "!", startPosition)
	case '<':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			l.afterComparator = true
			return NewToken(LTE, "<=", startPosition)
		}
		l.afterComparator = true
		return NewToken(LT, "<", startPosition)
	case '>':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			l.afterComparator = true
			return NewToken(GTE, ">=", startPosition)
		}
		l.afterComparator = true
		return NewToken(GT, ">", startPosition)
	case 0:
		return NewToken(EOF, "", startPosition)
	default:
		if isIdentifierChar(l.ch) {
			literal := l.readIdentifier()
			return NewToken(IDENT, literal, startPosition)
		}
		ch := l.ch
		l.readChar()
		return NewToken(ILLEGAL, string(ch), startPosition)
	}
}

// readValue reads the value token after a comparator. Quoted values may
// carry an i, r or ri modifier; unquoted values run until whitespace,
// a parenthesis or the end of input.
func (l *Lexer) readValue(startPosition int) Token {
	if l.ch == '\'' || l.ch == '"' {
		return l.readString(startPosition, "")
	}

	if l.ch == 'i' || l.ch == 'r' {
		switch {
		case l.ch == 'i' && (l.peekChar() == '\'' || l.peekChar() == '"'):
			l.readChar()
			return l.readString(startPosition, "i")
		case l.ch == 'r' && (l.peekChar() == '\'' || l.peekChar() == '"'):
			l.readChar()
			return l.readString(startPosition, "r")
		case l.ch == 'r' && l.peekChar() == 'i':
			quote := byte(0)
			if l.readPosition+1 < len(l.input) {
				quote = l.input[l.readPosition+1]
			}
			if quote == '\'' || quote == '"' {
				l.readChar()
				l.readChar()
				return l.readString(startPosition, "ri")
			}
		}
	}

	position := l.position
	for l.ch != 0 && l.ch != '(' && l.ch != ')' && !unicode.IsSpace(rune(l.ch)) {
		l.readChar()
	}
	return NewToken(VALUE, l.input[position:l.position], startPosition)
}

// readString reads a quoted string. The opening quote character determines
// the closing one; a quote preceded by a backslash does not terminate.
func (l *Lexer) readString(startPosition int, modifier string) Token {
	quote := l.ch
	l.readChar()

	position := l.position
	for {
		if l.ch == 0 {
			return NewToken(ILLEGAL, l.input[startPosition:], startPosition)
		}
		if l.ch == quote && (l.position == position || l.input[l.position-1] != '\\') {
			break
		}
		l.readChar()
	}
	literal := l.input[position:l.position]
	l.readChar()

	return Token{Type: STRING, Literal: literal, Modifier: modifier, Position: startPosition}
}

// readIdentifier reads a bare word.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isIdentifierChar(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func isIdentifierChar(ch byte) bool {
	return ch == '_' || unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch))
}
