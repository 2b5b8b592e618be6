package query

import "fmt"

// TokenType identifies the kind of token produced by the lexer.
type TokenType int

const (
	// ILLEGAL represents an unexpected character or malformed token.
	ILLEGAL TokenType = iota
	// EOF marks the end of the input.
	EOF
	// IDENT is a bare word: a field name, a keyword or a value unit.
	IDENT
	// VALUE is an unquoted value read after a comparator.
	VALUE
	// STRING is a quoted value, optionally carrying an i/r/ri modifier.
	STRING
	// LPAREN is "(".
	LPAREN
	// RPAREN is ")".
	RPAREN
	// PLUS is "+".
	PLUS
	// MINUS is "-".
	MINUS
	// EQ is "=".
	EQ
	// NEQ is "!=".
	NEQ
	// LT is "<".
	LT
	// LTE is "<=".
	LTE
	// GT is ">".
	GT
	// GTE is ">=".
	GTE
)

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case ILLEGAL:
		return "ILLEGAL"
	case EOF:
		return "EOF"
	case IDENT:
		return "IDENT"
	case VALUE:
		return "VALUE"
	case STRING:
		return "STRING"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case EQ:
		return "EQ"
	case NEQ:
		return "NEQ"
	case LT:
		return "LT"
	case LTE:
		return "LTE"
	case GT:
		return "GT"
	case GTE:
		return "GTE"
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

// Token is a single lexical token with its position in the input.
type Token struct {
	Type     TokenType
	Literal  string
	Modifier string // "i", "r" or "ri" on STRING tokens
	Position int
}

// NewToken creates a token without a modifier.
func NewToken(tokenType TokenType, literal string, position int) Token {
	return Token{Type: tokenType, Literal: literal, Position: position}
}

// IsComparator reports whether the token is one of = != < <= > >=.
func (t Token) IsComparator() bool {
	switch t.Type {
	case EQ, NEQ, LT, LTE, GT, GTE:
		return true
	default:
		return false
	}
}
