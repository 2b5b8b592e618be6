package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexerTokenizesExpression(t *testing.T) {
	t.Parallel()

	lexer := NewLexer("name=*.rs and size>=1Mb")

	expected := []Token{
		{Type: IDENT, Literal: "name", Position: 0},
		{Type: EQ, Literal: "=", Position: 4},
		{Type: VALUE, Literal: "*.rs", Position: 5},
		{Type: IDENT, Literal: "and", Position: 10},
		{Type: IDENT, Literal: "size", Position: 14},
		{Type: GTE, Literal: ">=", Position: 18},
		{Type: VALUE, Literal: "1Mb", Position: 20},
		{Type: EOF, Literal: "", Position: 23},
	}
	for _, want := range expected {
		assert.Equal(t, want, lexer.NextToken())
	}
}

func TestLexerValueStopsAtParenthesis(t *testing.T) {
	t.Parallel()

	lexer := NewLexer("(name=*sample*)")

	assert.Equal(t, LPAREN, lexer.NextToken().Type)
	assert.Equal(t, IDENT, lexer.NextToken().Type)
	assert.Equal(t, EQ, lexer.NextToken().Type)

	value := lexer.NextToken()
	assert.Equal(t, VALUE, value.Type)
	assert.Equal(t, "*sample*", value.Literal)

	assert.Equal(t, RPAREN, lexer.NextToken().Type)
	assert.Equal(t, EOF, lexer.NextToken().Type)
}

func TestLexerQuotedStrings(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		literal  string
		modifier string
	}{
		{name: "single quoted", input: "name='a file'", literal: "a file", modifier: ""},
		{name: "double quoted", input: `name="a file"`, literal: "a file", modifier: ""},
		{name: "insensitive", input: "name=i'Sample'", literal: "Sample", modifier: "i"},
		{name: "regex", input: `name=r".+\.rs"`, literal: `.+\.rs`, modifier: "r"},
		{name: "insensitive regex", input: `name=ri"sample"`, literal: "sample", modifier: "ri"},
		{name: "escaped quote", input: `name='it\'s'`, literal: `it\'s`, modifier: ""},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			lexer := NewLexer(tc.input)
			lexer.NextToken() // field
			lexer.NextToken() // comparator

			token := lexer.NextToken()
			assert.Equal(t, STRING, token.Type)
			assert.Equal(t, tc.literal, token.Literal)
			assert.Equal(t, tc.modifier, token.Modifier)
		})
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	t.Parallel()

	lexer := NewLexer("name='unterminated")
	lexer.NextToken()
	lexer.NextToken()

	token := lexer.NextToken()
	assert.Equal(t, ILLEGAL, token.Type)
	assert.Equal(t, "'unterminated", token.Literal)
}

func TestLexerComparators(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input     string
		tokenType TokenType
	}{
		{input: "=", tokenType: EQ},
		{input: "!=", tokenType: NEQ},
		{input: "<", tokenType: LT},
		{input: "<=", tokenType: LTE},
		{input: ">", tokenType: GT},
		{input: ">=", tokenType: GTE},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			token := NewLexer(tc.input).NextToken()
			assert.Equal(t, tc.tokenType, token.Type)
			assert.True(t, token.IsComparator())
		})
	}
}

func TestLexerIllegalCharacter(t *testing.T) {
	t.Parallel()

	lexer := NewLexer("name # value")
	lexer.NextToken()

	token := lexer.NextToken()
	assert.Equal(t, ILLEGAL, token.Type)
	assert.Equal(t, "#", token.Literal)
}
