package query

import (
	"errors"
	"fmt"
)

// ParseError describes a syntax or type error in a query expression,
// with the byte offset where it was detected.
type ParseError struct {
	Message  string
	Position int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Position, e.Message)
}

// NewParseError creates a parse error at the given position.
func NewParseError(message string, position int) *ParseError {
	return &ParseError{Message: message, Position: position}
}

// NewParseErrorf creates a parse error with a formatted message.
func NewParseErrorf(position int, format string, args ...interface{}) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Position: position}
}

// IsParseError reports whether err is a ParseError.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}
