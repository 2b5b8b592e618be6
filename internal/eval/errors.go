package eval

import (
	"errors"
	"fmt"

	"github.com/harrison/fgr/internal/query"
)

// EvalError wraps a failure while evaluating a predicate on a path.
type EvalError struct {
	Field query.Field
	Path  string
	Err   error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluating %s on %s: %v", e.Field, e.Path, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// NotFileError indicates a predicate that requires a regular file was
// evaluated on something else.
type NotFileError struct {
	Path string
}

func (e *NotFileError) Error() string {
	return fmt.Sprintf("not a regular file: %s", e.Path)
}

// IsEvalError reports whether err is an EvalError.
func IsEvalError(err error) bool {
	var evalErr *EvalError
	return errors.As(err, &evalErr)
}

// IsNotFileError reports whether err is a NotFileError.
func IsNotFileError(err error) bool {
	var notFileErr *NotFileError
	return errors.As(err, &notFileErr)
}
