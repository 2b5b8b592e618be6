package walk

import (
	"errors"
	"fmt"
)

var errNotADirectory = errors.New("not a directory")

// EntryError wraps a filesystem failure on one entry during the walk.
type EntryError struct {
	Path string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// IsEntryError reports whether err is an EntryError.
func IsEntryError(err error) bool {
	var entryErr *EntryError
	return errors.As(err, &entryErr)
}
