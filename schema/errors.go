package schema

import (
	"errors"
	"fmt"
)

var (
	ErrTooFewColumns          = errors.New("too few fields")
	ErrInvalidState           = errors.New("invalid state")
	ErrDuplicateName          = errors.New("duplicate name")
	ErrUndefinedVisibilityKey = errors.New("undefined visibility key")
	ErrUnknownType            = errors.New("unknown type")
	ErrUnknownOption          = errors.New("unknown option")
	ErrUnresolvedReference    = errors.New("unresolved reference")
	ErrTooManyParents         = errors.New("too many parent categories")
	ErrGroupReused            = errors.New("group already used")
	ErrEmptyName              = errors.New("empty name")
)

// LineError reports a fatal condition found while processing a source line.
type LineError struct {
	Filename string
	Line     int
	Msg      string
	Err      error
}

func (e *LineError) Error() string {
	if len(e.Filename) == 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.Filename, e.Line, e.Msg)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// AtLine wraps err in a LineError for the given 1-based line.
// An err that is already a LineError keeps its own line number.
func AtLine(filename string, line int, err error) error {
	if err == nil {
		return nil
	}
	var le *LineError
	if errors.As(err, &le) {
		if len(le.Filename) == 0 {
			le.Filename = filename
		}
		return le
	}
	return &LineError{Filename: filename, Line: line, Msg: err.Error(), Err: err}
}
