package latex

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOperation marks misuse of the tree API, such as appending a
	// child to a leaf. It is a programming error, not a data error.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrReadFailure marks a file-backed node whose source could not be read.
	ErrReadFailure = errors.New("read failure")
)

// InvalidOperationError reports an operation attempted on a variant that
// does not support it.
type InvalidOperationError struct {
	Op   string
	Kind Kind
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("invalid operation: %s on %s node", e.Op, e.Kind)
}

func (e *InvalidOperationError) Is(target error) bool {
	return target == ErrInvalidOperation
}

// ReadFailureError reports a file that could not be opened or read while
// rendering.
type ReadFailureError struct {
	Path string
	Err  error
}

func (e *ReadFailureError) Error() string {
	return fmt.Sprintf("read failure: %s: %v", e.Path, e.Err)
}

func (e *ReadFailureError) Unwrap() error { return e.Err }

func (e *ReadFailureError) Is(target error) bool {
	return target == ErrReadFailure
}
