package listener

import (
	"errors"
	"fmt"
)

// ErrUnmappedStatus is returned for a host status with no TestRail status id.
var ErrUnmappedStatus = errors.New("listener: unmapped test status")

// FatalError aborts the session: the failure corrupts every later mapping
// (suite, milestone or plan identity). The host adapter reacts to it by
// stopping the host process.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func fatal(op string, err error) error {
	return &FatalError{Op: op, Err: err}
}

// IsFatal reports whether err aborts the session.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
