package errors

import (
	"errors"
	"fmt"
)

// CommandError represents an error that occurred during command execution,
// carrying the exit code the process should terminate with.
type CommandError struct {
	ExitCode    int
	CommonError string
	Err         error
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError wrapping err.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
		Err:         err,
	}
}

// NewCommandErrorf creates a new CommandError from a format string, %w is supported.
func NewCommandErrorf(code int, format string, args ...interface{}) *CommandError {
	return NewCommandError(fmt.Errorf(format, args...), code)
}

// ExitCode returns the exit code carried by err, 1 for any other error and 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return 1
}
