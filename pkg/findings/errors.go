package findings

import "errors"

// Lookup errors
var (
	ErrNotFound   = errors.New("no such finding")
	ErrOutOfRange = errors.New("index out of range")
)

// Argument errors
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidPattern  = errors.New("invalid filter pattern")
)
