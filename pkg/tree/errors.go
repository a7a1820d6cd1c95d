package tree

import "errors"

var (
	ErrInvalidRange = errors.New("invalid range")
	ErrOddLength    = errors.New("start/length encoding has an odd number of values")
	ErrOutOfBounds  = errors.New("range out of bounds")
	ErrUnordered    = errors.New("ranges are not ascending and separated")
	ErrInvariant    = errors.New("tree invariant violated")
)
