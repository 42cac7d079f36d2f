package game

import "github.com/pkg/errors"

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrOutOfRangeIndex      = errors.New("cell index out of range")
)

// AssertionError signals a broken structural invariant of the grid. It is
// raised with panic and never returned for user input.
type AssertionError struct {
	message string
}

func (e AssertionError) Error() string {
	return "assertion failed: " + e.message
}
