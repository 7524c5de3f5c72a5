package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDepth    = errors.New("search depth must be at least 1")
	ErrInvalidPosition = errors.New("invalid position")
)

// PositionError reports a position the engine refused to search.
type PositionError struct {
	FEN string
	Err error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("%s %q: %v", ErrInvalidPosition, e.FEN, e.Err)
}

// Unwrap lets errors.Is match both ErrInvalidPosition and the cause.
func (e *PositionError) Unwrap() []error {
	return []error{ErrInvalidPosition, e.Err}
}
