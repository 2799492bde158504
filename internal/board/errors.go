package board

import (
	"errors"
	"fmt"

	"chessmoves/internal/core"
)

var (
	// ErrOutOfBounds matches any *BoundsError under errors.Is
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrInvalidPiece indicates a piece with an unrecognized color or type
	ErrInvalidPiece = errors.New("invalid piece")

	// ErrInvalidFEN indicates a malformed FEN string
	ErrInvalidFEN = errors.New("invalid FEN")
)

// BoundsError reports a board lookup outside [0,7]x[0,7]
type BoundsError struct {
	Position core.Position
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("row %d, col %d: %v", e.Position.Row, e.Position.Col, ErrOutOfBounds)
}

// Unwrap exposes ErrOutOfBounds so callers can test with errors.Is
func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}
