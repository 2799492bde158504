package core

import (
	"fmt"
	"strings"
)

// BoardSize is the number of rows and columns on the board
const BoardSize = 8

// Position addresses a tile by row and column. Row 0 is rank 8 and
// column 0 is file a, so white pawns start on row 6.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether both coordinates are within [0,7]
func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

// Offset returns the position shifted by the given row and column deltas
func (p Position) Offset(dRow, dCol int) Position {
	return Position{Row: p.Row + dRow, Col: p.Col + dCol}
}

// Less orders positions row-major
func (p Position) Less(o Position) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Col < o.Col
}

// String returns the algebraic square name, or the raw pair when off the board
func (p Position) String() string {
	if !p.InBounds() {
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return fmt.Sprintf("%c%c", 'a'+p.Col, '8'-p.Row)
}

// ParseSquare converts an algebraic square such as "e2" into a Position
func ParseSquare(square string) (Position, error) {
	s := strings.ToLower(strings.TrimSpace(square))
	if len(s) != 2 {
		return Position{}, fmt.Errorf("invalid square %q: expected file a-h and rank 1-8", square)
	}
	if s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Position{}, fmt.Errorf("invalid square %q: expected file a-h and rank 1-8", square)
	}
	return Position{Row: int('8' - s[1]), Col: int(s[0] - 'a')}, nil
}
