package board

import (
	"fmt"
	"strings"

	"chessmoves/internal/core"
)

const (
	StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"
)

// Tile is a single board square and its occupant, if any
type Tile struct {
	Position core.Position
	Piece    core.Piece
}

// IsEmpty reports whether the tile holds no piece
func (t Tile) IsEmpty() bool {
	return t.Piece.IsZero()
}

// Board is a fixed 8x8 grid indexed [row][col]
type Board struct {
	squares [core.BoardSize][core.BoardSize]core.Piece
}

// New returns an empty board
func New() *Board {
	return &Board{}
}

// NewStandard returns a board set up in the standard starting position
func NewStandard() *Board {
	b := New()
	backRank := []core.PieceType{core.Rook, core.Knight, core.Bishop, core.Queen, core.King, core.Bishop, core.Knight, core.Rook}
	for col, t := range backRank {
		b.squares[0][col] = core.Piece{Color: core.ColorBlack, Type: t}
		b.squares[1][col] = core.Piece{Color: core.ColorBlack, Type: core.Pawn}
		b.squares[6][col] = core.Piece{Color: core.ColorWhite, Type: core.Pawn}
		b.squares[7][col] = core.Piece{Color: core.ColorWhite, Type: t}
	}
	return b
}

// TileAt returns the tile at pos, or a *BoundsError when pos is off the board
func (b *Board) TileAt(pos core.Position) (Tile, error) {
	if !pos.InBounds() {
		return Tile{}, &BoundsError{Position: pos}
	}
	return Tile{Position: pos, Piece: b.squares[pos.Row][pos.Col]}, nil
}

// IsEmpty reports whether the tile at pos has no piece
func (b *Board) IsEmpty(pos core.Position) (bool, error) {
	tile, err := b.TileAt(pos)
	if err != nil {
		return false, err
	}
	return tile.IsEmpty(), nil
}

// Place puts piece on pos, replacing any occupant
func (b *Board) Place(pos core.Position, piece core.Piece) error {
	if !pos.InBounds() {
		return &BoundsError{Position: pos}
	}
	if !piece.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidPiece, piece)
	}
	b.squares[pos.Row][pos.Col] = piece
	return nil
}

// Remove clears pos and returns the previous occupant
func (b *Board) Remove(pos core.Position) (core.Piece, error) {
	if !pos.InBounds() {
		return core.Piece{}, &BoundsError{Position: pos}
	}
	prev := b.squares[pos.Row][pos.Col]
	b.squares[pos.Row][pos.Col] = core.Piece{}
	return prev, nil
}

// Occupied returns every non-empty tile in row-major order
func (b *Board) Occupied() []Tile {
	var tiles []Tile
	for r := 0; r < core.BoardSize; r++ {
		for c := 0; c < core.BoardSize; c++ {
			if p := b.squares[r][c]; !p.IsZero() {
				tiles = append(tiles, Tile{Position: core.Position{Row: r, Col: c}, Piece: p})
			}
		}
	}
	return tiles
}

// Clone returns an independent copy of the board
func (b *Board) Clone() *Board {
	nb := *b
	return &nb
}

// ToASCII creates an ASCII representation of the board
func (b *Board) ToASCII() string {
	return b.ToASCIIMarked(nil)
}

// ToASCIIMarked renders the board with marks drawn on the given tiles.
// A marked empty tile shows the mark; a marked occupied tile keeps its
// piece letter and is bracketed by the mark instead of a space.
func (b *Board) ToASCIIMarked(marks map[core.Position]byte) string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < core.BoardSize; r++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for c := 0; c < core.BoardSize; c++ {
			pos := core.Position{Row: r, Col: c}
			piece := b.squares[r][c]
			mark, marked := marks[pos]

			switch {
			case piece.IsZero() && marked:
				sb.WriteByte(mark)
				sb.WriteByte(' ')
			case piece.IsZero():
				sb.WriteString(". ")
			case marked:
				sb.WriteByte(piece.FEN())
				sb.WriteByte(mark)
			default:
				sb.WriteByte(piece.FEN())
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-r))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
