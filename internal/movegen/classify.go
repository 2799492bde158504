package movegen

import (
	"chessmoves/internal/board"
	"chessmoves/internal/core"
)

// Snapshot is the read-only board view that move generation consults.
// *board.Board satisfies it.
type Snapshot interface {
	TileAt(pos core.Position) (board.Tile, error)
}

// Occupancy classifies a tile relative to the color asking about it
type Occupancy int

const (
	OutOfBounds Occupancy = iota
	Empty
	Friendly
	Enemy
)

func (o Occupancy) String() string {
	switch o {
	case Empty:
		return "empty"
	case Friendly:
		return "friendly"
	case Enemy:
		return "enemy"
	default:
		return "out_of_bounds"
	}
}

// Classify reports whether pos is off the board, empty, or held by a piece
// of the asking color or the opposing one. Off-board positions never reach
// the snapshot.
func Classify(b Snapshot, pos core.Position, asking core.Color) Occupancy {
	if !pos.InBounds() {
		return OutOfBounds
	}
	tile, err := b.TileAt(pos)
	if err != nil {
		return OutOfBounds
	}
	if tile.IsEmpty() {
		return Empty
	}
	if tile.Piece.Color == asking {
		return Friendly
	}
	return Enemy
}
