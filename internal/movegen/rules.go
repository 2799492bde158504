package movegen

import (
	"chessmoves/internal/core"
)

// Rule computes the destinations of one piece type standing on from
type Rule func(b Snapshot, from core.Position, color core.Color) MoveSet

type offset struct {
	dRow, dCol int
}

var (
	kingOffsets = []offset{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}

	knightOffsets = []offset{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}

	diagonals = []offset{
		{-1, -1}, // Up-left
		{-1, 1},  // Up-right
		{1, -1},  // Down-left
		{1, 1},   // Down-right
	}

	orthogonals = []offset{
		{-1, 0}, // Up
		{1, 0},  // Down
		{0, -1}, // Left
		{0, 1},  // Right
	}
)

const (
	whitePawnStartRow = 6
	blackPawnStartRow = 1
)

func King(b Snapshot, from core.Position, color core.Color) MoveSet {
	return stepMoves(b, from, color, kingOffsets)
}

func Knight(b Snapshot, from core.Position, color core.Color) MoveSet {
	return stepMoves(b, from, color, knightOffsets)
}

func Bishop(b Snapshot, from core.Position, color core.Color) MoveSet {
	return rayMoves(b, from, color, diagonals)
}

func Rook(b Snapshot, from core.Position, color core.Color) MoveSet {
	return rayMoves(b, from, color, orthogonals)
}

// Queen is the union of the bishop and rook rays
func Queen(b Snapshot, from core.Position, color core.Color) MoveSet {
	return Bishop(b, from, color).Union(Rook(b, from, color))
}

// Pawn requires both tiles of a two-step advance to be empty
func Pawn(b Snapshot, from core.Position, color core.Color) MoveSet {
	return pawnMoves(b, from, color, false)
}

// stepMoves tries each offset once; empty and enemy tiles are reachable
func stepMoves(b Snapshot, from core.Position, color core.Color, offsets []offset) MoveSet {
	moves := NewMoveSet()
	for _, o := range offsets {
		to := from.Offset(o.dRow, o.dCol)
		switch Classify(b, to, color) {
		case Empty, Enemy:
			moves.Add(to)
		}
	}
	return moves
}

// rayMoves walks each direction until the edge, a friendly piece, or an
// enemy piece, which is included as a capture before the ray stops
func rayMoves(b Snapshot, from core.Position, color core.Color, directions []offset) MoveSet {
	moves := NewMoveSet()
	for _, d := range directions {
		to := from.Offset(d.dRow, d.dCol)
		for {
			occ := Classify(b, to, color)
			if occ == Empty {
				moves.Add(to)
				to = to.Offset(d.dRow, d.dCol)
				continue
			}
			if occ == Enemy {
				moves.Add(to)
			}
			break
		}
	}
	return moves
}

func pawnMoves(b Snapshot, from core.Position, color core.Color, jump bool) MoveSet {
	moves := NewMoveSet()
	if !color.Valid() {
		return moves
	}

	// White advances toward row 0, black toward row 7
	dir, startRow := -1, whitePawnStartRow
	if color == core.ColorBlack {
		dir, startRow = 1, blackPawnStartRow
	}

	one := from.Offset(dir, 0)
	oneEmpty := Classify(b, one, color) == Empty
	if oneEmpty {
		moves.Add(one)
	}

	if from.Row == startRow && (oneEmpty || jump) {
		two := from.Offset(2*dir, 0)
		if Classify(b, two, color) == Empty {
			moves.Add(two)
		}
	}

	for _, dCol := range []int{-1, 1} {
		diag := from.Offset(dir, dCol)
		if Classify(b, diag, color) == Enemy {
			moves.Add(diag)
		}
	}

	return moves
}
