// Package movegen computes the tiles a piece may reach from its current
// tile under simplified rules: no check detection, castling, en passant or
// promotion. Every function is pure with respect to the snapshot it reads.
package movegen

import (
	"errors"
	"fmt"

	"chessmoves/internal/board"
	"chessmoves/internal/core"
)

var (
	// ErrUnknownPieceType indicates a piece type outside the six recognized ones
	ErrUnknownPieceType = errors.New("unknown piece type")

	// ErrUnknownColor indicates a color other than white or black
	ErrUnknownColor = errors.New("unknown color")
)

// Generator dispatches move generation to the per-piece rules
type Generator struct {
	// PawnJump lets a pawn's two-step advance pass an occupied
	// intervening tile, checking only the destination.
	PawnJump bool
}

// Rule returns the rule for piece type t
func (g Generator) Rule(t core.PieceType) (Rule, error) {
	switch t {
	case core.King:
		return King, nil
	case core.Queen:
		return Queen, nil
	case core.Bishop:
		return Bishop, nil
	case core.Knight:
		return Knight, nil
	case core.Rook:
		return Rook, nil
	case core.Pawn:
		if g.PawnJump {
			return func(b Snapshot, from core.Position, color core.Color) MoveSet {
				return pawnMoves(b, from, color, true)
			}, nil
		}
		return Pawn, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownPieceType, int(t))
	}
}

// LegalMoves returns every tile a piece of type t and the given color may
// move to from origin. No MoveSet is returned on error.
func (g Generator) LegalMoves(b Snapshot, from core.Position, t core.PieceType, color core.Color) (MoveSet, error) {
	rule, err := g.Rule(t)
	if err != nil {
		return nil, err
	}
	if !color.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownColor, int(color))
	}
	if !from.InBounds() {
		return nil, &board.BoundsError{Position: from}
	}
	return rule(b, from, color), nil
}

// LegalMoves runs the default Generator
func LegalMoves(b Snapshot, from core.Position, t core.PieceType, color core.Color) (MoveSet, error) {
	return Generator{}.LegalMoves(b, from, t, color)
}

// Captures returns the members of moves that hold an enemy of color
func Captures(b Snapshot, moves MoveSet, color core.Color) MoveSet {
	out := NewMoveSet()
	for p := range moves {
		if Classify(b, p, color) == Enemy {
			out.Add(p)
		}
	}
	return out
}
