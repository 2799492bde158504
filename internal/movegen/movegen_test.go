package movegen

import (
	"errors"
	"testing"

	"chessmoves/internal/board"
	"chessmoves/internal/core"

	"github.com/google/go-cmp/cmp"
)

var allTypes = []core.PieceType{core.King, core.Queen, core.Bishop, core.Knight, core.Rook, core.Pawn}

func sq(t *testing.T, s string) core.Position {
	t.Helper()
	p, err := core.ParseSquare(s)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", s, err)
	}
	return p
}

func place(t *testing.T, b *board.Board, square string, piece string) {
	t.Helper()
	p, err := core.ParsePiece(piece)
	if err != nil {
		t.Fatalf("ParsePiece(%q): %v", piece, err)
	}
	if err := b.Place(sq(t, square), p); err != nil {
		t.Fatalf("Place(%s, %s): %v", square, piece, err)
	}
}

func mustMoves(t *testing.T, g Generator, b Snapshot, from core.Position, pt core.PieceType, c core.Color) MoveSet {
	t.Helper()
	moves, err := g.LegalMoves(b, from, pt, c)
	if err != nil {
		t.Fatalf("LegalMoves(%v, %v, %v): %v", from, pt, c, err)
	}
	return moves
}

func TestClassify(t *testing.T) {
	b := board.New()
	place(t, b, "e4", "N")
	place(t, b, "d5", "p")

	tests := []struct {
		name string
		pos  core.Position
		want Occupancy
	}{
		{"off board row", core.Position{Row: -1, Col: 3}, OutOfBounds},
		{"off board col", core.Position{Row: 3, Col: 8}, OutOfBounds},
		{"empty", sq(t, "a1"), Empty},
		{"friendly", sq(t, "e4"), Friendly},
		{"enemy", sq(t, "d5"), Enemy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(b, tt.pos, core.ColorWhite); got != tt.want {
				t.Errorf("Classify(%v) = %v; want %v", tt.pos, got, tt.want)
			}
		})
	}

	if got := Classify(b, sq(t, "e4"), core.ColorBlack); got != Enemy {
		t.Errorf("Classify(e4) for black = %v; want enemy", got)
	}
}

func TestStepPieces_Counts(t *testing.T) {
	empty := board.New()
	center := core.Position{Row: 4, Col: 4}
	corner := core.Position{Row: 0, Col: 0}

	tests := []struct {
		name  string
		pt    core.PieceType
		from  core.Position
		count int
	}{
		{"king center", core.King, center, 8},
		{"king corner", core.King, corner, 3},
		{"knight center", core.Knight, center, 8},
		{"knight corner", core.Knight, corner, 2},
		{"rook center", core.Rook, center, 14},
		{"bishop center", core.Bishop, center, 13},
		{"bishop corner", core.Bishop, corner, 7},
		{"queen center", core.Queen, center, 27},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustMoves(t, Generator{}, empty, tt.from, tt.pt, core.ColorWhite)
			if got.Len() != tt.count {
				t.Errorf("got %d moves %v; want %d", got.Len(), got.Squares(), tt.count)
			}
		})
	}

	knight := mustMoves(t, Generator{}, empty, corner, core.Knight, core.ColorWhite)
	if diff := cmp.Diff([]string{"c7", "b6"}, knight.Squares()); diff != "" {
		t.Errorf("knight from a8 mismatch (-want +got):\n%s", diff)
	}
}

func TestRook_RayStopsAtBlockers(t *testing.T) {
	b := board.New()
	place(t, b, "d4", "R")
	place(t, b, "f4", "n") // enemy: included, then stop
	place(t, b, "d6", "P") // friendly: excluded, stop

	got := mustMoves(t, Generator{}, b, sq(t, "d4"), core.Rook, core.ColorWhite)
	want := []string{"d5", "a4", "b4", "c4", "e4", "f4", "d3", "d2", "d1"}
	if diff := cmp.Diff(want, got.Squares()); diff != "" {
		t.Errorf("rook moves mismatch (-want +got):\n%s", diff)
	}
	if got.Contains(sq(t, "g4")) || got.Contains(sq(t, "d7")) {
		t.Error("ray continued past a blocker")
	}

	caps := Captures(b, got, core.ColorWhite)
	if diff := cmp.Diff([]string{"f4"}, caps.Squares()); diff != "" {
		t.Errorf("captures mismatch (-want +got):\n%s", diff)
	}
}

func TestBishop_RayStopsAtBlockers(t *testing.T) {
	b := board.New()
	place(t, b, "c1", "b")
	place(t, b, "e3", "P")
	place(t, b, "b2", "p")

	got := mustMoves(t, Generator{}, b, sq(t, "c1"), core.Bishop, core.ColorBlack)
	want := []string{"e3", "d2"}
	if diff := cmp.Diff(want, got.Squares()); diff != "" {
		t.Errorf("bishop moves mismatch (-want +got):\n%s", diff)
	}
}

func TestQueen_IsUnionOfBishopAndRook(t *testing.T) {
	b := board.NewStandard()
	place(t, b, "d4", "Q")
	place(t, b, "f6", "q")

	for r := 0; r < core.BoardSize; r++ {
		for c := 0; c < core.BoardSize; c++ {
			from := core.Position{Row: r, Col: c}
			for _, color := range []core.Color{core.ColorWhite, core.ColorBlack} {
				queen := Queen(b, from, color)
				union := Bishop(b, from, color).Union(Rook(b, from, color))
				if !queen.Equal(union) {
					t.Fatalf("queen at %v (%v): %v; union %v", from, color, queen.Squares(), union.Squares())
				}
			}
		}
	}
}

func TestPawn(t *testing.T) {
	t.Run("white start", func(t *testing.T) {
		b := board.New()
		place(t, b, "d2", "P")
		got := mustMoves(t, Generator{}, b, core.Position{Row: 6, Col: 3}, core.Pawn, core.ColorWhite)
		want := []core.Position{{Row: 4, Col: 3}, {Row: 5, Col: 3}}
		if diff := cmp.Diff(want, got.Positions()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("white start with captures", func(t *testing.T) {
		b := board.New()
		place(t, b, "d2", "P")
		place(t, b, "c3", "n")
		place(t, b, "e3", "b")
		got := mustMoves(t, Generator{}, b, sq(t, "d2"), core.Pawn, core.ColorWhite)
		if diff := cmp.Diff([]string{"d4", "c3", "d3", "e3"}, got.Squares()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("friendly diagonal ignored", func(t *testing.T) {
		b := board.New()
		place(t, b, "d2", "P")
		place(t, b, "c3", "N")
		got := mustMoves(t, Generator{}, b, sq(t, "d2"), core.Pawn, core.ColorWhite)
		if diff := cmp.Diff([]string{"d4", "d3"}, got.Squares()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("black start", func(t *testing.T) {
		b := board.New()
		place(t, b, "e7", "p")
		got := mustMoves(t, Generator{}, b, sq(t, "e7"), core.Pawn, core.ColorBlack)
		if diff := cmp.Diff([]string{"e6", "e5"}, got.Squares()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("black start with captures", func(t *testing.T) {
		b := board.New()
		place(t, b, "e7", "p")
		place(t, b, "d6", "N")
		place(t, b, "f6", "B")
		got := mustMoves(t, Generator{}, b, sq(t, "e7"), core.Pawn, core.ColorBlack)
		if diff := cmp.Diff([]string{"d6", "e6", "f6", "e5"}, got.Squares()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("black captures only forward diagonals", func(t *testing.T) {
		b := board.New()
		place(t, b, "e5", "p")
		place(t, b, "d6", "P")
		place(t, b, "f6", "P")
		place(t, b, "f4", "r")
		got := mustMoves(t, Generator{}, b, sq(t, "e5"), core.Pawn, core.ColorBlack)
		if diff := cmp.Diff([]string{"e4"}, got.Squares()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("off start row single step", func(t *testing.T) {
		b := board.New()
		place(t, b, "d3", "P")
		got := mustMoves(t, Generator{}, b, sq(t, "d3"), core.Pawn, core.ColorWhite)
		if diff := cmp.Diff([]string{"d4"}, got.Squares()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("blocked forward cannot capture straight", func(t *testing.T) {
		b := board.New()
		place(t, b, "d4", "P")
		place(t, b, "d5", "p")
		got := mustMoves(t, Generator{}, b, sq(t, "d4"), core.Pawn, core.ColorWhite)
		if got.Len() != 0 {
			t.Errorf("got %v; want no moves", got.Squares())
		}
	})

	t.Run("last row has no moves", func(t *testing.T) {
		b := board.New()
		got := mustMoves(t, Generator{}, b, sq(t, "d8"), core.Pawn, core.ColorWhite)
		if got.Len() != 0 {
			t.Errorf("got %v; want no moves", got.Squares())
		}
	})
}

func TestPawn_DoubleStepBlocked(t *testing.T) {
	b := board.New()
	place(t, b, "d2", "P")
	place(t, b, "d3", "n")

	strict := mustMoves(t, Generator{}, b, sq(t, "d2"), core.Pawn, core.ColorWhite)
	if strict.Len() != 0 {
		t.Errorf("strict: got %v; want no moves", strict.Squares())
	}

	jump := mustMoves(t, Generator{PawnJump: true}, b, sq(t, "d2"), core.Pawn, core.ColorWhite)
	if diff := cmp.Diff([]string{"d4"}, jump.Squares()); diff != "" {
		t.Errorf("jump: mismatch (-want +got):\n%s", diff)
	}

	place(t, b, "d4", "N")
	jump = mustMoves(t, Generator{PawnJump: true}, b, sq(t, "d2"), core.Pawn, core.ColorWhite)
	if jump.Len() != 0 {
		t.Errorf("jump onto friendly: got %v; want no moves", jump.Squares())
	}
}

func TestPawn_BlackDoubleStepBlocked(t *testing.T) {
	b := board.New()
	place(t, b, "e7", "p")
	place(t, b, "e6", "N")

	strict := mustMoves(t, Generator{}, b, sq(t, "e7"), core.Pawn, core.ColorBlack)
	if strict.Len() != 0 {
		t.Errorf("strict: got %v; want no moves", strict.Squares())
	}

	jump := mustMoves(t, Generator{PawnJump: true}, b, sq(t, "e7"), core.Pawn, core.ColorBlack)
	if diff := cmp.Diff([]string{"e5"}, jump.Squares()); diff != "" {
		t.Errorf("jump mismatch (-want +got):\n%s", diff)
	}
}

func TestLegalMoves_Invariants(t *testing.T) {
	b := board.NewStandard()
	place(t, b, "e4", "Q")
	place(t, b, "d5", "n")

	for _, g := range []Generator{{}, {PawnJump: true}} {
		for r := 0; r < core.BoardSize; r++ {
			for c := 0; c < core.BoardSize; c++ {
				from := core.Position{Row: r, Col: c}
				for _, pt := range allTypes {
					for _, color := range []core.Color{core.ColorWhite, core.ColorBlack} {
						moves := mustMoves(t, g, b, from, pt, color)
						for to := range moves {
							if !to.InBounds() {
								t.Fatalf("%v %v from %v: off-board destination %v", color, pt, from, to)
							}
							if to == from {
								t.Fatalf("%v %v from %v: origin in move set", color, pt, from)
							}
							if occ := Classify(b, to, color); occ == Friendly {
								t.Fatalf("%v %v from %v: friendly destination %v", color, pt, from, to)
							}
						}

						again := mustMoves(t, g, b, from, pt, color)
						if diff := cmp.Diff(moves.Positions(), again.Positions()); diff != "" {
							t.Fatalf("%v %v from %v: results differ between calls:\n%s", color, pt, from, diff)
						}
					}
				}
			}
		}
	}
}

func TestLegalMoves_DoesNotMutateBoard(t *testing.T) {
	b := board.NewStandard()
	before := b.FEN()
	for _, pt := range allTypes {
		if _, err := LegalMoves(b, sq(t, "e2"), pt, core.ColorWhite); err != nil {
			t.Fatalf("LegalMoves: %v", err)
		}
	}
	if after := b.FEN(); after != before {
		t.Errorf("board changed: %q -> %q", before, after)
	}
}

func TestLegalMoves_Errors(t *testing.T) {
	b := board.New()

	moves, err := LegalMoves(b, sq(t, "e4"), core.PieceType(42), core.ColorWhite)
	if !errors.Is(err, ErrUnknownPieceType) {
		t.Errorf("unknown type: err = %v; want ErrUnknownPieceType", err)
	}
	if moves != nil {
		t.Errorf("unknown type: moves = %v; want nil", moves)
	}

	_, err = LegalMoves(b, sq(t, "e4"), core.King, core.Color(0))
	if !errors.Is(err, ErrUnknownColor) {
		t.Errorf("unknown color: err = %v; want ErrUnknownColor", err)
	}

	_, err = LegalMoves(b, core.Position{Row: 8, Col: 0}, core.King, core.ColorWhite)
	var be *board.BoundsError
	if !errors.As(err, &be) {
		t.Fatalf("off-board origin: err = %v; want *board.BoundsError", err)
	}
	if !errors.Is(err, board.ErrOutOfBounds) {
		t.Error("BoundsError does not unwrap to ErrOutOfBounds")
	}
}

func TestMoveSet(t *testing.T) {
	a := NewMoveSet(core.Position{Row: 1, Col: 1}, core.Position{Row: 0, Col: 2})
	b := NewMoveSet(core.Position{Row: 0, Col: 2}, core.Position{Row: 7, Col: 7})

	u := a.Union(b)
	want := []core.Position{{Row: 0, Col: 2}, {Row: 1, Col: 1}, {Row: 7, Col: 7}}
	if diff := cmp.Diff(want, u.Positions()); diff != "" {
		t.Errorf("Union mismatch (-want +got):\n%s", diff)
	}
	if a.Len() != 2 {
		t.Error("Union modified its receiver")
	}
	if a.Equal(b) || !u.Equal(b.Union(a)) {
		t.Error("Equal mismatch")
	}
	if diff := cmp.Diff([]string{"c8", "b7", "h1"}, u.Squares()); diff != "" {
		t.Errorf("Squares mismatch (-want +got):\n%s", diff)
	}
}
