package board

import (
	"errors"
	"strings"
	"testing"

	"chessmoves/internal/core"

	"github.com/google/go-cmp/cmp"
)

func pos(square string) core.Position {
	p, err := core.ParseSquare(square)
	if err != nil {
		panic(err)
	}
	return p
}

func TestNewStandard(t *testing.T) {
	b := NewStandard()

	tests := []struct {
		square string
		want   core.Piece
	}{
		{"a1", core.Piece{Color: core.ColorWhite, Type: core.Rook}},
		{"e1", core.Piece{Color: core.ColorWhite, Type: core.King}},
		{"d1", core.Piece{Color: core.ColorWhite, Type: core.Queen}},
		{"e2", core.Piece{Color: core.ColorWhite, Type: core.Pawn}},
		{"g8", core.Piece{Color: core.ColorBlack, Type: core.Knight}},
		{"c8", core.Piece{Color: core.ColorBlack, Type: core.Bishop}},
		{"h7", core.Piece{Color: core.ColorBlack, Type: core.Pawn}},
		{"e4", core.Piece{}},
	}

	for _, tt := range tests {
		t.Run(tt.square, func(t *testing.T) {
			tile, err := b.TileAt(pos(tt.square))
			if err != nil {
				t.Fatalf("TileAt(%s) error: %v", tt.square, err)
			}
			if tile.Piece != tt.want {
				t.Errorf("TileAt(%s).Piece = %v; want %v", tt.square, tile.Piece, tt.want)
			}
		})
	}

	if got := len(b.Occupied()); got != 32 {
		t.Errorf("len(Occupied()) = %d; want 32", got)
	}
}

func TestTileAt_OutOfBounds(t *testing.T) {
	b := NewStandard()

	for _, p := range []core.Position{
		{Row: -1, Col: 0},
		{Row: 0, Col: -1},
		{Row: 8, Col: 3},
		{Row: 3, Col: 8},
		{Row: 100, Col: -100},
	} {
		t.Run(p.String(), func(t *testing.T) {
			_, err := b.TileAt(p)
			if !errors.Is(err, ErrOutOfBounds) {
				t.Fatalf("TileAt(%v) error = %v; want ErrOutOfBounds", p, err)
			}
			var be *BoundsError
			if !errors.As(err, &be) {
				t.Fatalf("errors.As(*BoundsError) = false for %v", err)
			}
			if be.Position != p {
				t.Errorf("BoundsError.Position = %v; want %v", be.Position, p)
			}

			if _, err := b.IsEmpty(p); !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("IsEmpty(%v) error = %v; want ErrOutOfBounds", p, err)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	b := NewStandard()

	empty, err := b.IsEmpty(pos("e4"))
	if err != nil || !empty {
		t.Errorf("IsEmpty(e4) = %v, %v; want true, nil", empty, err)
	}
	empty, err = b.IsEmpty(pos("e2"))
	if err != nil || empty {
		t.Errorf("IsEmpty(e2) = %v, %v; want false, nil", empty, err)
	}
}

func TestPlaceAndRemove(t *testing.T) {
	b := New()
	knight := core.Piece{Color: core.ColorBlack, Type: core.Knight}

	if err := b.Place(pos("c3"), knight); err != nil {
		t.Fatalf("Place(c3) error: %v", err)
	}
	tile, _ := b.TileAt(pos("c3"))
	if tile.Piece != knight {
		t.Errorf("after Place, TileAt(c3).Piece = %v; want %v", tile.Piece, knight)
	}

	prev, err := b.Remove(pos("c3"))
	if err != nil {
		t.Fatalf("Remove(c3) error: %v", err)
	}
	if prev != knight {
		t.Errorf("Remove(c3) = %v; want %v", prev, knight)
	}
	if empty, _ := b.IsEmpty(pos("c3")); !empty {
		t.Error("c3 not empty after Remove")
	}

	if err := b.Place(pos("c3"), core.Piece{Color: core.ColorWhite}); !errors.Is(err, ErrInvalidPiece) {
		t.Errorf("Place(invalid piece) error = %v; want ErrInvalidPiece", err)
	}
	if err := b.Place(core.Position{Row: 9, Col: 0}, knight); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Place(off board) error = %v; want ErrOutOfBounds", err)
	}
	if _, err := b.Remove(core.Position{Row: 0, Col: -2}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Remove(off board) error = %v; want ErrOutOfBounds", err)
	}
}

func TestClone(t *testing.T) {
	b := NewStandard()
	c := b.Clone()
	if _, err := c.Remove(pos("e2")); err != nil {
		t.Fatal(err)
	}
	if empty, _ := b.IsEmpty(pos("e2")); empty {
		t.Error("Remove on clone changed the source board")
	}
}

func TestParseFEN(t *testing.T) {
	t.Run("starting position", func(t *testing.T) {
		b, err := ParseFEN(StartingFEN)
		if err != nil {
			t.Fatalf("ParseFEN error: %v", err)
		}
		if diff := cmp.Diff(NewStandard().Occupied(), b.Occupied()); diff != "" {
			t.Errorf("ParseFEN(StartingFEN) mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("placement only", func(t *testing.T) {
		b, err := ParseFEN("8/8/8/8/8/8/3P4/8")
		if err != nil {
			t.Fatalf("ParseFEN error: %v", err)
		}
		want := []Tile{{Position: pos("d2"), Piece: core.Piece{Color: core.ColorWhite, Type: core.Pawn}}}
		if diff := cmp.Diff(want, b.Occupied()); diff != "" {
			t.Errorf("Occupied() mismatch (-want +got):\n%s", diff)
		}
	})

	invalid := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"too few ranks", "8/8/8/8/8/8/8 w - - 0 1"},
		{"short rank", "7/8/8/8/8/8/8/8 w - - 0 1"},
		{"long rank", "9/8/8/8/8/8/8/8 w - - 0 1"},
		{"too many pieces", "ppppppppp/8/8/8/8/8/8/8 w - - 0 1"},
		{"bad letter", "x7/8/8/8/8/8/8/8 w - - 0 1"},
		{"bad turn", "8/8/8/8/8/8/8/8 x - - 0 1"},
		{"bad halfmove", "8/8/8/8/8/8/8/8 w - - a 1"},
		{"five fields", "8/8/8/8/8/8/8/8 w - - 0"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFEN(tt.fen); !errors.Is(err, ErrInvalidFEN) {
				t.Errorf("ParseFEN(%q) error = %v; want ErrInvalidFEN", tt.fen, err)
			}
		})
	}
}

func TestFEN_RoundTrip(t *testing.T) {
	if got := NewStandard().FEN(); got != StartingFEN {
		t.Errorf("NewStandard().FEN() = %q; want %q", got, StartingFEN)
	}

	fen := "4k3/8/8/3q4/8/2N5/4P3/4K3 w - - 0 1"
	b, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN error: %v", err)
	}
	if got := b.FEN(); got != fen {
		t.Errorf("FEN() = %q; want %q", got, fen)
	}

	if got := New().FEN(); got != "8/8/8/8/8/8/8/8 w - - 0 1" {
		t.Errorf("New().FEN() = %q", got)
	}
}

func TestToASCIIMarked(t *testing.T) {
	b := New()
	b.Place(pos("a8"), core.Piece{Color: core.ColorBlack, Type: core.Rook})

	out := b.ToASCIIMarked(map[core.Position]byte{
		pos("a8"): '*',
		pos("b8"): '*',
	})
	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines; want 10", len(lines))
	}
	if want := "8 r** . . . . . .  8"; lines[1] != want {
		t.Errorf("rank 8 = %q; want %q", lines[1], want)
	}
	if want := "1 . . . . . . . .  1"; lines[8] != want {
		t.Errorf("rank 1 = %q; want %q", lines[8], want)
	}
}
