package core

import (
	"fmt"
	"strings"
)

type Color byte

const (
	ColorWhite Color = iota + 1
	ColorBlack
)

func (c Color) String() string {
	if c == ColorWhite {
		return "w"
	} else if c == ColorBlack {
		return "b"
	} else {
		return "-"
	}
}

// Name returns the capitalized color name used in display output
func (c Color) Name() string {
	switch c {
	case ColorWhite:
		return "White"
	case ColorBlack:
		return "Black"
	default:
		return "None"
	}
}

// Valid reports whether c is one of the two piece colors
func (c Color) Valid() bool {
	return c == ColorWhite || c == ColorBlack
}

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// ParseColor accepts "w", "b", "white" or "black" in any case
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "white":
		return ColorWhite, nil
	case "b", "black":
		return ColorBlack, nil
	default:
		return 0, fmt.Errorf("invalid color %q: must be w or b", s)
	}
}

type PieceType int

const (
	King PieceType = iota + 1
	Queen
	Bishop
	Knight
	Rook
	Pawn
)

func (t PieceType) String() string {
	switch t {
	case King:
		return "king"
	case Queen:
		return "queen"
	case Bishop:
		return "bishop"
	case Knight:
		return "knight"
	case Rook:
		return "rook"
	case Pawn:
		return "pawn"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the six recognized piece types
func (t PieceType) Valid() bool {
	return t >= King && t <= Pawn
}

// Letter returns the lowercase FEN letter, '?' for unrecognized types
func (t PieceType) Letter() byte {
	switch t {
	case King:
		return 'k'
	case Queen:
		return 'q'
	case Bishop:
		return 'b'
	case Knight:
		return 'n'
	case Rook:
		return 'r'
	case Pawn:
		return 'p'
	default:
		return '?'
	}
}

// Piece is a colored piece; the zero value means no piece
type Piece struct {
	Color Color
	Type  PieceType
}

func (p Piece) IsZero() bool {
	return p.Color == 0 && p.Type == 0
}

// Valid reports whether both color and type are recognized
func (p Piece) Valid() bool {
	return p.Color.Valid() && p.Type.Valid()
}

// FEN returns the FEN letter: uppercase for white, lowercase for black
func (p Piece) FEN() byte {
	ch := p.Type.Letter()
	if p.Color == ColorWhite && ch != '?' {
		return ch - 'a' + 'A'
	}
	return ch
}

func (p Piece) String() string {
	if p.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%s %s", p.Color.Name(), p.Type)
}

// PieceFromFEN converts a FEN letter into a Piece
func PieceFromFEN(ch byte) (Piece, bool) {
	color := ColorBlack
	if ch >= 'A' && ch <= 'Z' {
		color = ColorWhite
		ch = ch - 'A' + 'a'
	}

	var t PieceType
	switch ch {
	case 'k':
		t = King
	case 'q':
		t = Queen
	case 'b':
		t = Bishop
	case 'n':
		t = Knight
	case 'r':
		t = Rook
	case 'p':
		t = Pawn
	default:
		return Piece{}, false
	}
	return Piece{Color: color, Type: t}, true
}

// ParsePiece reads a single FEN letter such as "N" or "p"
func ParsePiece(s string) (Piece, error) {
	s = strings.TrimSpace(s)
	if len(s) != 1 {
		return Piece{}, fmt.Errorf("invalid piece %q: expected a single FEN letter", s)
	}
	p, ok := PieceFromFEN(s[0])
	if !ok {
		return Piece{}, fmt.Errorf("invalid piece %q: expected one of KQBNRP or kqbnrp", s)
	}
	return p, nil
}
