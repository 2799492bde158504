package board

import (
	"fmt"
	"strings"

	"chessmoves/internal/core"

	"github.com/notnil/chess"
)

// fenSuffix fills the non-placement FEN fields, which move generation ignores
const fenSuffix = " w - - 0 1"

var toChessPiece = map[core.Piece]chess.Piece{
	{Color: core.ColorWhite, Type: core.King}:   chess.WhiteKing,
	{Color: core.ColorWhite, Type: core.Queen}:  chess.WhiteQueen,
	{Color: core.ColorWhite, Type: core.Rook}:   chess.WhiteRook,
	{Color: core.ColorWhite, Type: core.Bishop}: chess.WhiteBishop,
	{Color: core.ColorWhite, Type: core.Knight}: chess.WhiteKnight,
	{Color: core.ColorWhite, Type: core.Pawn}:   chess.WhitePawn,
	{Color: core.ColorBlack, Type: core.King}:   chess.BlackKing,
	{Color: core.ColorBlack, Type: core.Queen}:  chess.BlackQueen,
	{Color: core.ColorBlack, Type: core.Rook}:   chess.BlackRook,
	{Color: core.ColorBlack, Type: core.Bishop}: chess.BlackBishop,
	{Color: core.ColorBlack, Type: core.Knight}: chess.BlackKnight,
	{Color: core.ColorBlack, Type: core.Pawn}:   chess.BlackPawn,
}

// ParseFEN reads piece placement from a FEN string. Either the full
// six-field form or the bare placement field is accepted; the remaining
// fields are validated for shape only.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) == 1 {
		parts = strings.Fields(parts[0] + fenSuffix)
	}
	if len(parts) != 6 {
		return nil, fmt.Errorf("%w: expected 6 parts, got %d", ErrInvalidFEN, len(parts))
	}

	b := New()

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != core.BoardSize {
		return nil, fmt.Errorf("%w: expected 8 ranks", ErrInvalidFEN)
	}

	for r := 0; r < core.BoardSize; r++ {
		file := 0
		for _, ch := range ranks[r] {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			if file >= core.BoardSize {
				return nil, fmt.Errorf("%w: too many pieces in rank %d", ErrInvalidFEN, 8-r)
			}
			if ch > 0x7f {
				return nil, fmt.Errorf("%w: unexpected character %q", ErrInvalidFEN, ch)
			}
			piece, ok := core.PieceFromFEN(byte(ch))
			if !ok {
				return nil, fmt.Errorf("%w: unexpected character %q", ErrInvalidFEN, ch)
			}
			b.squares[r][file] = piece
			file++
		}
		if file != core.BoardSize {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, 8-r, file)
		}
	}

	if parts[1] != "w" && parts[1] != "b" {
		return nil, fmt.Errorf("%w: turn must be 'w' or 'b'", ErrInvalidFEN)
	}

	var halfmove, fullmove int
	if _, err := fmt.Sscanf(parts[4], "%d", &halfmove); err != nil {
		return nil, fmt.Errorf("%w: halfmove counter", ErrInvalidFEN)
	}
	if _, err := fmt.Sscanf(parts[5], "%d", &fullmove); err != nil {
		return nil, fmt.Errorf("%w: fullmove counter", ErrInvalidFEN)
	}

	return b, nil
}

// FEN encodes the board placement as a six-field FEN string
func (b *Board) FEN() string {
	squares := make(map[chess.Square]chess.Piece)
	for _, tile := range b.Occupied() {
		squares[toChessSquare(tile.Position)] = toChessPiece[tile.Piece]
	}
	return chess.NewBoard(squares).String() + fenSuffix
}

// toChessSquare maps a row/col position onto a notnil square index,
// which counts files from a1 upward
func toChessSquare(pos core.Position) chess.Square {
	rank := core.BoardSize - 1 - pos.Row
	return chess.Square(pos.Col + rank*8)
}
