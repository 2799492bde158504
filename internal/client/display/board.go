package display

import (
	"fmt"
	"io"
	"strings"

	"chessmoves/internal/core"
)

// RenderBoard writes an ASCII board with colored pieces. Move marks from
// the server are highlighted: '*' on reachable empty tiles in green, and
// capturable pieces on a red background.
func RenderBoard(w io.Writer, asciiBoard string) {
	lines := strings.Split(asciiBoard, "\n")

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		// File header and footer
		if i == 0 || i == len(lines)-1 || len(line) < 18 {
			fmt.Fprintf(w, "%s%s%s\n", Cyan, line, Reset)
			continue
		}

		// Rank line: "8 " then eight two-byte cells, then " 8"
		fmt.Fprintf(w, "%s%c%s ", Cyan, line[0], Reset)
		for col := 0; col < 8; col++ {
			piece, mark := line[2+2*col], line[3+2*col]
			renderCell(w, piece, mark)
		}
		fmt.Fprintf(w, "%s%s%s\n", Cyan, line[18:], Reset)
	}
}

func renderCell(w io.Writer, piece, mark byte) {
	switch {
	case piece == core.MarkDestination:
		fmt.Fprintf(w, "%s%c%s%c", Green, piece, Reset, mark)
	case mark == core.MarkCapture:
		fmt.Fprintf(w, "%s%c%s%s%c%s", RedBg, piece, Reset, Red, mark, Reset)
	case mark == core.MarkDestination:
		fmt.Fprintf(w, "%s%c%s%s%c%s", pieceColor(piece), piece, Reset, Green, mark, Reset)
	case piece == '.':
		fmt.Fprintf(w, "%c%c", piece, mark)
	default:
		fmt.Fprintf(w, "%s%c%s%c", pieceColor(piece), piece, Reset, mark)
	}
}

// pieceColor returns blue for white pieces and red for black ones
func pieceColor(piece byte) string {
	if piece >= 'A' && piece <= 'Z' {
		return Blue
	}
	return Red
}

// ColorForSide returns a colored side name for "w" or "b"
func ColorForSide(side string) string {
	if side == "w" {
		return Blue + "White" + Reset
	}
	return Red + "Black" + Reset
}
