package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"chessmoves/internal/client/display"
	"chessmoves/internal/core"
)

var errNoBoard = errors.New("no current board, use 'new' or 'join <boardId>'")

func (r *Registry) registerBoardCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Create a board, standard position unless a FEN is given",
		Usage:       "new [fen]",
		Handler:     newBoardHandler,
	})

	r.Register(&Command{
		Name:        "join",
		ShortName:   "j",
		Description: "Switch to an existing board (read-only without its token)",
		Usage:       "join <boardId> [token]",
		Handler:     joinBoardHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "h",
		Description: "Show the current board",
		Usage:       "show",
		Handler:     showBoardHandler,
	})

	r.Register(&Command{
		Name:        "place",
		ShortName:   "p",
		Description: "Place a piece on a tile",
		Usage:       "place <square> <piece>  (e.g. place e4 N, place d5 q)",
		Handler:     placeHandler,
	})

	r.Register(&Command{
		Name:        "remove",
		ShortName:   "r",
		Description: "Clear a tile",
		Usage:       "remove <square>",
		Handler:     removeHandler,
	})

	r.Register(&Command{
		Name:        "moves",
		ShortName:   "m",
		Description: "List the moves of the piece on a tile",
		Usage:       "moves <square>",
		Handler:     movesHandler,
	})

	r.Register(&Command{
		Name:        "try",
		ShortName:   "t",
		Description: "List moves for a hypothetical piece without changing the board",
		Usage:       "try <square> <piece>",
		Handler:     tryHandler,
	})

	r.Register(&Command{
		Name:        "classify",
		ShortName:   "c",
		Description: "Classify a tile relative to a color",
		Usage:       "classify <square> [w|b]",
		Handler:     classifyHandler,
	})

	r.Register(&Command{
		Name:        "eval",
		ShortName:   "e",
		Description: "List moves on a FEN position without creating a board",
		Usage:       "eval <square> <piece|-> <fen>",
		Handler:     evalHandler,
	})

	r.Register(&Command{
		Name:        "delete",
		ShortName:   "d",
		Description: "Delete the current board",
		Usage:       "delete",
		Handler:     deleteBoardHandler,
	})

	r.Register(&Command{
		Name:        "poll",
		ShortName:   "w",
		Description: "Wait for the current board to change",
		Usage:       "poll",
		Handler:     pollHandler,
	})
}

func newBoardHandler(s Session, args []string) error {
	fen := strings.Join(args, " ")
	resp, err := s.GetClient().CreateBoard(fen)
	if err != nil {
		return err
	}

	s.SetCurrentBoard(resp.BoardID, resp.Token)
	s.SetLastVersion(resp.Version)

	out := s.Out()
	fmt.Fprintf(out, "%sBoard created: %s%s\n", display.Green, resp.BoardID, display.Reset)
	printBoard(out, resp)
	return nil
}

func joinBoardHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <boardId> [token]")
	}

	token := ""
	if len(args) > 1 {
		token = args[1]
	}

	// Token is set before the lookup so the client carries it
	prevBoard, prevToken := s.GetCurrentBoard(), s.GetBoardToken()
	s.SetCurrentBoard(args[0], token)
	resp, err := s.GetClient().GetBoard(args[0])
	if err != nil {
		s.SetCurrentBoard(prevBoard, prevToken)
		return err
	}
	s.SetLastVersion(resp.Version)

	fmt.Fprintf(s.Out(), "%sJoined board: %s%s\n", display.Green, resp.BoardID, display.Reset)
	if token == "" {
		fmt.Fprintf(s.Out(), "%sNo token given, board edits will be rejected%s\n", display.Yellow, display.Reset)
	}
	return nil
}

func showBoardHandler(s Session, args []string) error {
	boardID := s.GetCurrentBoard()
	if boardID == "" {
		return errNoBoard
	}

	resp, err := s.GetClient().GetBoard(boardID)
	if err != nil {
		return err
	}
	s.SetLastVersion(resp.Version)
	printBoard(s.Out(), resp)
	return nil
}

func placeHandler(s Session, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: place <square> <piece>")
	}
	boardID := s.GetCurrentBoard()
	if boardID == "" {
		return errNoBoard
	}

	resp, err := s.GetClient().PlacePiece(boardID, args[0], args[1])
	if err != nil {
		return err
	}
	s.SetLastVersion(resp.Version)

	fmt.Fprintf(s.Out(), "%sPlaced %s on %s%s\n", display.Green, args[1], args[0], display.Reset)
	printBoard(s.Out(), resp)
	return nil
}

func removeHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: remove <square>")
	}
	boardID := s.GetCurrentBoard()
	if boardID == "" {
		return errNoBoard
	}

	resp, err := s.GetClient().RemovePiece(boardID, args[0])
	if err != nil {
		return err
	}
	s.SetLastVersion(resp.Version)

	fmt.Fprintf(s.Out(), "%sCleared %s%s\n", display.Green, args[0], display.Reset)
	printBoard(s.Out(), resp)
	return nil
}

func movesHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: moves <square>")
	}
	boardID := s.GetCurrentBoard()
	if boardID == "" {
		return errNoBoard
	}

	resp, err := s.GetClient().LegalMoves(boardID, args[0])
	if err != nil {
		return err
	}
	printMoves(s.Out(), resp)
	return nil
}

func tryHandler(s Session, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: try <square> <piece>")
	}
	boardID := s.GetCurrentBoard()
	if boardID == "" {
		return errNoBoard
	}

	resp, err := s.GetClient().TryMove(boardID, args[0], args[1])
	if err != nil {
		return err
	}
	printMoves(s.Out(), resp)
	return nil
}

func classifyHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: classify <square> [w|b]")
	}
	boardID := s.GetCurrentBoard()
	if boardID == "" {
		return errNoBoard
	}

	color := "w"
	if len(args) > 1 {
		color = args[1]
	}

	resp, err := s.GetClient().Classify(boardID, args[0], color)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.Out(), "%s for %s: %s%s%s", resp.Square, display.ColorForSide(resp.Color),
		display.Cyan, resp.Occupancy, display.Reset)
	if resp.Piece != "" {
		fmt.Fprintf(s.Out(), " (%s)", resp.Piece)
	}
	fmt.Fprintln(s.Out())
	return nil
}

func evalHandler(s Session, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: eval <square> <piece|-> <fen>")
	}

	piece := args[1]
	if piece == "-" {
		piece = ""
	}

	resp, err := s.GetClient().Evaluate(strings.Join(args[2:], " "), args[0], piece)
	if err != nil {
		return err
	}
	printMoves(s.Out(), resp)
	return nil
}

func deleteBoardHandler(s Session, args []string) error {
	boardID := s.GetCurrentBoard()
	if boardID == "" {
		return errNoBoard
	}

	if err := s.GetClient().DeleteBoard(boardID); err != nil {
		return err
	}

	s.SetCurrentBoard("", "")
	fmt.Fprintf(s.Out(), "%sBoard deleted: %s%s\n", display.Green, boardID, display.Reset)
	return nil
}

func pollHandler(s Session, args []string) error {
	boardID := s.GetCurrentBoard()
	if boardID == "" {
		return errNoBoard
	}

	version := s.GetLastVersion()
	fmt.Fprintf(s.Out(), "%sWaiting for changes after version %d...%s\n", display.Magenta, version, display.Reset)

	resp, err := s.GetClient().GetBoardWithPoll(boardID, version)
	if err != nil {
		return err
	}

	if resp.Version == version {
		fmt.Fprintf(s.Out(), "No changes\n")
		return nil
	}
	s.SetLastVersion(resp.Version)
	printBoard(s.Out(), resp)
	return nil
}

func printBoard(w io.Writer, resp *core.BoardResponse) {
	fmt.Fprintln(w)
	display.RenderBoard(w, resp.Board)
	fmt.Fprintf(w, "\nFEN: %s\n", resp.FEN)
	fmt.Fprintf(w, "Version: %d\n", resp.Version)
}

func printMoves(w io.Writer, resp *core.MovesResponse) {
	fmt.Fprintln(w)
	display.RenderBoard(w, resp.Board)
	fmt.Fprintf(w, "\n%s on %s: ", resp.Piece, resp.From)
	if len(resp.Moves) == 0 {
		fmt.Fprintf(w, "%sno moves%s\n", display.Yellow, display.Reset)
		return
	}
	fmt.Fprintf(w, "%s%s%s\n", display.Green, strings.Join(resp.Moves, " "), display.Reset)
	if len(resp.Captures) > 0 {
		fmt.Fprintf(w, "Captures: %s%s%s\n", display.Red, strings.Join(resp.Captures, " "), display.Reset)
	}
}
