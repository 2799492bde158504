package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"chessmoves/internal/board"
	"chessmoves/internal/server/storage"

	"golang.org/x/term"
)

// Run is the entry point for the database maintenance mini-app
func Run(args []string) error {
	return run(args, os.Stdout, os.Stdin)
}

func run(args []string, out io.Writer, in *os.File) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query, show")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:], out)
	case "delete":
		return runDelete(args[1:], out, in)
	case "query":
		return runQuery(args[1:], out)
	case "show":
		return runShow(args[1:], out)
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// openStore parses the shared -path flag and opens the database
func openStore(fs *flag.FlagSet, args []string) (*storage.Store, string, error) {
	path := fs.String("path", "", "Database file path (required)")
	if err := fs.Parse(args); err != nil {
		return nil, "", err
	}
	if *path == "" {
		return nil, "", fmt.Errorf("database path required")
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open store: %w", err)
	}
	return store, *path, nil
}

func runInit(args []string, out io.Writer) error {
	store, path, err := openStore(flag.NewFlagSet("init", flag.ContinueOnError), args)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Fprintf(out, "Database initialized at: %s\n", path)
	return nil
}

func runDelete(args []string, out io.Writer, in *os.File) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	force := fs.Bool("force", false, "Skip the confirmation prompt")

	store, path, err := openStore(fs, args)
	if err != nil {
		return err
	}

	// Only prompt when a person is at the keyboard
	if !*force && in != nil && term.IsTerminal(int(in.Fd())) {
		fmt.Fprintf(out, "Delete %s and all stored boards? [y/N]: ", path)
		answer, _ := bufio.NewReader(in).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			store.Close()
			fmt.Fprintln(out, "Aborted")
			return nil
		}
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Fprintf(out, "Database deleted: %s\n", path)
	return nil
}

func runQuery(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	boardID := fs.String("boardId", "", "Board ID to filter (optional, * for all)")

	store, _, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	boards, err := store.QueryBoards(*boardID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(boards) == 0 {
		fmt.Fprintln(out, "No boards found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Board ID\tVersion\tUpdated\tFEN")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, b := range boards {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			shortID(b.BoardID),
			b.Version,
			b.UpdatedAt.Format("2006-01-02 15:04:05"),
			b.FEN,
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nFound %d board(s)\n", len(boards))
	return nil
}

// runShow prints one board and its recent move lookups
func runShow(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	boardID := fs.String("boardId", "", "Board ID (required)")
	limit := fs.Int("limit", 20, "Number of move lookups to list, 0 for all")

	store, _, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if *boardID == "" || *boardID == "*" {
		return fmt.Errorf("board ID required")
	}

	boards, err := store.QueryBoards(*boardID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if len(boards) == 0 {
		return fmt.Errorf("board not found: %s", *boardID)
	}
	rec := boards[0]

	b, err := board.ParseFEN(rec.FEN)
	if err != nil {
		return fmt.Errorf("stored FEN is invalid: %w", err)
	}

	fmt.Fprintf(out, "Board:   %s\n", rec.BoardID)
	fmt.Fprintf(out, "Version: %d\n", rec.Version)
	fmt.Fprintf(out, "Created: %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "FEN:     %s\n\n", rec.FEN)
	fmt.Fprintln(out, b.ToASCII())

	entries, err := store.QueryMoveLog(rec.BoardID, *limit)
	if err != nil {
		return fmt.Errorf("move log query failed: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "\nNo move lookups recorded")
		return nil
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Time\tSquare\tPiece\tCount\tMoves")
	for _, q := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			q.QueriedAt.Format("2006-01-02 15:04:05"),
			q.Square, q.Piece, q.MoveCount, q.Moves)
	}
	w.Flush()
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}
