// Package main implements an interactive client for exploring tile moves
// against the chessmoves server API.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"chessmoves/internal/client/commands"
	"chessmoves/internal/client/display"
	"chessmoves/internal/client/session"

	"github.com/chzyer/readline"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "Server API base URL")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	history := flag.String("history", ".chessmoves_history", "Readline history file, empty to disable")
	flag.Parse()

	display.InitColors(*noColor)

	s := session.New(*apiURL)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("chessmoves"),
		HistoryFile:     *history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Printf("%sChess Moves Client%s\n", display.Cyan, display.Reset)
	fmt.Printf("%sAPI: %s%s\n", display.Cyan, s.APIBaseURL, display.Reset)
	fmt.Printf("Type 'help' for commands\n\n")

	registry := commands.NewRegistry(s)

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" {
			break
		}

		// Trailing -v turns on verbose output for one command
		s.Verbose = strings.HasSuffix(line, " -v")
		line = strings.TrimSuffix(line, " -v")

		if err := registry.Execute(line); errors.Is(err, commands.ErrExit) {
			break
		}
	}
}

func buildPrompt(s *session.Session) string {
	promptStr := "chessmoves"
	if s.CurrentBoard == "" {
		return display.Prompt(promptStr)
	}

	id := s.CurrentBoard
	if len(id) > 8 {
		id = id[:8]
	}
	promptStr += display.Yellow + " [" + display.White + id + display.Reset

	// Read-only boards have no token
	if s.BoardToken == "" {
		promptStr += display.Magenta + " ro" + display.Reset
	}
	promptStr += display.Yellow + " v" + fmt.Sprint(s.LastVersion) + "]"

	return display.Prompt(promptStr)
}
