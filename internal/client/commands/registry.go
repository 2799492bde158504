package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"chessmoves/internal/client/api"
	"chessmoves/internal/client/display"
)

// ErrExit is returned by Execute when the user asked to leave
var ErrExit = errors.New("exit requested")

type Session interface {
	GetAPIBaseURL() string
	SetAPIBaseURL(string)
	GetCurrentBoard() string
	SetCurrentBoard(boardID, token string)
	GetBoardToken() string
	GetLastVersion() int
	SetLastVersion(int)
	GetClient() *api.Client
	IsVerbose() bool
	Out() io.Writer
}

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(Session, []string) error
}

// Registry manages command registration and execution
type Registry struct {
	session  Session
	commands map[string]*Command
}

func NewRegistry(session Session) *Registry {
	r := &Registry{
		session:  session,
		commands: make(map[string]*Command),
	}

	r.registerBoardCommands()
	r.registerUtilCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})

	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Description: "Exit the client",
		Usage:       "exit",
		Handler:     exitHandler,
	})

	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

// Execute runs one input line. Command errors are printed, only ErrExit
// is returned.
func (r *Registry) Execute(input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	out := r.session.Out()
	cmdName := parts[0]
	args := parts[1:]

	cmd, exists := r.commands[cmdName]
	if !exists {
		fmt.Fprintf(out, "%sUnknown command: %s%s\n", display.Red, cmdName, display.Reset)
		fmt.Fprintf(out, "Type 'help' for available commands\n")
		return nil
	}

	cl := r.session.GetClient()
	cl.SetVerbose(r.session.IsVerbose())
	cl.Out = out

	err := cmd.Handler(r.session, args)
	if errors.Is(err, ErrExit) {
		return err
	}
	if err != nil {
		fmt.Fprintf(out, "%sError: %s%s\n", display.Red, err.Error(), display.Reset)
	}
	return nil
}

func (r *Registry) helpHandler(s Session, args []string) error {
	out := s.Out()
	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Fprintf(out, "\n%s%s%s - %s\n", display.Cyan, cmd.Name, display.Reset, cmd.Description)
		if cmd.ShortName != "" {
			fmt.Fprintf(out, "Short form: %s%s%s\n", display.Cyan, cmd.ShortName, display.Reset)
		}
		fmt.Fprintf(out, "Usage: %s\n", cmd.Usage)
		return nil
	}

	fmt.Fprintf(out, "\n%sAvailable Commands:%s\n\n", display.Cyan, display.Reset)

	boardCommands := []string{"new", "join", "show", "place", "remove", "moves", "try", "classify", "eval", "delete", "poll"}
	utilCommands := []string{"health", "url", "raw", "clear", "help", "exit"}

	printCommandGroup := func(title string, names []string) {
		fmt.Fprintf(out, "%s%s:%s\n", display.Yellow, title, display.Reset)
		for _, name := range names {
			cmd, exists := r.commands[name]
			if !exists {
				continue
			}
			shortPart := ""
			if cmd.ShortName != "" {
				shortPart = fmt.Sprintf("[%s%s%s] ", display.Cyan, cmd.ShortName, display.Reset)
			}
			fmt.Fprintf(out, "  %s%-10s %s\n", shortPart, cmd.Name, cmd.Description)
		}
	}

	printCommandGroup("Board Commands", boardCommands)
	fmt.Fprintln(out)
	printCommandGroup("Utility Commands", utilCommands)

	fmt.Fprintf(out, "\nType 'help <command>' for detailed usage\n")
	return nil
}

func exitHandler(s Session, args []string) error {
	fmt.Fprintf(s.Out(), "%sGoodbye!%s\n", display.Cyan, display.Reset)
	return ErrExit
}
