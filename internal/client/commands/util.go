package commands

import (
	"fmt"
	"strings"
	"time"

	"chessmoves/internal/client/display"
)

func (r *Registry) registerUtilCommands() {
	r.Register(&Command{
		Name:        "health",
		ShortName:   ".",
		Description: "Check server health",
		Usage:       "health",
		Handler:     healthHandler,
	})

	r.Register(&Command{
		Name:        "url",
		ShortName:   "/",
		Description: "Set API base URL",
		Usage:       "url [apiUrl]",
		Handler:     urlHandler,
	})

	r.Register(&Command{
		Name:        "raw",
		ShortName:   ":",
		Description: "Send raw API request",
		Usage:       "raw <method> <path> [json-body]",
		Handler:     rawRequestHandler,
	})

	r.Register(&Command{
		Name:        "clear",
		ShortName:   "-",
		Description: "Clear screen",
		Usage:       "clear",
		Handler:     clearHandler,
	})
}

func healthHandler(s Session, args []string) error {
	resp, err := s.GetClient().Health()
	if err != nil {
		return err
	}

	out := s.Out()
	fmt.Fprintf(out, "%sServer Health:%s\n", display.Cyan, display.Reset)
	fmt.Fprintf(out, "  Status:  %s\n", resp.Status)
	fmt.Fprintf(out, "  Time:    %s\n", time.Unix(resp.Time, 0).Format("2006-01-02 15:04:05"))
	if resp.Storage != "" {
		fmt.Fprintf(out, "  Storage: %s\n", resp.Storage)
	}
	fmt.Fprintf(out, "  Boards:  %d\n", resp.Boards)
	return nil
}

func urlHandler(s Session, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(s.Out(), "Current API URL: %s\n", s.GetAPIBaseURL())
		return nil
	}

	url := args[0]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	s.SetAPIBaseURL(url)

	fmt.Fprintf(s.Out(), "%sAPI URL set to: %s%s\n", display.Cyan, url, display.Reset)
	return nil
}

func rawRequestHandler(s Session, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: raw <method> <path> [json-body]")
	}

	method := strings.ToUpper(args[0])
	body := ""
	if len(args) > 2 {
		body = strings.Join(args[2:], " ")
	}
	return s.GetClient().RawRequest(method, args[1], body)
}

// clearHandler uses the ANSI clear sequence rather than shelling out
func clearHandler(s Session, args []string) error {
	fmt.Fprint(s.Out(), "\033[H\033[2J")
	return nil
}
