package session

import (
	"io"
	"os"

	"chessmoves/internal/client/api"
)

// Session holds the client's connection and current board context
type Session struct {
	APIBaseURL   string
	Client       *api.Client
	CurrentBoard string
	BoardToken   string // Bearer token for CurrentBoard, empty after join
	LastVersion  int
	Verbose      bool
	Output       io.Writer
}

// New creates a session talking to baseURL
func New(baseURL string) *Session {
	return &Session{
		APIBaseURL: baseURL,
		Client:     api.New(baseURL),
		Output:     os.Stdout,
	}
}

func (s *Session) GetAPIBaseURL() string {
	return s.APIBaseURL
}

func (s *Session) SetAPIBaseURL(url string) {
	s.APIBaseURL = url
	s.Client.SetBaseURL(url)
}

func (s *Session) GetCurrentBoard() string {
	return s.CurrentBoard
}

// SetCurrentBoard switches the board context; token may be empty for
// boards the session did not create
func (s *Session) SetCurrentBoard(boardID, token string) {
	s.CurrentBoard = boardID
	s.BoardToken = token
	s.LastVersion = 0
	s.Client.SetToken(token)
}

func (s *Session) GetBoardToken() string {
	return s.BoardToken
}

func (s *Session) GetLastVersion() int {
	return s.LastVersion
}

func (s *Session) SetLastVersion(v int) {
	s.LastVersion = v
}

func (s *Session) GetClient() *api.Client {
	return s.Client
}

func (s *Session) IsVerbose() bool {
	return s.Verbose
}

func (s *Session) Out() io.Writer {
	if s.Output == nil {
		return os.Stdout
	}
	return s.Output
}
