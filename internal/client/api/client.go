package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"chessmoves/internal/client/display"
	"chessmoves/internal/core"
)

// HealthResponse is the /health payload
type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage"`
	Boards  int    `json:"boards"`
}

type Client struct {
	BaseURL    string
	AuthToken  string
	HTTPClient *http.Client
	Verbose    bool
	Out        io.Writer
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Out: os.Stdout,
	}
}

func (c *Client) SetVerbose(v bool) {
	c.Verbose = v
}

// SetBaseURL updates the API base URL for the client
func (c *Client) SetBaseURL(url string) {
	c.BaseURL = strings.TrimRight(url, "/")
}

func (c *Client) SetToken(token string) {
	c.AuthToken = token
}

func (c *Client) doRequest(method, path string, body any, result any) error {
	var bodyReader io.Reader
	var bodyStr string
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonData)
		bodyStr = string(jsonData)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}

	fmt.Fprintf(c.Out, "\n%s[API] %s %s%s\n", display.Blue, method, path, display.Reset)
	if bodyStr != "" {
		if c.Verbose {
			var prettyBody any
			json.Unmarshal([]byte(bodyStr), &prettyBody)
			fmt.Fprintf(c.Out, "%sRequest Body:%s\n", display.Cyan, display.Reset)
			display.PrettyPrintJSON(c.Out, prettyBody)
		} else {
			fmt.Fprintf(c.Out, "%s%s%s\n", display.Blue, bodyStr, display.Reset)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		fmt.Fprintf(c.Out, "%s[ERROR] %s%s\n", display.Red, err.Error(), display.Reset)
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	statusColor := display.Green
	if resp.StatusCode >= 400 {
		statusColor = display.Red
	}
	fmt.Fprintf(c.Out, "%s[%d %s]%s\n", statusColor, resp.StatusCode, http.StatusText(resp.StatusCode), display.Reset)

	if c.Verbose && len(respBody) > 0 {
		var prettyResp any
		if err := json.Unmarshal(respBody, &prettyResp); err == nil {
			fmt.Fprintf(c.Out, "%sResponse Body:%s\n", display.Cyan, display.Reset)
			display.PrettyPrintJSON(c.Out, prettyResp)
		} else {
			fmt.Fprintf(c.Out, "%sResponse:%s\n%s\n", display.Cyan, display.Reset, string(respBody))
		}
	}

	if resp.StatusCode >= 400 {
		var errResp core.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Code != "" {
			return &APIError{Status: resp.StatusCode, Response: errResp}
		}
		return &APIError{Status: resp.StatusCode, Response: core.ErrorResponse{Error: strings.TrimSpace(string(respBody))}}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			fmt.Fprintf(c.Out, "%sResponse parse error: %s%s\n", display.Red, err.Error(), display.Reset)
			fmt.Fprintf(c.Out, "%sRaw response: %s%s\n", display.Green, string(respBody), display.Reset)
			return err
		}
	}

	return nil
}

// APIError is a non-2xx response from the server
type APIError struct {
	Status   int
	Response core.ErrorResponse
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%d: %s", e.Status, e.Response.Error)
	if e.Response.Code != "" {
		msg += " [" + e.Response.Code + "]"
	}
	if e.Response.Details != "" {
		msg += " (" + e.Response.Details + ")"
	}
	return msg
}

// API Methods

func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	err := c.doRequest("GET", "/health", nil, &resp)
	return &resp, err
}

func (c *Client) CreateBoard(fen string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.doRequest("POST", "/api/v1/boards", &core.CreateBoardRequest{FEN: fen}, &resp)
	return &resp, err
}

func (c *Client) GetBoard(boardID string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.doRequest("GET", "/api/v1/boards/"+boardID, nil, &resp)
	return &resp, err
}

// GetBoardWithPoll waits server-side until the board moves past version
func (c *Client) GetBoardWithPoll(boardID string, version int) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	path := fmt.Sprintf("/api/v1/boards/%s?wait=true&version=%d", boardID, version)
	err := c.doRequest("GET", path, nil, &resp)
	return &resp, err
}

func (c *Client) DeleteBoard(boardID string) error {
	return c.doRequest("DELETE", "/api/v1/boards/"+boardID, nil, nil)
}

func (c *Client) PlacePiece(boardID, square, piece string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.doRequest("PUT", tilePath(boardID, square), &core.PlacePieceRequest{Piece: piece}, &resp)
	return &resp, err
}

func (c *Client) RemovePiece(boardID, square string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.doRequest("DELETE", tilePath(boardID, square), nil, &resp)
	return &resp, err
}

func (c *Client) Classify(boardID, square, color string) (*core.ClassifyResponse, error) {
	var resp core.ClassifyResponse
	err := c.doRequest("GET", tilePath(boardID, square)+"?color="+url.QueryEscape(color), nil, &resp)
	return &resp, err
}

func (c *Client) LegalMoves(boardID, square string) (*core.MovesResponse, error) {
	var resp core.MovesResponse
	err := c.doRequest("GET", "/api/v1/boards/"+boardID+"/moves/"+url.PathEscape(square), nil, &resp)
	return &resp, err
}

func (c *Client) TryMove(boardID, square, piece string) (*core.MovesResponse, error) {
	var resp core.MovesResponse
	req := &core.TryMoveRequest{Square: square, Piece: piece}
	err := c.doRequest("POST", "/api/v1/boards/"+boardID+"/moves", req, &resp)
	return &resp, err
}

func (c *Client) Evaluate(fen, square, piece string) (*core.MovesResponse, error) {
	var resp core.MovesResponse
	req := &core.EvaluateRequest{FEN: fen, Square: square, Piece: piece}
	err := c.doRequest("POST", "/api/v1/moves", req, &resp)
	return &resp, err
}

// RawRequest performs a raw HTTP request for debugging purposes
func (c *Client) RawRequest(method, path string, body string) error {
	var bodyData any
	if body != "" {
		if err := json.Unmarshal([]byte(body), &bodyData); err != nil {
			bodyData = body
		}
	}

	var result any
	if err := c.doRequest(method, path, bodyData, &result); err != nil {
		return err
	}
	if result != nil && !c.Verbose {
		display.PrettyPrintJSON(c.Out, result)
	}
	return nil
}

func tilePath(boardID, square string) string {
	return "/api/v1/boards/" + boardID + "/tiles/" + url.PathEscape(square)
}
