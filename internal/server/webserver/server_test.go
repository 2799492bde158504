package webserver

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExplorer(t *testing.T) {
	app, err := New("http://localhost:8080")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/", "text/html; charset=utf-8", "<title>Chess Moves Explorer</title>"},
		{"/app.js", "application/javascript; charset=utf-8", "function selectTile"},
		{"/style.css", "text/css; charset=utf-8", ".highlight"},
		{"/some/route", "text/html; charset=utf-8", "<title>Chess Moves Explorer</title>"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != 200 {
				t.Fatalf("status = %d; want 200", resp.StatusCode)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q; want %q", got, tt.contentType)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body missing %q", tt.contains)
			}
		})
	}
}

func TestExplorerConfig(t *testing.T) {
	app, err := New("http://api.example:9000")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/config", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	var cfg struct {
		APIURL string `json:"apiUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.APIURL != "http://api.example:9000" {
		t.Errorf("apiUrl = %q", cfg.APIURL)
	}
}
