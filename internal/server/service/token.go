package service

import (
	"fmt"

	"github.com/lixenwraith/auth"
)

// issueToken signs a bearer token whose subject is the board ID
func (s *Service) issueToken(boardID string) (string, error) {
	claims := map[string]any{
		"scope": "board",
	}
	return auth.GenerateHS256Token(s.cfg.TokenSecret, boardID, claims, s.cfg.TokenTTL)
}

// ValidateToken verifies a board token and returns its subject with claims
func (s *Service) ValidateToken(token string) (string, map[string]any, error) {
	return auth.ValidateHS256Token(s.cfg.TokenSecret, token)
}

// Authorize checks that token was issued for boardID. A valid token for
// a different board yields ErrTokenMismatch.
func (s *Service) Authorize(boardID, token string) error {
	subject, _, err := s.ValidateToken(token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if subject != boardID {
		return ErrTokenMismatch
	}
	return nil
}
