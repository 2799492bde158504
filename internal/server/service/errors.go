package service

import "errors"

var (
	ErrBoardNotFound = errors.New("board not found")
	ErrTileEmpty     = errors.New("tile is empty")
	ErrBoardLimit    = errors.New("board limit reached")
	ErrUnauthorized  = errors.New("invalid board token")
	ErrTokenMismatch = errors.New("token issued for another board")
)
