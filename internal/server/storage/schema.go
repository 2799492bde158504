package storage

import "time"

// BoardRecord represents a row in the boards table
type BoardRecord struct {
	BoardID   string    `db:"board_id"`
	FEN       string    `db:"fen"`
	Version   int       `db:"version"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// MoveQueryRecord represents a row in the move_queries table, one per
// legal-move lookup against a stored board
type MoveQueryRecord struct {
	QueryID   int64     `db:"query_id"`
	BoardID   string    `db:"board_id"`
	Square    string    `db:"square"`
	Piece     string    `db:"piece"`
	MoveCount int       `db:"move_count"`
	Moves     string    `db:"moves"` // space-separated squares
	QueriedAt time.Time `db:"queried_at"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS boards (
	board_id TEXT PRIMARY KEY,
	fen TEXT NOT NULL,
	version INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS move_queries (
	query_id INTEGER PRIMARY KEY AUTOINCREMENT,
	board_id TEXT NOT NULL,
	square TEXT NOT NULL,
	piece TEXT NOT NULL CHECK(length(piece) = 1),
	move_count INTEGER NOT NULL,
	moves TEXT NOT NULL,
	queried_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (board_id) REFERENCES boards(board_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_move_queries_board_id ON move_queries(board_id);
CREATE INDEX IF NOT EXISTS idx_boards_updated_at ON boards(updated_at);
`
