package storage

import (
	"database/sql"
	"fmt"
)

// RecordBoard asynchronously inserts or updates a board snapshot. An
// update never moves a stored board back to an older version.
func (s *Store) RecordBoard(record BoardRecord) {
	s.enqueue("record_board", func(tx *sql.Tx) error {
		query := `INSERT INTO boards (board_id, fen, version, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(board_id) DO UPDATE SET
				fen = excluded.fen,
				version = excluded.version,
				updated_at = excluded.updated_at
			WHERE excluded.version > boards.version`

		_, err := tx.Exec(query,
			record.BoardID, record.FEN, record.Version,
			record.CreatedAt.UTC(), record.UpdatedAt.UTC(),
		)
		return err
	})
}

// DeleteBoard asynchronously removes a board and its query log
func (s *Store) DeleteBoard(boardID string) {
	s.enqueue("delete_board", func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM boards WHERE board_id = ?`, boardID)
		return err
	})
}

// RecordMoveQuery asynchronously logs a legal-move lookup. A lookup on a
// board deleted before the write lands is skipped.
func (s *Store) RecordMoveQuery(record MoveQueryRecord) {
	s.enqueue("record_move_query", func(tx *sql.Tx) error {
		query := `INSERT INTO move_queries (
			board_id, square, piece, move_count, moves, queried_at
		) SELECT ?, ?, ?, ?, ?, ?
		WHERE EXISTS (SELECT 1 FROM boards WHERE board_id = ?)`

		_, err := tx.Exec(query,
			record.BoardID, record.Square, record.Piece,
			record.MoveCount, record.Moves, record.QueriedAt.UTC(),
			record.BoardID,
		)
		return err
	})
}

// LoadBoards returns every stored board, oldest first
func (s *Store) LoadBoards() ([]BoardRecord, error) {
	return s.queryBoards(`SELECT board_id, fen, version, created_at, updated_at
		FROM boards ORDER BY created_at ASC, board_id ASC`)
}

// QueryBoards retrieves boards, filtered by ID unless boardID is empty or "*"
func (s *Store) QueryBoards(boardID string) ([]BoardRecord, error) {
	query := `SELECT board_id, fen, version, created_at, updated_at FROM boards WHERE 1=1`

	var args []any
	if boardID != "" && boardID != "*" {
		query += " AND board_id = ?"
		args = append(args, boardID)
	}
	query += " ORDER BY updated_at DESC"

	return s.queryBoards(query, args...)
}

func (s *Store) queryBoards(query string, args ...any) ([]BoardRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var boards []BoardRecord
	for rows.Next() {
		var b BoardRecord
		if err := rows.Scan(&b.BoardID, &b.FEN, &b.Version, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		boards = append(boards, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return boards, nil
}

// QueryMoveLog returns the most recent move lookups for a board, newest
// first. A non-positive limit returns the whole log.
func (s *Store) QueryMoveLog(boardID string, limit int) ([]MoveQueryRecord, error) {
	query := `SELECT query_id, board_id, square, piece, move_count, moves, queried_at
		FROM move_queries WHERE 1=1`

	var args []any
	if boardID != "" && boardID != "*" {
		query += " AND board_id = ?"
		args = append(args, boardID)
	}
	query += " ORDER BY query_id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var records []MoveQueryRecord
	for rows.Next() {
		var r MoveQueryRecord
		err := rows.Scan(
			&r.QueryID, &r.BoardID, &r.Square, &r.Piece,
			&r.MoveCount, &r.Moves, &r.QueriedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return records, nil
}
