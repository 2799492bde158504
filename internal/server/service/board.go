package service

import (
	"fmt"
	"strings"
	"time"

	"chessmoves/internal/board"
	"chessmoves/internal/core"
	"chessmoves/internal/movegen"
	"chessmoves/internal/server/storage"

	"github.com/google/uuid"
)

// BoardInfo is a point-in-time copy of a live board
type BoardInfo struct {
	BoardID   string
	Board     *board.Board // Independent snapshot
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
	Token     string // Only set by CreateBoard
}

// MoveResult holds the destinations of one piece and the subset that
// captures an enemy piece
type MoveResult struct {
	BoardID  string // Empty for stateless evaluations
	From     core.Position
	Piece    core.Piece
	Moves    movegen.MoveSet
	Captures movegen.MoveSet
	Board    *board.Board // Snapshot the moves were computed on
}

// ClassifyResult is the occupancy of one tile relative to a color
type ClassifyResult struct {
	BoardID   string
	Position  core.Position
	Color     core.Color
	Occupancy movegen.Occupancy
	Piece     core.Piece
}

func (e *boardEntry) info(id string) *BoardInfo {
	return &BoardInfo{
		BoardID:   id,
		Board:     e.board.Clone(),
		Version:   e.version,
		CreatedAt: e.createdAt,
		UpdatedAt: e.updatedAt,
	}
}

func (e *boardEntry) record(id string) storage.BoardRecord {
	return storage.BoardRecord{
		BoardID:   id,
		FEN:       e.board.FEN(),
		Version:   e.version,
		CreatedAt: e.createdAt,
		UpdatedAt: e.updatedAt,
	}
}

// CreateBoard registers a new board from fen, or the standard starting
// position when fen is empty, and issues its bearer token
func (s *Service) CreateBoard(fen string) (*BoardInfo, error) {
	b := board.NewStandard()
	if fen != "" {
		parsed, err := board.ParseFEN(fen)
		if err != nil {
			return nil, err
		}
		b = parsed
	}

	s.mu.Lock()
	if len(s.boards) >= s.cfg.MaxBoards {
		s.mu.Unlock()
		return nil, ErrBoardLimit
	}

	id := uuid.NewString()
	for s.boards[id] != nil {
		id = uuid.NewString()
	}

	now := s.now().UTC()
	e := &boardEntry{board: b, createdAt: now, updatedAt: now}
	e.touch(now)
	s.boards[id] = e
	info := e.info(id)
	record := e.record(id)
	s.mu.Unlock()

	token, err := s.issueToken(id)
	if err != nil {
		s.mu.Lock()
		delete(s.boards, id)
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to issue board token: %w", err)
	}
	info.Token = token

	if s.store != nil {
		s.store.RecordBoard(record)
	}

	return info, nil
}

// GetBoard returns a snapshot of a board
func (s *Service) GetBoard(boardID string) (*BoardInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.boards[boardID]
	if !ok {
		return nil, ErrBoardNotFound
	}
	e.touch(s.now())
	return e.info(boardID), nil
}

// DeleteBoard removes a board and releases anyone waiting on it
func (s *Service) DeleteBoard(boardID string) error {
	s.mu.Lock()
	_, ok := s.boards[boardID]
	delete(s.boards, boardID)
	s.mu.Unlock()

	if !ok {
		return ErrBoardNotFound
	}

	s.waiter.RemoveBoard(boardID)
	if s.store != nil {
		s.store.DeleteBoard(boardID)
	}
	return nil
}

// PlacePiece puts piece on pos, replacing any occupant
func (s *Service) PlacePiece(boardID string, pos core.Position, piece core.Piece) (*BoardInfo, error) {
	return s.mutate(boardID, func(b *board.Board) error {
		return b.Place(pos, piece)
	})
}

// RemovePiece clears pos; removing from an empty tile is an error
func (s *Service) RemovePiece(boardID string, pos core.Position) (*BoardInfo, error) {
	return s.mutate(boardID, func(b *board.Board) error {
		empty, err := b.IsEmpty(pos)
		if err != nil {
			return err
		}
		if empty {
			return fmt.Errorf("%w: %s", ErrTileEmpty, pos)
		}
		_, err = b.Remove(pos)
		return err
	})
}

// mutate applies fn under the write lock, then bumps the version,
// persists the board, and wakes long-polling clients
func (s *Service) mutate(boardID string, fn func(*board.Board) error) (*BoardInfo, error) {
	s.mu.Lock()
	e, ok := s.boards[boardID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrBoardNotFound
	}
	if err := fn(e.board); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	now := s.now().UTC()
	e.version++
	e.updatedAt = now
	e.touch(now)
	info := e.info(boardID)
	// Enqueued under the lock so snapshots reach the writer in version order
	if s.store != nil {
		s.store.RecordBoard(e.record(boardID))
	}
	s.mu.Unlock()

	s.waiter.NotifyBoard(boardID, info.Version)

	return info, nil
}

// LegalMoves computes the destinations of the piece standing on pos
func (s *Service) LegalMoves(boardID string, pos core.Position) (*MoveResult, error) {
	s.mu.RLock()
	e, ok := s.boards[boardID]
	if !ok {
		s.mu.RUnlock()
		return nil, ErrBoardNotFound
	}
	e.touch(s.now())
	snapshot := e.board.Clone()
	s.mu.RUnlock()

	tile, err := snapshot.TileAt(pos)
	if err != nil {
		return nil, err
	}
	if tile.IsEmpty() {
		return nil, fmt.Errorf("%w: %s", ErrTileEmpty, pos)
	}

	result, err := s.evaluate(snapshot, pos, tile.Piece)
	if err != nil {
		return nil, err
	}
	result.BoardID = boardID
	s.logQuery(result)
	return result, nil
}

// LegalMovesFor computes the destinations piece would have if it stood on
// pos. The stored board is not modified.
func (s *Service) LegalMovesFor(boardID string, pos core.Position, piece core.Piece) (*MoveResult, error) {
	s.mu.RLock()
	e, ok := s.boards[boardID]
	if !ok {
		s.mu.RUnlock()
		return nil, ErrBoardNotFound
	}
	e.touch(s.now())
	snapshot := e.board.Clone()
	s.mu.RUnlock()

	result, err := s.hypothetical(snapshot, pos, piece)
	if err != nil {
		return nil, err
	}
	result.BoardID = boardID
	s.logQuery(result)
	return result, nil
}

// Classify reports the occupancy of pos relative to color
func (s *Service) Classify(boardID string, pos core.Position, color core.Color) (*ClassifyResult, error) {
	if !color.Valid() {
		return nil, fmt.Errorf("%w: %d", movegen.ErrUnknownColor, int(color))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.boards[boardID]
	if !ok {
		return nil, ErrBoardNotFound
	}
	e.touch(s.now())

	result := &ClassifyResult{
		BoardID:   boardID,
		Position:  pos,
		Color:     color,
		Occupancy: movegen.Classify(e.board, pos, color),
	}
	if tile, err := e.board.TileAt(pos); err == nil {
		result.Piece = tile.Piece
	}
	return result, nil
}

// Evaluate runs move generation on a board parsed from fen without
// registering it. A zero piece means the occupant of pos.
func (s *Service) Evaluate(fen string, pos core.Position, piece core.Piece) (*MoveResult, error) {
	b, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}

	if !piece.IsZero() {
		return s.hypothetical(b, pos, piece)
	}

	tile, err := b.TileAt(pos)
	if err != nil {
		return nil, err
	}
	if tile.IsEmpty() {
		return nil, fmt.Errorf("%w: %s", ErrTileEmpty, pos)
	}
	return s.evaluate(b, pos, tile.Piece)
}

// hypothetical places piece on pos in b, which must be a private copy,
// before evaluating it
func (s *Service) hypothetical(b *board.Board, pos core.Position, piece core.Piece) (*MoveResult, error) {
	// Invalid pieces fall through so the generator reports the precise error
	if piece.Valid() {
		if err := b.Place(pos, piece); err != nil {
			return nil, err
		}
	}
	return s.evaluate(b, pos, piece)
}

func (s *Service) evaluate(b *board.Board, pos core.Position, piece core.Piece) (*MoveResult, error) {
	moves, err := s.gen.LegalMoves(b, pos, piece.Type, piece.Color)
	if err != nil {
		return nil, err
	}
	return &MoveResult{
		From:     pos,
		Piece:    piece,
		Moves:    moves,
		Captures: movegen.Captures(b, moves, piece.Color),
		Board:    b,
	}, nil
}

func (s *Service) logQuery(r *MoveResult) {
	if s.store == nil {
		return
	}
	squares := r.Moves.Squares()
	s.store.RecordMoveQuery(storage.MoveQueryRecord{
		BoardID:   r.BoardID,
		Square:    r.From.String(),
		Piece:     string(r.Piece.FEN()),
		MoveCount: len(squares),
		Moves:     strings.Join(squares, " "),
		QueriedAt: s.now().UTC(),
	})
}
