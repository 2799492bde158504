package processor

import (
	"chessmoves/internal/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreateBoard CommandType = iota
	CmdGetBoard
	CmdDeleteBoard
	CmdPlacePiece
	CmdRemovePiece
	CmdLegalMoves
	CmdTryMove
	CmdClassify
	CmdEvaluate
)

// Command is a unified structure for all processor operations
type Command struct {
	Type    CommandType
	BoardID string // For board-specific commands
	Square  string // Algebraic square from the request path
	Args    any    // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateBoardCommand(req core.CreateBoardRequest) Command {
	return Command{
		Type: CmdCreateBoard,
		Args: req,
	}
}

func NewGetBoardCommand(boardID string) Command {
	return Command{
		Type:    CmdGetBoard,
		BoardID: boardID,
	}
}

func NewDeleteBoardCommand(boardID string) Command {
	return Command{
		Type:    CmdDeleteBoard,
		BoardID: boardID,
	}
}

func NewPlacePieceCommand(boardID, square string, req core.PlacePieceRequest) Command {
	return Command{
		Type:    CmdPlacePiece,
		BoardID: boardID,
		Square:  square,
		Args:    req,
	}
}

func NewRemovePieceCommand(boardID, square string) Command {
	return Command{
		Type:    CmdRemovePiece,
		BoardID: boardID,
		Square:  square,
	}
}

func NewLegalMovesCommand(boardID, square string) Command {
	return Command{
		Type:    CmdLegalMoves,
		BoardID: boardID,
		Square:  square,
	}
}

func NewTryMoveCommand(boardID string, req core.TryMoveRequest) Command {
	return Command{
		Type:    CmdTryMove,
		BoardID: boardID,
		Square:  req.Square,
		Args:    req,
	}
}

// NewClassifyCommand classifies square relative to color ("w" or "b")
func NewClassifyCommand(boardID, square, color string) Command {
	return Command{
		Type:    CmdClassify,
		BoardID: boardID,
		Square:  square,
		Args:    color,
	}
}

func NewEvaluateCommand(req core.EvaluateRequest) Command {
	return Command{
		Type:   CmdEvaluate,
		Square: req.Square,
		Args:   req,
	}
}
