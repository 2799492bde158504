package core

// Request types

type CreateBoardRequest struct {
	FEN string `json:"fen,omitempty" validate:"omitempty,max=100"` // Empty means the standard starting position
}

type PlacePieceRequest struct {
	Piece string `json:"piece" validate:"required,len=1,oneof=K Q B N R P k q b n r p"`
}

type TryMoveRequest struct {
	Square string `json:"square" validate:"required,len=2"`
	Piece  string `json:"piece" validate:"required,len=1,oneof=K Q B N R P k q b n r p"`
}

type EvaluateRequest struct {
	FEN    string `json:"fen" validate:"required,max=100"`
	Square string `json:"square" validate:"required,len=2"`
	Piece  string `json:"piece,omitempty" validate:"omitempty,len=1,oneof=K Q B N R P k q b n r p"` // Defaults to the occupant of Square
}

// Marks drawn into MovesResponse.Board by the server and read back by
// clients
const (
	MarkDestination byte = '*' // reachable empty tile, replaces the '.'
	MarkCapture     byte = 'x' // follows a capturable piece letter
)

// Response types

type BoardResponse struct {
	BoardID   string `json:"boardId"`
	FEN       string `json:"fen"`
	Version   int    `json:"version"`
	Board     string `json:"board"`           // ASCII representation
	Token     string `json:"token,omitempty"` // Only returned on creation
	UpdatedAt int64  `json:"updatedAt"`
}

type MovesResponse struct {
	BoardID  string   `json:"boardId,omitempty"`
	From     string   `json:"from"`
	Piece    string   `json:"piece"` // FEN letter
	Moves    []string `json:"moves"`
	Captures []string `json:"captures"` // Subset of Moves occupied by the enemy
	Board    string   `json:"board"`    // ASCII with highlighted destinations
}

type ClassifyResponse struct {
	BoardID   string `json:"boardId"`
	Square    string `json:"square"`
	Color     string `json:"color"`
	Occupancy string `json:"occupancy"` // "out_of_bounds", "empty", "friendly" or "enemy"
	Piece     string `json:"piece,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
