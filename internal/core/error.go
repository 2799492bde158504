package core

// Error codes
const (
	ErrBoardNotFound     = "BOARD_NOT_FOUND"
	ErrOutOfBounds       = "OUT_OF_BOUNDS"
	ErrUnknownPieceType  = "UNKNOWN_PIECE_TYPE"
	ErrInvalidSquare     = "INVALID_SQUARE"
	ErrInvalidPiece      = "INVALID_PIECE"
	ErrInvalidColor      = "INVALID_COLOR"
	ErrTileEmpty         = "TILE_EMPTY"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInvalidFEN        = "INVALID_FEN"
	ErrInternalError     = "INTERNAL_ERROR"
	ErrResourceLimit     = "RESOURCE_LIMIT"
	ErrUnauthorized      = "UNAUTHORIZED"
)
