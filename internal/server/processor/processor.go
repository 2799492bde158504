package processor

import (
	"errors"
	"fmt"
	"regexp"
	"time"
	"unicode"

	"chessmoves/internal/board"
	"chessmoves/internal/core"
	"chessmoves/internal/movegen"
	"chessmoves/internal/server/service"
)

// FEN validation regex; the five trailing fields are optional
var fenPattern = regexp.MustCompile(`^[rnbqkpRNBQKP1-8/]+( [wb] [KQkq-]+ [a-h1-8-]+ \d+ \d+)?$`)

// Processor handles command execution and maps service results onto the
// API response types
type Processor struct {
	svc   *service.Service
	queue *EvalQueue
}

// New creates a processor; evalWorkers bounds concurrent stateless evaluations
func New(svc *service.Service, evalWorkers int) *Processor {
	return &Processor{
		svc:   svc,
		queue: NewEvalQueue(evalWorkers, svc.Evaluate),
	}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateBoard:
		return p.handleCreateBoard(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdDeleteBoard:
		return p.handleDeleteBoard(cmd)
	case CmdPlacePiece:
		return p.handlePlacePiece(cmd)
	case CmdRemovePiece:
		return p.handleRemovePiece(cmd)
	case CmdLegalMoves:
		return p.handleLegalMoves(cmd)
	case CmdTryMove:
		return p.handleTryMove(cmd)
	case CmdClassify:
		return p.handleClassify(cmd)
	case CmdEvaluate:
		return p.handleEvaluate(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

// isFENSafe rejects control characters and anything that is not FEN-shaped
func (p *Processor) isFENSafe(fen string) bool {
	for _, r := range fen {
		if unicode.IsControl(r) {
			return false
		}
	}
	return fenPattern.MatchString(fen)
}

func (p *Processor) handleCreateBoard(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateBoardRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	if args.FEN != "" && !p.isFENSafe(args.FEN) {
		return p.errorResponse("invalid FEN format or characters", core.ErrInvalidFEN)
	}

	info, err := p.svc.CreateBoard(args.FEN)
	if err != nil {
		return p.serviceError("failed to create board", err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildBoardResponse(info),
	}
}

func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	info, err := p.svc.GetBoard(cmd.BoardID)
	if err != nil {
		return p.serviceError("failed to get board", err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildBoardResponse(info),
	}
}

func (p *Processor) handleDeleteBoard(cmd Command) ProcessorResponse {
	if err := p.svc.DeleteBoard(cmd.BoardID); err != nil {
		return p.serviceError("failed to delete board", err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    map[string]string{"message": "board deleted successfully"},
	}
}

func (p *Processor) handlePlacePiece(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.PlacePieceRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	pos, err := core.ParseSquare(cmd.Square)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidSquare)
	}
	piece, err := core.ParsePiece(args.Piece)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidPiece)
	}

	info, err := p.svc.PlacePiece(cmd.BoardID, pos, piece)
	if err != nil {
		return p.serviceError("failed to place piece", err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildBoardResponse(info),
	}
}

func (p *Processor) handleRemovePiece(cmd Command) ProcessorResponse {
	pos, err := core.ParseSquare(cmd.Square)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidSquare)
	}

	info, err := p.svc.RemovePiece(cmd.BoardID, pos)
	if err != nil {
		return p.serviceError("failed to remove piece", err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildBoardResponse(info),
	}
}

func (p *Processor) handleLegalMoves(cmd Command) ProcessorResponse {
	pos, err := core.ParseSquare(cmd.Square)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidSquare)
	}

	res, err := p.svc.LegalMoves(cmd.BoardID, pos)
	if err != nil {
		return p.serviceError("failed to generate moves", err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildMovesResponse(res),
	}
}

// handleTryMove generates moves for a hypothetical piece on a stored board
func (p *Processor) handleTryMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.TryMoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	pos, err := core.ParseSquare(args.Square)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidSquare)
	}
	piece, err := core.ParsePiece(args.Piece)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidPiece)
	}

	res, err := p.svc.LegalMovesFor(cmd.BoardID, pos, piece)
	if err != nil {
		return p.serviceError("failed to generate moves", err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildMovesResponse(res),
	}
}

func (p *Processor) handleClassify(cmd Command) ProcessorResponse {
	colorArg, _ := cmd.Args.(string)
	color, err := core.ParseColor(colorArg)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidColor)
	}

	pos, err := core.ParseSquare(cmd.Square)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidSquare)
	}

	res, err := p.svc.Classify(cmd.BoardID, pos, color)
	if err != nil {
		return p.serviceError("failed to classify tile", err)
	}

	resp := core.ClassifyResponse{
		BoardID:   res.BoardID,
		Square:    res.Position.String(),
		Color:     res.Color.String(),
		Occupancy: res.Occupancy.String(),
	}
	if !res.Piece.IsZero() {
		resp.Piece = string(res.Piece.FEN())
	}

	return ProcessorResponse{
		Success: true,
		Data:    resp,
	}
}

// handleEvaluate runs a stateless evaluation on the worker pool
func (p *Processor) handleEvaluate(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.EvaluateRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	if !p.isFENSafe(args.FEN) {
		return p.errorResponse("invalid FEN format or characters", core.ErrInvalidFEN)
	}
	pos, err := core.ParseSquare(args.Square)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidSquare)
	}

	var piece core.Piece
	if args.Piece != "" {
		if piece, err = core.ParsePiece(args.Piece); err != nil {
			return p.errorResponse(err.Error(), core.ErrInvalidPiece)
		}
	}

	res, err := p.queue.Evaluate(args.FEN, pos, piece)
	if err != nil {
		return p.serviceError("failed to evaluate position", err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildMovesResponse(res),
	}
}

func (p *Processor) buildBoardResponse(info *service.BoardInfo) core.BoardResponse {
	return core.BoardResponse{
		BoardID:   info.BoardID,
		FEN:       info.Board.FEN(),
		Version:   info.Version,
		Board:     info.Board.ToASCII(),
		Token:     info.Token,
		UpdatedAt: info.UpdatedAt.UnixMilli(),
	}
}

// buildMovesResponse renders destinations on the board: '*' on empty
// tiles and 'x' beside captured pieces
func (p *Processor) buildMovesResponse(res *service.MoveResult) core.MovesResponse {
	marks := make(map[core.Position]byte, res.Moves.Len())
	for pos := range res.Moves {
		marks[pos] = core.MarkDestination
	}
	for pos := range res.Captures {
		marks[pos] = core.MarkCapture
	}

	return core.MovesResponse{
		BoardID:  res.BoardID,
		From:     res.From.String(),
		Piece:    string(res.Piece.FEN()),
		Moves:    res.Moves.Squares(),
		Captures: res.Captures.Squares(),
		Board:    res.Board.ToASCIIMarked(marks),
	}
}

// serviceError maps a service or move generation error onto an API code
func (p *Processor) serviceError(action string, err error) ProcessorResponse {
	code := core.ErrInternalError
	switch {
	case errors.Is(err, service.ErrBoardNotFound):
		code = core.ErrBoardNotFound
	case errors.Is(err, board.ErrOutOfBounds):
		code = core.ErrOutOfBounds
	case errors.Is(err, board.ErrInvalidFEN):
		code = core.ErrInvalidFEN
	case errors.Is(err, board.ErrInvalidPiece):
		code = core.ErrInvalidPiece
	case errors.Is(err, movegen.ErrUnknownPieceType):
		code = core.ErrUnknownPieceType
	case errors.Is(err, movegen.ErrUnknownColor):
		code = core.ErrInvalidColor
	case errors.Is(err, service.ErrTileEmpty):
		code = core.ErrTileEmpty
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrTokenMismatch):
		code = core.ErrUnauthorized
	case errors.Is(err, service.ErrBoardLimit),
		errors.Is(err, ErrQueueFull),
		errors.Is(err, ErrQueueClosed),
		errors.Is(err, ErrEvalTimeout):
		code = core.ErrResourceLimit
	}
	return p.errorResponse(fmt.Sprintf("%s: %v", action, err), code)
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}

// Close stops the evaluation workers
func (p *Processor) Close() error {
	return p.queue.Shutdown(5 * time.Second)
}
