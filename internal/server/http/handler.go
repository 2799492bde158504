package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"chessmoves/internal/core"
	"chessmoves/internal/server/processor"
	"chessmoves/internal/server/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const rateLimitRate = 10 // req/sec

// Config adjusts the HTTP layer
type Config struct {
	DevMode   bool
	RateLimit int // Requests per second per client; 0 selects the default
}

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, cfg Config) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second, // Covers the long-poll wait
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	maxReq := cfg.RateLimit
	if maxReq <= 0 {
		maxReq = rateLimitRate
		if cfg.DevMode {
			maxReq = rateLimitRate * 2
		}
	}
	api.Use(limiter.New(limiter.Config{
		Max:        maxReq,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			if xff := c.Get("X-Forwarded-For"); xff != "" {
				if idx := strings.Index(xff, ","); idx != -1 {
					return strings.TrimSpace(xff[:idx])
				}
				return xff
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	boardAuth := BoardAuth(svc.Authorize)

	// Body checks run after auth so unauthenticated edits get 401, not 400
	body := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{contentTypeValidator, validationMiddleware, h}
	}

	api.Post("/boards", body(h.CreateBoard)...)
	api.Get("/boards/:boardId", h.GetBoard)
	api.Delete("/boards/:boardId", boardAuth, h.DeleteBoard)
	api.Put("/boards/:boardId/tiles/:square", boardAuth, contentTypeValidator, validationMiddleware, h.PlacePiece)
	api.Delete("/boards/:boardId/tiles/:square", boardAuth, h.RemovePiece)
	api.Get("/boards/:boardId/tiles/:square", h.ClassifyTile)
	api.Get("/boards/:boardId/moves/:square", h.LegalMoves)
	api.Post("/boards/:boardId/moves", body(h.TryMove)...)
	api.Post("/moves", body(h.Evaluate)...)

	return app
}

// contentTypeValidator ensures POST and PUT requests have application/json
func contentTypeValidator(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodPost || method == fiber.MethodPut {
		contentType := c.Get("Content-Type")
		if contentType != "application/json" && contentType != "" {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrInvalidRequest
			response.Details = "no such route"
		case fiber.StatusBadRequest:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// statusForCode maps processor error codes onto HTTP status codes
func statusForCode(code string) int {
	switch code {
	case core.ErrBoardNotFound:
		return fiber.StatusNotFound
	case core.ErrUnauthorized:
		return fiber.StatusForbidden
	case core.ErrResourceLimit:
		return fiber.StatusServiceUnavailable
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

func respond(c *fiber.Ctx, resp processor.ProcessorResponse, successStatus int) error {
	if !resp.Success {
		return c.Status(statusForCode(resp.Error.Code)).JSON(resp.Error)
	}
	return c.Status(successStatus).JSON(resp.Data)
}

// validatedBody returns the body stored by validationMiddleware, or false
// after writing a 500 response when validation did not run
func validatedBody[T any](c *fiber.Ctx) (T, bool) {
	var zero T

	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
		return zero, false
	}

	body, ok := c.Locals("validatedBody").(*T)
	if !ok || body == nil {
		c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
		return zero, false
	}
	return *body, true
}

// boardIDParam returns the :boardId parameter, or false after writing a
// 400 response when it is not a UUID
func boardIDParam(c *fiber.Ctx) (string, bool) {
	boardID := c.Params("boardId")
	if !isValidUUID(boardID) {
		c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid board ID format",
			Code:    core.ErrInvalidRequest,
			Details: "board ID must be a valid UUID",
		})
		return "", false
	}
	return boardID, true
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": h.svc.GetStorageHealth(),
		"boards":  h.svc.BoardCount(),
	})
}

// CreateBoard registers a board and returns it with its bearer token
func (h *HTTPHandler) CreateBoard(c *fiber.Ctx) error {
	req, ok := validatedBody[core.CreateBoardRequest](c)
	if !ok {
		return nil
	}
	return respond(c, h.proc.Execute(processor.NewCreateBoardCommand(req)), fiber.StatusCreated)
}

// GetBoard returns the board, optionally long-polling until its version
// moves past ?version= when ?wait=true
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	boardID, ok := boardIDParam(c)
	if !ok {
		return nil
	}

	if c.Query("wait", "false") != "true" {
		return respond(c, h.proc.Execute(processor.NewGetBoardCommand(boardID)), fiber.StatusOK)
	}

	version, err := strconv.Atoi(c.Query("version", "-1"))
	if err != nil {
		version = -1
	}

	ctx := c.Context()
	notify, err := h.svc.RegisterWait(boardID, version, ctx)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "board not found",
			Code:  core.ErrBoardNotFound,
		})
	}

	select {
	case <-notify:
		// Changed, timed out, or deleted; the fresh read reports which
		return respond(c, h.proc.Execute(processor.NewGetBoardCommand(boardID)), fiber.StatusOK)
	case <-ctx.Done():
		return nil
	}
}

func (h *HTTPHandler) DeleteBoard(c *fiber.Ctx) error {
	boardID, ok := boardIDParam(c)
	if !ok {
		return nil
	}

	resp := h.proc.Execute(processor.NewDeleteBoardCommand(boardID))
	if !resp.Success {
		return c.Status(statusForCode(resp.Error.Code)).JSON(resp.Error)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *HTTPHandler) PlacePiece(c *fiber.Ctx) error {
	boardID, ok := boardIDParam(c)
	if !ok {
		return nil
	}
	req, ok := validatedBody[core.PlacePieceRequest](c)
	if !ok {
		return nil
	}
	cmd := processor.NewPlacePieceCommand(boardID, c.Params("square"), req)
	return respond(c, h.proc.Execute(cmd), fiber.StatusOK)
}

func (h *HTTPHandler) RemovePiece(c *fiber.Ctx) error {
	boardID, ok := boardIDParam(c)
	if !ok {
		return nil
	}
	cmd := processor.NewRemovePieceCommand(boardID, c.Params("square"))
	return respond(c, h.proc.Execute(cmd), fiber.StatusOK)
}

// ClassifyTile reports the occupancy of a tile relative to ?color=
func (h *HTTPHandler) ClassifyTile(c *fiber.Ctx) error {
	boardID, ok := boardIDParam(c)
	if !ok {
		return nil
	}
	cmd := processor.NewClassifyCommand(boardID, c.Params("square"), c.Query("color", "w"))
	return respond(c, h.proc.Execute(cmd), fiber.StatusOK)
}

// LegalMoves lists the destinations of the piece on :square
func (h *HTTPHandler) LegalMoves(c *fiber.Ctx) error {
	boardID, ok := boardIDParam(c)
	if !ok {
		return nil
	}
	cmd := processor.NewLegalMovesCommand(boardID, c.Params("square"))
	return respond(c, h.proc.Execute(cmd), fiber.StatusOK)
}

// TryMove lists the destinations a given piece would have on a square
func (h *HTTPHandler) TryMove(c *fiber.Ctx) error {
	boardID, ok := boardIDParam(c)
	if !ok {
		return nil
	}
	req, ok := validatedBody[core.TryMoveRequest](c)
	if !ok {
		return nil
	}
	return respond(c, h.proc.Execute(processor.NewTryMoveCommand(boardID, req)), fiber.StatusOK)
}

// Evaluate runs move generation on a FEN without storing a board
func (h *HTTPHandler) Evaluate(c *fiber.Ctx) error {
	req, ok := validatedBody[core.EvaluateRequest](c)
	if !ok {
		return nil
	}
	return respond(c, h.proc.Execute(processor.NewEvaluateCommand(req)), fiber.StatusOK)
}
