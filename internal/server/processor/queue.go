package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chessmoves/internal/core"
	"chessmoves/internal/server/service"
)

const (
	DefaultEvalWorkers = 4
	evalQueueDepth     = 100
	evalTimeout        = 5 * time.Second
)

var (
	ErrQueueFull   = errors.New("evaluation queue is full")
	ErrQueueClosed = errors.New("evaluation queue is shutting down")
	ErrEvalTimeout = errors.New("evaluation timed out")
)

// EvalFunc runs move generation on a FEN that is not stored as a board
type EvalFunc func(fen string, pos core.Position, piece core.Piece) (*service.MoveResult, error)

// EvalTask is a stateless evaluation request and its response channel
type EvalTask struct {
	FEN      string
	From     core.Position
	Piece    core.Piece
	Response chan<- EvalResult
}

// EvalResult contains the outcome of an evaluation
type EvalResult struct {
	Result *service.MoveResult
	Error  error
}

// EvalQueue bounds the number of concurrent stateless evaluations, each of
// which parses untrusted FEN input
type EvalQueue struct {
	tasks   chan EvalTask
	workers int
	eval    EvalFunc
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewEvalQueue creates a queue with the given worker count
func NewEvalQueue(workerCount int, eval EvalFunc) *EvalQueue {
	if workerCount < 1 {
		workerCount = DefaultEvalWorkers
	}

	ctx, cancel := context.WithCancel(context.Background())

	q := &EvalQueue{
		tasks:   make(chan EvalTask, evalQueueDepth),
		workers: workerCount,
		eval:    eval,
		ctx:     ctx,
		cancel:  cancel,
	}

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

func (q *EvalQueue) worker() {
	defer q.wg.Done()

	for {
		select {
		case task := <-q.tasks:
			res, err := q.eval(task.FEN, task.From, task.Piece)
			// Response channels are buffered, so this never blocks
			task.Response <- EvalResult{Result: res, Error: err}

		case <-q.ctx.Done():
			return
		}
	}
}

// Submit adds a task to the queue without blocking
func (q *EvalQueue) Submit(task EvalTask) error {
	select {
	case <-q.ctx.Done():
		return ErrQueueClosed
	default:
	}

	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Evaluate submits a task and waits for its result
func (q *EvalQueue) Evaluate(fen string, pos core.Position, piece core.Piece) (*service.MoveResult, error) {
	respChan := make(chan EvalResult, 1)

	task := EvalTask{
		FEN:      fen,
		From:     pos,
		Piece:    piece,
		Response: respChan,
	}
	if err := q.Submit(task); err != nil {
		return nil, err
	}

	select {
	case result := <-respChan:
		return result.Result, result.Error
	case <-q.ctx.Done():
		return nil, ErrQueueClosed
	case <-time.After(evalTimeout):
		return nil, ErrEvalTimeout
	}
}

// Shutdown stops the workers; queued tasks are abandoned
func (q *EvalQueue) Shutdown(timeout time.Duration) error {
	q.cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout exceeded")
	}
}
