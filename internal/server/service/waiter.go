package service

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	// DefaultWaitTimeout is the maximum time a client can wait for notifications
	DefaultWaitTimeout = 25 * time.Second
)

var errWaitShutdownTimeout = errors.New("wait registry shutdown timed out")

// WaitRegistry manages long-polling clients waiting for board changes
type WaitRegistry struct {
	mu           sync.Mutex
	waiters      map[string][]*WaitRequest // boardID → waiting clients
	timeout      time.Duration
	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// WaitRequest is a single client waiting for a board to move past Version
type WaitRequest struct {
	BoardID string
	Version int
	notify  chan struct{}
	once    sync.Once
}

// fire releases the waiting client; safe to call more than once
func (r *WaitRequest) fire() {
	r.once.Do(func() { close(r.notify) })
}

// NewWaitRegistry creates a wait registry; a non-positive timeout selects
// DefaultWaitTimeout
func NewWaitRegistry(timeout time.Duration) *WaitRegistry {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	return &WaitRegistry{
		waiters:  make(map[string][]*WaitRequest),
		timeout:  timeout,
		shutdown: make(chan struct{}),
	}
}

// RegisterWait returns a channel that is closed when the board changes
// from version, the wait times out, ctx ends, or the registry shuts down
func (w *WaitRegistry) RegisterWait(boardID string, version int, ctx context.Context) <-chan struct{} {
	req := &WaitRequest{
		BoardID: boardID,
		Version: version,
		notify:  make(chan struct{}),
	}

	select {
	case <-w.shutdown:
		req.fire()
		return req.notify
	default:
	}

	w.mu.Lock()
	w.waiters[boardID] = append(w.waiters[boardID], req)
	w.mu.Unlock()

	timer := time.AfterFunc(w.timeout, req.fire)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
		case <-req.notify:
		case <-w.shutdown:
		}
		timer.Stop()
		w.removeWaiter(boardID, req)
		req.fire()
	}()

	return req.notify
}

// NotifyBoard releases every client whose known version differs from version
func (w *WaitRegistry) NotifyBoard(boardID string, version int) {
	w.mu.Lock()
	waitList := append([]*WaitRequest(nil), w.waiters[boardID]...)
	w.mu.Unlock()

	for _, req := range waitList {
		if req.Version != version {
			req.fire()
		}
	}
}

// RemoveBoard releases all waiters for a board that is going away
func (w *WaitRegistry) RemoveBoard(boardID string) {
	w.mu.Lock()
	waitList := w.waiters[boardID]
	delete(w.waiters, boardID)
	w.mu.Unlock()

	for _, req := range waitList {
		req.fire()
	}
}

// Pending returns the number of registered waiters
func (w *WaitRegistry) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := 0
	for _, list := range w.waiters {
		n += len(list)
	}
	return n
}

// Shutdown releases all waiters and waits for their goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return errWaitShutdownTimeout
	}
}

func (w *WaitRegistry) removeWaiter(boardID string, req *WaitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[boardID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[boardID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	if len(w.waiters[boardID]) == 0 {
		delete(w.waiters, boardID)
	}
}
