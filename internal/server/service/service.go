package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"chessmoves/internal/board"
	"chessmoves/internal/movegen"
	"chessmoves/internal/server/storage"

	"github.com/apex/log"
)

const (
	DefaultMaxBoards   = 1000
	DefaultBoardTTL    = 24 * time.Hour
	DefaultTokenTTL    = 7 * 24 * time.Hour
	CleanupJobInterval = 10 * time.Minute
)

// Config tunes the service limits and move rules
type Config struct {
	MaxBoards   int
	BoardTTL    time.Duration // Idle boards older than this are evicted
	TokenSecret []byte
	TokenTTL    time.Duration
	WaitTimeout time.Duration
	PawnJump    bool // Two-step pawn advance checks only the destination
}

func (c Config) withDefaults() Config {
	if c.MaxBoards <= 0 {
		c.MaxBoards = DefaultMaxBoards
	}
	if c.BoardTTL <= 0 {
		c.BoardTTL = DefaultBoardTTL
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = DefaultTokenTTL
	}
	return c
}

// boardEntry is a live board and its bookkeeping
type boardEntry struct {
	board      *board.Board
	version    int
	createdAt  time.Time
	updatedAt  time.Time
	lastAccess atomic.Int64 // unix nanos, bumped by reads under the read lock
}

func (e *boardEntry) touch(now time.Time) {
	e.lastAccess.Store(now.UnixNano())
}

// Service coordinates board state, move generation, and storage
type Service struct {
	boards map[string]*boardEntry
	mu     sync.RWMutex
	store  *storage.Store
	cfg    Config
	gen    movegen.Generator
	waiter *WaitRegistry
	now    func() time.Time
}

// New creates a new service instance with optional storage
func New(store *storage.Store, cfg Config) *Service {
	cfg = cfg.withDefaults()
	return &Service{
		boards: make(map[string]*boardEntry),
		store:  store,
		cfg:    cfg,
		gen:    movegen.Generator{PawnJump: cfg.PawnJump},
		waiter: NewWaitRegistry(cfg.WaitTimeout),
		now:    time.Now,
	}
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// BoardCount returns the number of live boards
func (s *Service) BoardCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.boards)
}

// RegisterWait registers a client to wait until the board moves past
// version. The channel is already closed when the board has done so.
func (s *Service) RegisterWait(boardID string, version int, ctx context.Context) (<-chan struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.boards[boardID]
	if !ok {
		return nil, ErrBoardNotFound
	}
	if e.version != version {
		ch := make(chan struct{})
		close(ch)
		return ch, nil
	}
	return s.waiter.RegisterWait(boardID, version, ctx), nil
}

// Restore reloads persisted boards into memory and returns how many were
// loaded. Boards whose FEN no longer parses are skipped.
func (s *Service) Restore() (int, error) {
	if s.store == nil {
		return 0, nil
	}

	records, err := s.store.LoadBoards()
	if err != nil {
		return 0, fmt.Errorf("failed to load boards: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	loaded := 0
	for _, r := range records {
		if len(s.boards) >= s.cfg.MaxBoards {
			log.WithField("remaining", len(records)-loaded).Warn("board limit reached during restore")
			break
		}
		b, err := board.ParseFEN(r.FEN)
		if err != nil {
			log.WithField("boardId", r.BoardID).WithError(err).Warn("skipping unparseable stored board")
			continue
		}
		e := &boardEntry{
			board:     b,
			version:   r.Version,
			createdAt: r.CreatedAt,
			updatedAt: r.UpdatedAt,
		}
		e.touch(now)
		s.boards[r.BoardID] = e
		loaded++
	}

	return loaded, nil
}

// Shutdown gracefully shuts down the service
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.boards = make(map[string]*boardEntry)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}

// RunCleanupJob periodically evicts boards idle for longer than the TTL
func (s *Service) RunCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.cleanupExpired(); n > 0 {
				log.WithField("evicted", n).Info("cleanup: evicted idle boards")
			}
		}
	}
}

func (s *Service) cleanupExpired() int {
	cutoff := s.now().Add(-s.cfg.BoardTTL).UnixNano()

	s.mu.Lock()
	var expired []string
	for id, e := range s.boards {
		if e.lastAccess.Load() < cutoff {
			expired = append(expired, id)
			delete(s.boards, id)
		}
	}
	s.mu.Unlock()

	for _, id := range expired {
		s.waiter.RemoveBoard(id)
		if s.store != nil {
			s.store.DeleteBoard(id)
		}
	}
	return len(expired)
}
