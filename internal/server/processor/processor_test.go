package processor

import (
	"strings"
	"testing"
	"time"

	"chessmoves/internal/core"
	"chessmoves/internal/server/service"

	"github.com/google/go-cmp/cmp"
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	svc := service.New(nil, service.Config{TokenSecret: []byte("0123456789abcdef0123456789abcdef")})
	p := New(svc, 2)
	t.Cleanup(func() {
		p.Close()
		svc.Shutdown(time.Second)
	})
	return p
}

func createBoard(t *testing.T, p *Processor, fen string) core.BoardResponse {
	t.Helper()
	resp := p.Execute(NewCreateBoardCommand(core.CreateBoardRequest{FEN: fen}))
	if !resp.Success {
		t.Fatalf("create board failed: %+v", resp.Error)
	}
	return resp.Data.(core.BoardResponse)
}

func TestProcessor_CreateAndGet(t *testing.T) {
	p := newTestProcessor(t)

	created := createBoard(t, p, "")
	if created.Token == "" || created.BoardID == "" {
		t.Fatalf("create response missing id or token: %+v", created)
	}

	resp := p.Execute(NewGetBoardCommand(created.BoardID))
	if !resp.Success {
		t.Fatalf("get board failed: %+v", resp.Error)
	}
	got := resp.Data.(core.BoardResponse)
	if got.Token != "" {
		t.Error("token returned outside creation")
	}
	if got.FEN != created.FEN || !strings.HasPrefix(got.Board, "  a b c d e f g h\n8 r n b q k b n r  8") {
		t.Errorf("unexpected board response: %+v", got)
	}
}

func TestProcessor_ErrorCodes(t *testing.T) {
	p := newTestProcessor(t)
	id := createBoard(t, p, "8/8/8/8/8/8/8/8").BoardID

	tests := []struct {
		name string
		cmd  Command
		code string
	}{
		{"unsafe fen", NewCreateBoardCommand(core.CreateBoardRequest{FEN: "rnbqkbnr\n"}), core.ErrInvalidFEN},
		{"bad fen shape", NewCreateBoardCommand(core.CreateBoardRequest{FEN: "8/8/8"}), core.ErrInvalidFEN},
		{"missing board", NewGetBoardCommand("nope"), core.ErrBoardNotFound},
		{"bad square", NewLegalMovesCommand(id, "z9"), core.ErrInvalidSquare},
		{"empty tile", NewLegalMovesCommand(id, "e4"), core.ErrTileEmpty},
		{"bad piece", NewPlacePieceCommand(id, "e4", core.PlacePieceRequest{Piece: "X"}), core.ErrInvalidPiece},
		{"remove empty", NewRemovePieceCommand(id, "e4"), core.ErrTileEmpty},
		{"bad color", NewClassifyCommand(id, "e4", "green"), core.ErrInvalidColor},
		{"evaluate empty", NewEvaluateCommand(core.EvaluateRequest{FEN: "8/8/8/8/8/8/8/8", Square: "a1"}), core.ErrTileEmpty},
		{"wrong args", Command{Type: CmdTryMove, BoardID: id}, core.ErrInvalidRequest},
		{"unknown command", Command{Type: CommandType(99)}, core.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := p.Execute(tt.cmd)
			if resp.Success {
				t.Fatal("Success = true; want failure")
			}
			if resp.Error.Code != tt.code {
				t.Errorf("code = %s; want %s (%s)", resp.Error.Code, tt.code, resp.Error.Error)
			}
		})
	}
}

func TestProcessor_PlaceAndMoves(t *testing.T) {
	p := newTestProcessor(t)
	id := createBoard(t, p, "8/8/8/8/8/8/8/8").BoardID

	for _, place := range []struct{ square, piece string }{{"a1", "R"}, {"a4", "p"}, {"c1", "N"}} {
		resp := p.Execute(NewPlacePieceCommand(id, place.square, core.PlacePieceRequest{Piece: place.piece}))
		if !resp.Success {
			t.Fatalf("place %s on %s: %+v", place.piece, place.square, resp.Error)
		}
	}

	resp := p.Execute(NewLegalMovesCommand(id, "a1"))
	if !resp.Success {
		t.Fatalf("legal moves: %+v", resp.Error)
	}
	moves := resp.Data.(core.MovesResponse)

	want := core.MovesResponse{
		BoardID:  id,
		From:     "a1",
		Piece:    "R",
		Moves:    []string{"a4", "a3", "a2", "b1"},
		Captures: []string{"a4"},
	}
	if diff := cmp.Diff(want, moves, cmpIgnoreBoard); diff != "" {
		t.Errorf("moves mismatch (-want +got):\n%s", diff)
	}

	lines := strings.Split(moves.Board, "\n")
	if lines[5] != "4 px. . . . . . .  4" {
		t.Errorf("rank 4 = %q; want capture mark", lines[5])
	}
	if lines[8] != "1 R * N . . . . .  1" {
		t.Errorf("rank 1 = %q; want destination mark", lines[8])
	}

	resp = p.Execute(NewClassifyCommand(id, "a4", "w"))
	if !resp.Success {
		t.Fatalf("classify: %+v", resp.Error)
	}
	cls := resp.Data.(core.ClassifyResponse)
	if cls.Occupancy != "enemy" || cls.Piece != "p" {
		t.Errorf("classify = %+v; want enemy p", cls)
	}
}

func TestProcessor_TryMoveAndEvaluate(t *testing.T) {
	p := newTestProcessor(t)
	id := createBoard(t, p, "").BoardID

	resp := p.Execute(NewTryMoveCommand(id, core.TryMoveRequest{Square: "e4", Piece: "N"}))
	if !resp.Success {
		t.Fatalf("try move: %+v", resp.Error)
	}
	got := resp.Data.(core.MovesResponse)
	if diff := cmp.Diff([]string{"d6", "f6", "c5", "g5", "c3", "g3"}, got.Moves); diff != "" {
		t.Errorf("knight moves mismatch (-want +got):\n%s", diff)
	}
	if len(got.Captures) != 0 {
		t.Errorf("captures = %v; want none", got.Captures)
	}

	resp = p.Execute(NewEvaluateCommand(core.EvaluateRequest{
		FEN:    "4k3/8/8/8/8/8/8/4K3 w - - 0 1",
		Square: "e1",
	}))
	if !resp.Success {
		t.Fatalf("evaluate: %+v", resp.Error)
	}
	eval := resp.Data.(core.MovesResponse)
	if eval.BoardID != "" || eval.Piece != "K" {
		t.Errorf("evaluate = %+v", eval)
	}
	if diff := cmp.Diff([]string{"d2", "e2", "f2", "d1", "f1"}, eval.Moves); diff != "" {
		t.Errorf("king moves mismatch (-want +got):\n%s", diff)
	}
}

func TestEvalQueue_Full(t *testing.T) {
	block := make(chan struct{})
	q := NewEvalQueue(1, func(string, core.Position, core.Piece) (*service.MoveResult, error) {
		<-block
		return nil, nil
	})
	defer q.Shutdown(time.Second)
	defer close(block)

	var err error
	for i := 0; i < evalQueueDepth+2 && err == nil; i++ {
		err = q.Submit(EvalTask{Response: make(chan EvalResult, 1)})
	}
	if err != ErrQueueFull {
		t.Errorf("Submit on saturated queue = %v; want ErrQueueFull", err)
	}
}

var cmpIgnoreBoard = cmp.FilterPath(func(path cmp.Path) bool {
	return path.Last().String() == ".Board"
}, cmp.Ignore())
