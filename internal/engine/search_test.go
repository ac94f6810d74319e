package engine

import (
	"reflect"
	"testing"
	"time"

	"gomoku/internal/gomoku"
)

var zeroTime time.Time

func TestPlayUndoKeepsHash(t *testing.T) {
	e := NewEngine()
	b := boardOf(t, rowOf(7, 5, 6), rowOf(8, 5))
	before := *b
	s := e.newSearcher(b, zeroTime)
	h0 := s.hash

	moves := []struct {
		c gomoku.Coord
		p gomoku.Stone
	}{
		{at(7, 7), gomoku.Black},
		{at(7, 8), gomoku.White},
		{at(0, 0), gomoku.Black},
	}
	for _, mv := range moves {
		s.play(mv.c, mv.p)
		if s.hash != e.Hash(b) {
			t.Fatalf("incremental hash diverged after %v", mv.c)
		}
	}
	for i := len(moves) - 1; i >= 0; i-- {
		s.undo(moves[i].c, moves[i].p)
	}
	s.finish()
	if s.hash != h0 || *b != before {
		t.Fatalf("make/unmake did not restore the position")
	}
}

func TestUndoMismatchPanics(t *testing.T) {
	s := NewEngine().newSearcher(&gomoku.Board{}, zeroTime)
	s.play(at(7, 7), gomoku.Black)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on unbalanced undo")
		}
	}()
	s.undo(at(7, 8), gomoku.Black)
}

func TestWinningCells(t *testing.T) {
	b := boardOf(t, rowOf(7, 5, 6, 7, 8), rowOf(7, 4))
	if got := winningCells(b, gomoku.Black); !reflect.DeepEqual(got, []gomoku.Coord{at(7, 9)}) {
		t.Fatalf("winning cells %v", got)
	}
	if hasFive(b, gomoku.Black) {
		t.Fatalf("four is not five")
	}
	b.Set(at(7, 9), gomoku.Black)
	if !hasFive(b, gomoku.Black) {
		t.Fatalf("five not seen")
	}

	// 长连也算五
	over := boardOf(t, rowOf(3, 0, 1, 2, 4, 5), nil)
	if !makesFive(over, at(3, 3), gomoku.Black) {
		t.Fatalf("overline should count as five")
	}

	gap := boardOf(t, rowOf(2, 2, 3, 5), nil)
	gap.Set(at(2, 4), gomoku.Black)
	if got := winsThrough(gap, at(2, 4), gomoku.Black); len(got) != 2 {
		t.Fatalf("open four through (2,4) should have two completions, got %v", got)
	}
}

func TestFourMovesOrdering(t *testing.T) {
	b := doubleFourVCF(t)
	s := NewEngine().newSearcher(b, zeroTime)
	cands := s.fourMoves(gomoku.Black, nil, noMove)
	if len(cands) == 0 || cands[0].c != at(7, 8) || len(cands[0].wins) != 2 {
		t.Fatalf("double four should come first: %+v", cands)
	}
	// TT 着法排在最前
	ttMove := cands[len(cands)-1].c
	cands = s.fourMoves(gomoku.Black, nil, ttMove)
	if cands[0].c != ttMove {
		t.Fatalf("tt move not first: %v", cands[0].c)
	}
	s.finish()
}

func TestSearchConfigDeadline(t *testing.T) {
	now := time.Now()
	if !(SearchConfig{}).Deadline(now).IsZero() {
		t.Fatalf("zero limit means no deadline")
	}
	if got := (SearchConfig{TimeLimit: time.Second}).Deadline(now); !got.Equal(now.Add(time.Second)) {
		t.Fatalf("deadline = %v", got)
	}
}
