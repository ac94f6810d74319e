package engine

import (
	"testing"

	"gomoku/internal/gomoku"
)

func TestTTStoreProbe(t *testing.T) {
	tt := NewTranspositionTable(64, 4)
	tt.Store(42, 5, scoreWin, BoundExact, at(3, 4))

	pr := tt.Probe(42, 5, -scoreInf, scoreInf)
	if !pr.ScoreOK || pr.Score != scoreWin || !pr.MoveOK || pr.Move != at(3, 4) {
		t.Fatalf("exact probe: %+v", pr)
	}
	// 深度不够：分数不可用，但着法仍返回
	pr = tt.Probe(42, 6, -scoreInf, scoreInf)
	if pr.ScoreOK || !pr.MoveOK {
		t.Fatalf("shallow probe: %+v", pr)
	}
	if pr := tt.Probe(43, 0, -scoreInf, scoreInf); pr.ScoreOK || pr.MoveOK {
		t.Fatalf("miss returned data: %+v", pr)
	}
	st := tt.Stats()
	if st.Probes != 3 || st.Hits != 2 || st.Stores != 1 {
		t.Fatalf("stats %+v", st)
	}
}

func TestTTBounds(t *testing.T) {
	tt := NewTranspositionTable(64, 4)
	tt.Store(1, 3, 10, BoundLower, noMove)
	tt.Store(2, 3, 10, BoundUpper, noMove)

	if pr := tt.Probe(1, 3, -scoreInf, 5); !pr.ScoreOK {
		t.Fatalf("lower bound >= beta should cut")
	}
	if pr := tt.Probe(1, 3, -scoreInf, 20); pr.ScoreOK {
		t.Fatalf("lower bound < beta is not usable")
	}
	if pr := tt.Probe(2, 3, 20, scoreInf); !pr.ScoreOK {
		t.Fatalf("upper bound <= alpha should cut")
	}
	if pr := tt.Probe(2, 3, 5, scoreInf); pr.ScoreOK {
		t.Fatalf("upper bound > alpha is not usable")
	}
	if pr := tt.Probe(1, 3, -scoreInf, 5); pr.MoveOK {
		t.Fatalf("no move was stored")
	}
}

func TestTTMonotonicReplacement(t *testing.T) {
	tt := NewTranspositionTable(64, 4)
	tt.Store(7, 5, scoreNoWin, BoundExact, at(1, 1))
	tt.Store(7, 3, scoreWin, BoundExact, at(2, 2))
	e, ok := tt.Entry(7)
	if !ok || e.Depth != 5 || e.Move != at(1, 1) {
		t.Fatalf("shallower store replaced entry: %+v", e)
	}
	tt.Store(7, 7, scoreWin, BoundExact, noMove)
	e, _ = tt.Entry(7)
	if e.Depth != 7 || e.Score != scoreWin {
		t.Fatalf("deeper store ignored: %+v", e)
	}
	if e.Move != at(1, 1) {
		t.Fatalf("known best move lost: %+v", e)
	}
	if tt.Len() != 1 {
		t.Fatalf("len = %d", tt.Len())
	}
}

func TestTTEvictsOldest(t *testing.T) {
	// 一个桶四个槽，所有 key 落在同一个桶
	tt := NewTranspositionTable(4, 4)
	if tt.Capacity() != 4 {
		t.Fatalf("capacity = %d", tt.Capacity())
	}
	tt.Store(1, 4, 0, BoundExact, noMove)
	tt.Store(2, 4, 0, BoundExact, noMove)
	tt.Store(3, 1, 0, BoundExact, noMove)
	tt.Store(4, 4, 0, BoundExact, noMove)

	tt.NewSearch()
	tt.Store(1, 4, 0, BoundExact, noMove) // 刷新年龄
	tt.Store(5, 2, 0, BoundExact, noMove)

	if _, ok := tt.Entry(3); ok {
		t.Fatalf("oldest shallowest entry should have been evicted")
	}
	for _, k := range []uint64{1, 2, 4, 5} {
		if _, ok := tt.Entry(k); !ok {
			t.Fatalf("key %d missing", k)
		}
	}
	if tt.Stats().Evicts != 1 {
		t.Fatalf("evicts = %d", tt.Stats().Evicts)
	}

	tt.Clear()
	if tt.Len() != 0 || tt.Age() != 0 {
		t.Fatalf("clear left state behind")
	}
}

func TestTTKeysSeparateModes(t *testing.T) {
	e := NewEngine()
	b := &gomoku.Board{}
	b.Set(at(7, 7), gomoku.Black)
	s := e.newSearcher(b, zeroTime)
	keys := map[uint64]string{
		s.key(gomoku.Black, modeVCF): "black vcf",
		s.key(gomoku.Black, modeVCT): "black vct",
		s.key(gomoku.White, modeVCF): "white vcf",
		s.key(gomoku.White, modeVCT): "white vct",
	}
	if len(keys) != 4 {
		t.Fatalf("search keys collide: %v", keys)
	}
}
