package engine

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gomoku/internal/gomoku"
)

// replayLine 在副本上重放胜线：双方轮流、落点为空、最后一手成五。
func replayLine(t *testing.T, b *gomoku.Board, attacker gomoku.Stone, seq []Step) {
	t.Helper()
	cp := *b
	for i, st := range seq {
		want := attacker
		if i%2 == 1 {
			want = attacker.Opponent()
		}
		if st.Player != want {
			t.Fatalf("step %d: player %v, want %v", i, st.Player, want)
		}
		if !cp.IsEmpty(st.Coord) {
			t.Fatalf("step %d: %v is occupied", i, st.Coord)
		}
		cp.Set(st.Coord, st.Player)
	}
	if len(seq) > 0 {
		last := seq[len(seq)-1]
		if last.Kind != KindWin || !hasFive(&cp, attacker) {
			t.Fatalf("line does not end in five: %+v", seq)
		}
	}
}

// 两步 VCF：先冲四逼对方挡，再走双四。
func twoStepVCF(t *testing.T) *gomoku.Board {
	return boardOf(t,
		join(colOf(7, 2, 3), rowOf(4, 8, 9, 10), rowOf(5, 4, 5, 6)),
		[]gomoku.Coord{at(1, 7), at(4, 11), at(5, 3)},
	)
}

// (7,8) 一手成双四
func doubleFourVCF(t *testing.T) *gomoku.Board {
	return boardOf(t,
		join(rowOf(7, 5, 6, 7), colOf(8, 4, 5, 6)),
		[]gomoku.Coord{at(7, 4), at(3, 8)},
	)
}

func TestVCFScenarios(t *testing.T) {
	e := NewEngine()

	t.Run("OpenFourWinsInOne", func(t *testing.T) {
		b := boardOf(t, rowOf(7, 5, 6, 7, 8), nil)
		res, err := e.SearchVCF(b, gomoku.Black, 0, time.Time{})
		if err != nil {
			t.Fatal(err)
		}
		if !res.Found || res.Depth != 1 {
			t.Fatalf("want found depth 1, got %+v", res)
		}
		if mv := res.Sequence[0].Coord; mv != at(7, 4) && mv != at(7, 9) {
			t.Fatalf("winning move %v", mv)
		}
		replayLine(t, b, gomoku.Black, res.Sequence)
	})

	t.Run("FiveIsTerminal", func(t *testing.T) {
		b := boardOf(t, rowOf(7, 3, 4, 5, 6, 7), nil)
		res, err := e.SearchVCF(b, gomoku.Black, 0, time.Time{})
		if err != nil {
			t.Fatal(err)
		}
		if !res.Found || res.Depth != 0 || res.Sequence == nil || len(res.Sequence) != 0 {
			t.Fatalf("want found depth 0 with an empty line, got %+v", res)
		}
		out, err := json.Marshal(res)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(out), `"sequence":[]`) {
			t.Fatalf("sequence should serialize as []: %s", out)
		}
	})

	t.Run("EmptyBoard", func(t *testing.T) {
		for _, p := range []gomoku.Stone{gomoku.Black, gomoku.White} {
			res, err := e.SearchVCF(&gomoku.Board{}, p, 0, time.Time{})
			if err != nil {
				t.Fatal(err)
			}
			if res.Found || !res.Exhaustive {
				t.Fatalf("%v: want exhaustive not-found, got %+v", p, res)
			}
		}
	})

	t.Run("BlockedFour", func(t *testing.T) {
		b := boardOf(t, rowOf(7, 5, 6, 7, 8), rowOf(7, 4))
		res, err := e.SearchVCF(b, gomoku.Black, 0, time.Time{})
		if err != nil {
			t.Fatal(err)
		}
		if !res.Found || res.Depth != 1 || res.Sequence[0].Coord != at(7, 9) {
			t.Fatalf("want (7,9) at depth 1, got %+v", res)
		}
	})
}

func TestVCFDoubleFour(t *testing.T) {
	b := doubleFourVCF(t)
	before := *b
	res, err := NewEngine().SearchVCF(b, gomoku.Black, 0, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if *b != before {
		t.Fatalf("board not restored")
	}
	if !res.Found || res.Depth != 3 || !res.IsVCF {
		t.Fatalf("want 3-ply VCF, got %+v", res)
	}
	if res.Sequence[0].Coord != at(7, 8) || res.Sequence[0].Kind != KindFour {
		t.Fatalf("first move %+v", res.Sequence[0])
	}
	replayLine(t, b, gomoku.Black, res.Sequence)
}

func TestVCFTwoSteps(t *testing.T) {
	b := twoStepVCF(t)
	before := *b
	e := NewEngine()
	res, err := e.SearchVCF(b, gomoku.Black, 0, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if *b != before {
		t.Fatalf("board not restored")
	}
	if !res.Found || res.Depth != 5 {
		t.Fatalf("want 5-ply VCF, got %+v", res)
	}
	for i := 0; i < len(res.Sequence)-1; i += 2 {
		if res.Sequence[i].Kind != KindFour {
			t.Fatalf("step %d is not a four: %+v", i, res.Sequence[i])
		}
	}
	replayLine(t, b, gomoku.Black, res.Sequence)

	// 深度不够时找不到
	short, err := e.SearchVCF(b, gomoku.Black, 3, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if short.Found {
		t.Fatalf("found a line within 3 plies: %+v", short)
	}
	// 白方没有任何冲四
	if res, _ := e.SearchVCF(b, gomoku.White, 0, time.Time{}); res.Found {
		t.Fatalf("white should have no VCF")
	}
}

func TestVCFMustAnswerOpponentFour(t *testing.T) {
	b := doubleFourVCF(t)
	// 白方在别处有一个冲四，黑方只能去挡
	b.Set(at(11, 1), gomoku.Black)
	for _, c := range rowOf(11, 2, 3, 4, 5) {
		b.Set(c, gomoku.White)
	}
	res, err := NewEngine().SearchVCF(b, gomoku.Black, 0, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Found {
		t.Fatalf("attacker ignored the opponent's four: %+v", res)
	}
	if !res.Exhaustive {
		t.Fatalf("search should have completed")
	}
}

func TestVCFDeadline(t *testing.T) {
	b := twoStepVCF(t)
	before := *b
	res, err := NewEngine().SearchVCF(b, gomoku.Black, 0, time.Now().Add(-time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if res.Found || res.Exhaustive {
		t.Fatalf("expired deadline should abort the search: %+v", res)
	}
	if *b != before {
		t.Fatalf("board not restored after abort")
	}
}

func TestSearchInvalidInput(t *testing.T) {
	e := NewEngine()
	b := &gomoku.Board{}
	if _, err := e.SearchVCF(b, gomoku.Empty, 0, time.Time{}); !errors.Is(err, gomoku.ErrInvalidInput) {
		t.Fatalf("empty attacker: %v", err)
	}
	if _, err := e.SearchVCT(b, gomoku.Black, -1, time.Time{}); !errors.Is(err, gomoku.ErrInvalidInput) {
		t.Fatalf("negative depth: %v", err)
	}
	if _, err := e.SearchVCTDefense(nil, gomoku.White, 0, time.Time{}); !errors.Is(err, gomoku.ErrInvalidInput) {
		t.Fatalf("nil board: %v", err)
	}
}

func TestSearchDepthDefaults(t *testing.T) {
	e := NewEngineWithConfig(Config{VCFDepth: 7, DepthCap: 11})
	res, err := e.SearchVCF(&gomoku.Board{}, gomoku.Black, 0, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if res.MaxDepth != 7 {
		t.Fatalf("default depth = %d", res.MaxDepth)
	}
	res, _ = e.SearchVCF(&gomoku.Board{}, gomoku.Black, 99, time.Time{})
	if res.MaxDepth != 11 {
		t.Fatalf("capped depth = %d", res.MaxDepth)
	}
	if e.Config().TTBuckets != DefaultConfig().TTBuckets {
		t.Fatalf("zero config fields should take defaults")
	}
}

func TestStopBeforeSearch(t *testing.T) {
	b := twoStepVCF(t)
	e := NewEngine()
	e.Stop()
	res, err := e.SearchVCF(b, gomoku.Black, 0, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Found || res.Exhaustive {
		t.Fatalf("pending Stop should abort the next search: %+v", res)
	}
	// 返回时已清掉 stop 标志
	res, err = e.SearchVCF(b, gomoku.Black, 0, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || !res.Exhaustive || res.Depth != 5 {
		t.Fatalf("search after an aborted one: %+v", res)
	}
}

func TestDefenderStepsCarryNoThreat(t *testing.T) {
	if ThreatNone.String() != "NONE" || ThreatNone.Score() != 0 {
		t.Fatalf("ThreatNone = %v/%d", ThreatNone, ThreatNone.Score())
	}
	for _, tt := range ThreatTypes {
		if tt == ThreatNone {
			t.Fatalf("ThreatTypes lists ThreatNone")
		}
	}

	res, err := NewEngine().SearchVCF(twoStepVCF(t), gomoku.Black, 0, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found {
		t.Fatalf("want VCF, got %+v", res)
	}
	for i, st := range res.Sequence {
		if st.Player == gomoku.Black {
			if st.Threat == ThreatNone {
				t.Fatalf("attacker step %d has no threat: %+v", i, st)
			}
			continue
		}
		if st.Kind != KindDefend || st.Threat != ThreatNone {
			t.Fatalf("defender step %d: %+v", i, st)
		}
		out, err := json.Marshal(st)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(string(out), `"threat"`) {
			t.Fatalf("defender step serializes a threat: %s", out)
		}
	}
}
