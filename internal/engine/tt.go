package engine

import "gomoku/internal/gomoku"

// Bound 表示存入分数的性质
type Bound uint8

const (
	BoundExact Bound = iota
	BoundLower       // 分数是下界（fail high）
	BoundUpper       // 分数是上界（fail low）
)

func (b Bound) String() string {
	switch b {
	case BoundExact:
		return "exact"
	case BoundLower:
		return "lower"
	case BoundUpper:
		return "upper"
	default:
		return "unknown"
	}
}

var noMove = gomoku.Coord{Row: -1, Col: -1}

type TTEntry struct {
	Key   uint64
	Depth int
	Score int
	Bound Bound
	Move  gomoku.Coord
	Age   uint32
	valid bool
}

func (e TTEntry) HasMove() bool { return e.Move.OnBoard() }

// ProbeResult: Score 仅在 ScoreOK 时可用；Move 只要命中就返回，用于排序。
type ProbeResult struct {
	Score   int
	ScoreOK bool
	Move    gomoku.Coord
	MoveOK  bool
}

type TTStats struct {
	Probes uint64
	Hits   uint64
	Stores uint64
	Evicts uint64
}

// TranspositionTable is a set-associative table keyed by Zobrist hash.
// 不加锁：每个 Engine 独占一张表，并行分析请各自建 Engine。
type TranspositionTable struct {
	entries []TTEntry
	mask    uint64
	buckets int
	age     uint32
	used    int
	stats   TTStats
}

// NewTranspositionTable rounds capacity up so that capacity/buckets is a
// power of two.
func NewTranspositionTable(capacity, buckets int) *TranspositionTable {
	if buckets <= 0 {
		buckets = 1
	}
	if capacity < buckets {
		capacity = buckets
	}
	slots := nextPowerOfTwo(uint64((capacity + buckets - 1) / buckets))
	return &TranspositionTable{
		entries: make([]TTEntry, int(slots)*buckets),
		mask:    slots - 1,
		buckets: buckets,
	}
}

func nextPowerOfTwo(v uint64) uint64 {
	if v == 0 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	return v + 1
}

func (tt *TranspositionTable) bucket(key uint64) []TTEntry {
	start := int(key&tt.mask) * tt.buckets
	return tt.entries[start : start+tt.buckets]
}

// NewSearch ages the table; call once per top-level search.
func (tt *TranspositionTable) NewSearch() {
	tt.age++
}

func (tt *TranspositionTable) Age() uint32 { return tt.age }

// Store 同一 key 只有 depth >= 已存深度才覆盖；新 key 落到满桶时淘汰最老的条目。
func (tt *TranspositionTable) Store(key uint64, depth, score int, bound Bound, move gomoku.Coord) {
	tt.stats.Stores++
	b := tt.bucket(key)
	for i := range b {
		if b[i].valid && b[i].Key == key {
			if depth < b[i].Depth {
				return
			}
			if !move.OnBoard() && b[i].HasMove() {
				move = b[i].Move // 保留已知最佳着法
			}
			b[i] = TTEntry{Key: key, Depth: depth, Score: score, Bound: bound, Move: move, Age: tt.age, valid: true}
			return
		}
	}
	for i := range b {
		if !b[i].valid {
			b[i] = TTEntry{Key: key, Depth: depth, Score: score, Bound: bound, Move: move, Age: tt.age, valid: true}
			tt.used++
			return
		}
	}
	victim := 0
	for i := 1; i < len(b); i++ {
		if b[i].Age < b[victim].Age || (b[i].Age == b[victim].Age && b[i].Depth < b[victim].Depth) {
			victim = i
		}
	}
	tt.stats.Evicts++
	b[victim] = TTEntry{Key: key, Depth: depth, Score: score, Bound: bound, Move: move, Age: tt.age, valid: true}
}

func (tt *TranspositionTable) Probe(key uint64, minDepth, alpha, beta int) ProbeResult {
	tt.stats.Probes++
	res := ProbeResult{Move: noMove}
	e, ok := tt.lookup(key)
	if !ok {
		return res
	}
	tt.stats.Hits++
	if e.HasMove() {
		res.Move = e.Move
		res.MoveOK = true
	}
	if e.Depth < minDepth {
		return res
	}
	switch e.Bound {
	case BoundExact:
		res.ScoreOK = true
	case BoundLower:
		res.ScoreOK = e.Score >= beta
	case BoundUpper:
		res.ScoreOK = e.Score <= alpha
	}
	if res.ScoreOK {
		res.Score = e.Score
	}
	return res
}

// Entry returns the raw entry for key, for inspection.
func (tt *TranspositionTable) Entry(key uint64) (TTEntry, bool) {
	return tt.lookup(key)
}

func (tt *TranspositionTable) lookup(key uint64) (TTEntry, bool) {
	b := tt.bucket(key)
	for i := range b {
		if b[i].valid && b[i].Key == key {
			return b[i], true
		}
	}
	return TTEntry{}, false
}

func (tt *TranspositionTable) Len() int { return tt.used }
func (tt *TranspositionTable) Capacity() int { return len(tt.entries) }
func (tt *TranspositionTable) Stats() TTStats { return tt.stats }

func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.used = 0
	tt.age = 0
	tt.stats = TTStats{}
}
