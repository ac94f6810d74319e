package engine

import (
	"fmt"
	"sort"
	"time"

	"gomoku/internal/gomoku"
)

const (
	// 一个足够大的值，当成正负无穷
	scoreInf = 1_000_000_000

	scoreNoWin = 0
	scoreWin   = 1
)

// 两种搜索共用一张表，键里异或模式常量避免互相污染。
const (
	modeVCF uint64 = 0xA5A5A5A5A5A5A5A5
	modeVCT uint64 = 0x5A5A5A5A5A5A5A5A
)

// SearchConfig 搜索限制
type SearchConfig struct {
	MaxDepth  int           // 最大搜索深度（ply），0 表示用默认值
	TimeLimit time.Duration // 时间上限（0 表示不限制）
}

// Deadline converts TimeLimit into an absolute deadline; zero means none.
func (c SearchConfig) Deadline(now time.Time) time.Time {
	if c.TimeLimit <= 0 {
		return time.Time{}
	}
	return now.Add(c.TimeLimit)
}

type MoveKind uint8

const (
	KindWin    MoveKind = iota // 成五
	KindFour                   // 冲四 / 活四
	KindThree                  // 活三 / 跳活三
	KindDefend                 // 防守方应手
)

func (k MoveKind) String() string {
	switch k {
	case KindWin:
		return "win"
	case KindFour:
		return "four"
	case KindThree:
		return "three"
	case KindDefend:
		return "defend"
	default:
		return fmt.Sprintf("MoveKind(%d)", uint8(k))
	}
}

func (k MoveKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Step is one ply of a forcing line.
type Step struct {
	Coord  gomoku.Coord `json:"coord"`
	Player gomoku.Stone `json:"player"`
	Kind   MoveKind     `json:"kind"`
	Threat ThreatType   `json:"threat,omitempty"` // 攻方着法形成的威胁，防守着法不填
}

// SearchResult of a VCF/VCT search. Found=false is reported the same way
// whether the search was exhaustive or cut short; Exhaustive tells them apart.
type SearchResult struct {
	Found      bool          `json:"found"`
	Sequence   []Step        `json:"sequence"`
	Depth      int           `json:"depth"`
	IsVCF      bool          `json:"is_vcf"`
	MaxDepth   int           `json:"max_depth"`
	Exhaustive bool          `json:"exhaustive"`
	Nodes      int64         `json:"nodes"`
	TimeUsed   time.Duration `json:"time_used"`
}

// FirstMove returns the first attacker move of the line, if any.
func (r SearchResult) FirstMove() (gomoku.Coord, bool) {
	if len(r.Sequence) == 0 {
		return noMove, false
	}
	return r.Sequence[0].Coord, true
}

// searcher 持有一块共享棋盘，所有分支都在其上 make/unmake。
// 约定：每个 play 都必须在返回父节点前以相反顺序 undo，不论找到、没找到还是超时。
type searcher struct {
	board    *gomoku.Board
	z        *gomoku.Zobrist
	tt       *TranspositionTable
	hash     uint64 // 只含棋子，不含行棋方
	deadline time.Time
	nodes    int64
	aborted  bool
	stack    []gomoku.Coord
	stop     func() bool
}

func (e *Engine) newSearcher(b *gomoku.Board, deadline time.Time) *searcher {
	return &searcher{
		board:    b,
		z:        e.z,
		tt:       e.tt,
		hash:     e.z.Hash(b, gomoku.Black),
		deadline: deadline,
		stack:    make([]gomoku.Coord, 0, 32),
		stop:     e.stopped,
	}
}

// play = make：落子并增量更新哈希。
func (s *searcher) play(c gomoku.Coord, p gomoku.Stone) {
	s.board.Set(c, p)
	s.hash = s.z.Toggle(s.hash, c, p)
	s.stack = append(s.stack, c)
}

// undo = unmake：必须与最近一次 play 对称。
func (s *searcher) undo(c gomoku.Coord, p gomoku.Stone) {
	n := len(s.stack)
	if n == 0 || s.stack[n-1] != c || s.board.At(c) != p {
		panic(fmt.Sprintf("engine: unbalanced undo of %v by %v", c, p))
	}
	s.stack = s.stack[:n-1]
	s.board.Set(c, gomoku.Empty)
	s.hash = s.z.Toggle(s.hash, c, p)
}

// finish 检查顶层返回时棋盘已完全还原。
func (s *searcher) finish() {
	if len(s.stack) != 0 {
		panic(fmt.Sprintf("engine: %d moves left on the board after search", len(s.stack)))
	}
}

// key 以攻方为行棋方的局面键。
func (s *searcher) key(att gomoku.Stone, mode uint64) uint64 {
	h := s.hash
	if att == gomoku.White {
		h = s.z.ToggleSide(h)
	}
	return h ^ mode
}

// timeUp 每个递归入口检查一次：墙钟超时或 Stop 都会中止搜索。
func (s *searcher) timeUp() bool {
	if s.aborted {
		return true
	}
	if s.stop() || (!s.deadline.IsZero() && time.Now().After(s.deadline)) {
		s.aborted = true
	}
	return s.aborted
}

// ---- 棋盘工具 ----

func stoneAt(b *gomoku.Board, r, c int) gomoku.Stone {
	if !gomoku.OnBoard(r, c) {
		return gomoku.Empty
	}
	return b.Cells[gomoku.Coord{Row: r, Col: c}.Index()]
}

// runThrough 统计 c 沿 dir 两侧连续的 p 子数（不含 c 本身）。
func runThrough(b *gomoku.Board, c gomoku.Coord, dir gomoku.Direction, p gomoku.Stone) int {
	dr, dc := dir.Delta()
	n := 0
	for r, col := c.Row+dr, c.Col+dc; gomoku.OnBoard(r, col) && stoneAt(b, r, col) == p; r, col = r+dr, col+dc {
		n++
	}
	for r, col := c.Row-dr, c.Col-dc; gomoku.OnBoard(r, col) && stoneAt(b, r, col) == p; r, col = r-dr, col-dc {
		n++
	}
	return n
}

// makesFive: 在 c 落 p 是否成五（长连也算）。
func makesFive(b *gomoku.Board, c gomoku.Coord, p gomoku.Stone) bool {
	for _, dir := range gomoku.Directions {
		if 1+runThrough(b, c, dir, p) >= gomoku.WinLength {
			return true
		}
	}
	return false
}

func hasFive(b *gomoku.Board, p gomoku.Stone) bool {
	for sq, s := range b.Cells {
		if s != p {
			continue
		}
		c := gomoku.CoordOf(sq)
		for _, dir := range gomoku.Directions {
			dr, dc := dir.Delta()
			// 只从一段连子的起点开始数
			if stoneAt(b, c.Row-dr, c.Col-dc) == p {
				continue
			}
			if 1+runThrough(b, c, dir, p) >= gomoku.WinLength {
				return true
			}
		}
	}
	return false
}

// HasFive reports whether p already has five (or more) in a row.
func HasFive(b *gomoku.Board, p gomoku.Stone) bool { return hasFive(b, p) }

// WinningCells returns the empty cells where p completes five, row-major.
func WinningCells(b *gomoku.Board, p gomoku.Stone) []gomoku.Coord { return winningCells(b, p) }

// winningCells 所有能让 p 立即成五的空点，按行优先排序。
func winningCells(b *gomoku.Board, p gomoku.Stone) []gomoku.Coord {
	var out []gomoku.Coord
	for sq, s := range b.Cells {
		if s != gomoku.Empty {
			continue
		}
		c := gomoku.CoordOf(sq)
		if makesFive(b, c, p) {
			out = append(out, c)
		}
	}
	return out
}

// winsThrough 已在 m 落下 p 后，沿过 m 的四条线找成五点。
// 调用前 p 没有成五点时，结果就是 m 新造出的全部成五点。
func winsThrough(b *gomoku.Board, m gomoku.Coord, p gomoku.Stone) []gomoku.Coord {
	var out []gomoku.Coord
	for _, dir := range gomoku.Directions {
		dr, dc := dir.Delta()
		for k := -(gomoku.WinLength - 1); k <= gomoku.WinLength-1; k++ {
			if k == 0 {
				continue
			}
			e := gomoku.Coord{Row: m.Row + k*dr, Col: m.Col + k*dc}
			if !b.IsEmpty(e) {
				continue
			}
			if 1+runThrough(b, e, dir, p) >= gomoku.WinLength {
				out = append(out, e)
			}
		}
	}
	sortCoords(out)
	return dedupCoords(out)
}

func dedupCoords(cs []gomoku.Coord) []gomoku.Coord {
	if len(cs) < 2 {
		return cs
	}
	out := cs[:1]
	for _, c := range cs[1:] {
		if c != out[len(out)-1] {
			out = append(out, c)
		}
	}
	return out
}

// candidateCells 距 p 的子沿线两步以内的空点：成四、成三的新子一定落在这里。
func candidateCells(b *gomoku.Board, p gomoku.Stone) []gomoku.Coord {
	var out []gomoku.Coord
	for sq, s := range b.Cells {
		if s != gomoku.Empty {
			continue
		}
		c := gomoku.CoordOf(sq)
		if nearStone(b, c, p, 2) {
			out = append(out, c)
		}
	}
	return out
}

// ---- 着法生成 ----

type candidate struct {
	c      gomoku.Coord
	threat ThreatType
	wins   []gomoku.Coord   // 冲四后的成五点
	threes []ThreatPosition // 冲三形成的三
	defs   []gomoku.Coord   // 冲三的防守点
}

// fourMoves 生成攻方成四的着法。only 非空时（对方已有一个成五点）只能在这些点上成四。
// 排序：TT 着法、活四/双四、威胁类型、坐标。
func (s *searcher) fourMoves(att gomoku.Stone, only []gomoku.Coord, ttMove gomoku.Coord) []candidate {
	cells := only
	if len(cells) == 0 {
		cells = candidateCells(s.board, att)
	}
	var out []candidate
	for _, c := range cells {
		if !s.board.IsEmpty(c) {
			continue
		}
		ts := threatsThrough(s.board, c, att)
		best, ok := bestThrough(ts)
		if !ok || !best.isFourClass() {
			continue
		}
		// 临时落子只为数成五点，立即复原，不走 play/undo
		s.board.Set(c, att)
		wins := winsThrough(s.board, c, att)
		s.board.Set(c, gomoku.Empty)
		if len(wins) == 0 {
			continue
		}
		out = append(out, candidate{c: c, threat: best, wins: wins})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.c == ttMove) != (b.c == ttMove) {
			return a.c == ttMove
		}
		if (len(a.wins) >= 2) != (len(b.wins) >= 2) {
			return len(a.wins) >= 2
		}
		if a.threat != b.threat {
			return a.threat > b.threat
		}
		return a.c.Less(b.c)
	})
	return out
}

// threeMoves 生成攻方成活三/跳活三（且不成四）的着法，防守点越少越靠前。
func (s *searcher) threeMoves(att gomoku.Stone, ttMove gomoku.Coord) []candidate {
	var out []candidate
	for _, c := range candidateCells(s.board, att) {
		ts := threatsThrough(s.board, c, att)
		best, ok := bestThrough(ts)
		if !ok || best.isFourClass() || best == ThreatFive {
			continue
		}
		cand := candidate{c: c}
		for _, tp := range ts {
			if !tp.Type.isForcingThree() {
				continue
			}
			cand.threes = append(cand.threes, tp)
			cand.defs = append(cand.defs, tp.Empties...)
			if tp.Type > cand.threat {
				cand.threat = tp.Type
			}
		}
		if len(cand.threes) == 0 {
			continue
		}
		sortCoords(cand.defs)
		cand.defs = dedupCoords(cand.defs)
		out = append(out, cand)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.c == ttMove) != (b.c == ttMove) {
			return a.c == ttMove
		}
		if len(a.threes) != len(b.threes) {
			return len(a.threes) > len(b.threes)
		}
		if a.threat != b.threat {
			return a.threat > b.threat
		}
		if len(a.defs) != len(b.defs) {
			return len(a.defs) < len(b.defs)
		}
		return a.c.Less(b.c)
	})
	return out
}
