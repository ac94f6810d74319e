package gomoku

import "sync"

// DefaultSeed seeds the process-wide table returned by DefaultZobrist.
const DefaultSeed uint64 = 0x9E3779B97F4A7C15

// Zobrist holds one key per (cell, player) plus the "white to move" key.
// The table is immutable after construction and may be shared freely.
type Zobrist struct {
	seed  uint64
	cells [NumCells][2]uint64
	side  uint64
}

var (
	zobristOnce    sync.Once
	defaultZobrist *Zobrist
)

// NewZobrist draws all keys from a splitmix64 stream; equal seeds give
// identical tables.
func NewZobrist(seed uint64) *Zobrist {
	z := &Zobrist{seed: seed}
	state := seed
	next := func() uint64 {
		state += 0x9E3779B97F4A7C15
		v := state
		v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
		v = (v ^ (v >> 27)) * 0x94D049BB133111EB
		return v ^ (v >> 31)
	}
	for sq := 0; sq < NumCells; sq++ {
		z.cells[sq][0] = next()
		z.cells[sq][1] = next()
	}
	z.side = next()
	return z
}

func DefaultZobrist() *Zobrist {
	zobristOnce.Do(func() {
		defaultZobrist = NewZobrist(DefaultSeed)
	})
	return defaultZobrist
}

func (z *Zobrist) Seed() uint64 { return z.seed }

// Key 返回 (格子, 玩家) 的键；空格或越界返回 0。
func (z *Zobrist) Key(c Coord, s Stone) uint64 {
	if !c.OnBoard() {
		return 0
	}
	switch s {
	case Black:
		return z.cells[c.Index()][0]
	case White:
		return z.cells[c.Index()][1]
	default:
		return 0
	}
}

func (z *Zobrist) SideKey() uint64 { return z.side }

// Hash 全量计算：所有落子键异或，白方行棋再异或 side 键。
func (z *Zobrist) Hash(b *Board, sideToMove Stone) uint64 {
	var h uint64
	for sq, s := range b.Cells {
		switch s {
		case Black:
			h ^= z.cells[sq][0]
		case White:
			h ^= z.cells[sq][1]
		}
	}
	if sideToMove == White {
		h ^= z.side
	}
	return h
}

// Toggle adds or removes one stone; applying it twice restores h.
func (z *Zobrist) Toggle(h uint64, c Coord, s Stone) uint64 {
	return h ^ z.Key(c, s)
}

func (z *Zobrist) ToggleSide(h uint64) uint64 {
	return h ^ z.side
}

// CalculateHash 用默认键表全量计算当前局面的哈希。
func (p *Position) CalculateHash() uint64 {
	return DefaultZobrist().Hash(&p.Board, p.SideToMove)
}

// EnsureHash 确保 Position.Hash 已初始化；返回当前哈希值。
func (p *Position) EnsureHash() uint64 {
	if p.Hash == 0 {
		p.Hash = p.CalculateHash()
	}
	return p.Hash
}
