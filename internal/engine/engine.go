package engine

import (
	"fmt"
	"sync/atomic"

	"gomoku/internal/gomoku"
)

// Config 引擎参数。零值字段用 DefaultConfig 的值补齐。
type Config struct {
	TTCapacity int    // 置换表条目数（向上取 2 的幂）
	TTBuckets  int    // 每桶条目数
	Seed       uint64 // Zobrist 种子
	VCFDepth   int    // maxDepth<=0 时 VCF 的默认深度
	VCTDepth   int    // maxDepth<=0 时 VCT 的默认深度
	DepthCap   int    // 深度上限
}

func DefaultConfig() Config {
	return Config{
		TTCapacity: 1 << 18,
		TTBuckets:  4,
		Seed:       gomoku.DefaultSeed,
		VCFDepth:   15,
		VCTDepth:   9,
		DepthCap:   31,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TTCapacity <= 0 {
		c.TTCapacity = d.TTCapacity
	}
	if c.TTBuckets <= 0 {
		c.TTBuckets = d.TTBuckets
	}
	if c.Seed == 0 {
		c.Seed = d.Seed
	}
	if c.VCFDepth <= 0 {
		c.VCFDepth = d.VCFDepth
	}
	if c.VCTDepth <= 0 {
		c.VCTDepth = d.VCTDepth
	}
	if c.DepthCap <= 0 {
		c.DepthCap = d.DepthCap
	}
	return c
}

// Engine 不是并发安全的：置换表和搜索状态属于单个调用方。
// 并行使用时每个 goroutine 各建一个 Engine。Stop 是唯一可以跨 goroutine 调用的方法。
type Engine struct {
	cfg Config
	z   *gomoku.Zobrist
	tt  *TranspositionTable

	// Set to 1 by Stop; cleared when a top-level search returns.
	abort uint32
}

func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultConfig())
}

func NewEngineWithConfig(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	z := gomoku.DefaultZobrist()
	if cfg.Seed != gomoku.DefaultSeed {
		z = gomoku.NewZobrist(cfg.Seed)
	}
	return &Engine{
		cfg: cfg,
		z:   z,
		tt:  NewTranspositionTable(cfg.TTCapacity, cfg.TTBuckets),
	}
}

func (e *Engine) Config() Config { return e.cfg }
func (e *Engine) TT() *TranspositionTable { return e.tt }
func (e *Engine) Zobrist() *gomoku.Zobrist { return e.z }
func (e *Engine) Hash(b *gomoku.Board) uint64 { return e.z.Hash(b, gomoku.Black) }

// Stop aborts the search running on e. If no search is running, the next
// one returns immediately with Exhaustive=false.
func (e *Engine) Stop() { atomic.StoreUint32(&e.abort, 1) }
func (e *Engine) stopped() bool { return atomic.LoadUint32(&e.abort) != 0 }
func (e *Engine) resetStop() { atomic.StoreUint32(&e.abort, 0) }

// Detect 与包级 Detect 相同，方便只持有 Engine 的调用方。
func (e *Engine) Detect(b *gomoku.Board, player gomoku.Stone) (ThreatResult, error) {
	return Detect(b, player)
}

func validateSearch(b *gomoku.Board, player gomoku.Stone, maxDepth int) error {
	if b == nil {
		return fmt.Errorf("%w: nil board", gomoku.ErrInvalidInput)
	}
	if err := gomoku.ValidatePlayer(player); err != nil {
		return err
	}
	if maxDepth < 0 {
		return fmt.Errorf("%w: negative depth %d", gomoku.ErrInvalidInput, maxDepth)
	}
	return b.Validate()
}

func (e *Engine) clampDepth(depth, def int) int {
	if depth <= 0 {
		depth = def
	}
	if depth > e.cfg.DepthCap {
		depth = e.cfg.DepthCap
	}
	return depth
}
