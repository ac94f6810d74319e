// Package selfplay plays quick games between search-driven players. The
// games feed the benchmark and fixture generator commands.
package selfplay

import (
	"fmt"
	"math/rand"
	"time"

	"gomoku/internal/engine"
	"gomoku/internal/gomoku"
)

type PlayerConfig struct {
	Name   string
	Cfg    engine.SearchConfig
	UseVCT bool // false 只搜 VCF
}

// GameResult Winner 为 Empty 表示和棋（下满或到步数上限）。
type GameResult struct {
	Winner    gomoku.Stone
	Moves     []gomoku.Coord
	Searches  int
	VCFFound  int
	VCTFound  int
	Nodes     int64
	TimeSpent time.Duration
}

// VisitFunc is called on every position before the side to move plays.
type VisitFunc func(pos *gomoku.Position) error

// Play 下一整盘。选点顺序：成五、挡对方成五、搜到的胜线第一手、随机落在已有棋子附近。
// 相同的 rng 种子得到相同的对局。
func Play(e *engine.Engine, rng *rand.Rand, black, white PlayerConfig, maxMoves int, visit VisitFunc) (GameResult, error) {
	var res GameResult
	pos := gomoku.NewPosition()
	for i := 0; i < maxMoves; i++ {
		if visit != nil {
			if err := visit(pos); err != nil {
				return res, err
			}
		}
		cfg := black
		if pos.SideToMove == gomoku.White {
			cfg = white
		}
		mv, ok, err := chooseMove(e, rng, pos, cfg, &res)
		if err != nil {
			return res, err
		}
		if !ok {
			return res, nil // 下满
		}
		side := pos.SideToMove
		if err := pos.Play(mv); err != nil {
			return res, fmt.Errorf("game move %d: %w", i+1, err)
		}
		res.Moves = append(res.Moves, mv)
		if engine.HasFive(&pos.Board, side) {
			res.Winner = side
			return res, nil
		}
	}
	return res, nil
}

func chooseMove(e *engine.Engine, rng *rand.Rand, pos *gomoku.Position, cfg PlayerConfig, res *GameResult) (gomoku.Coord, bool, error) {
	me := pos.SideToMove
	if wins := engine.WinningCells(&pos.Board, me); len(wins) > 0 {
		return wins[0], true, nil
	}
	if blocks := engine.WinningCells(&pos.Board, me.Opponent()); len(blocks) > 0 {
		return blocks[0], true, nil
	}

	search := e.SearchVCF
	if cfg.UseVCT {
		search = e.SearchVCT
	}
	r, err := search(&pos.Board, me, cfg.Cfg.MaxDepth, cfg.Cfg.Deadline(time.Now()))
	if err != nil {
		return gomoku.Coord{}, false, err
	}
	res.Searches++
	res.Nodes += r.Nodes
	res.TimeSpent += r.TimeUsed
	if r.Found {
		if r.IsVCF {
			res.VCFFound++
		} else {
			res.VCTFound++
		}
		if mv, ok := r.FirstMove(); ok {
			return mv, true, nil
		}
	}
	mv, ok := randomNear(rng, &pos.Board)
	return mv, ok, nil
}

// randomNear 在已有棋子两格以内随机选空点；空棋盘下天元。
func randomNear(rng *rand.Rand, b *gomoku.Board) (gomoku.Coord, bool) {
	center := gomoku.Coord{Row: gomoku.Size / 2, Col: gomoku.Size / 2}
	if b.Count(gomoku.Empty) == gomoku.NumCells {
		return center, true
	}
	var cands, rest []gomoku.Coord
	for sq := 0; sq < gomoku.NumCells; sq++ {
		c := gomoku.CoordOf(sq)
		if !b.IsEmpty(c) {
			continue
		}
		if hasNeighbor(b, c, 2) {
			cands = append(cands, c)
		} else {
			rest = append(rest, c)
		}
	}
	if len(cands) == 0 {
		cands = rest
	}
	if len(cands) == 0 {
		return gomoku.Coord{}, false
	}
	return cands[rng.Intn(len(cands))], true
}

func hasNeighbor(b *gomoku.Board, c gomoku.Coord, dist int) bool {
	for dr := -dist; dr <= dist; dr++ {
		for dc := -dist; dc <= dist; dc++ {
			n := gomoku.Coord{Row: c.Row + dr, Col: c.Col + dc}
			if (dr != 0 || dc != 0) && n.OnBoard() && b.At(n) != gomoku.Empty {
				return true
			}
		}
	}
	return false
}
