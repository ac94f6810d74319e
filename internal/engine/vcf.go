package engine

import (
	"time"

	"github.com/rs/zerolog/log"

	"gomoku/internal/gomoku"
)

// SearchVCF 寻找连续冲四胜（Victory by Continuous Fours）。
// b 在搜索期间被就地修改，返回前恢复原状。
func (e *Engine) SearchVCF(b *gomoku.Board, attacker gomoku.Stone, maxDepth int, deadline time.Time) (SearchResult, error) {
	if err := validateSearch(b, attacker, maxDepth); err != nil {
		return SearchResult{}, err
	}
	defer e.resetStop()
	maxDepth = e.clampDepth(maxDepth, e.cfg.VCFDepth)
	start := time.Now()
	e.tt.NewSearch()

	s := e.newSearcher(b, deadline)
	found, line := s.iterate(attacker, maxDepth, s.vcf)
	s.finish()

	res := SearchResult{
		Found:      found,
		Sequence:   line,
		Depth:      len(line),
		IsVCF:      found,
		MaxDepth:   maxDepth,
		Exhaustive: !s.aborted,
		Nodes:      s.nodes,
		TimeUsed:   time.Since(start),
	}
	log.Debug().
		Str("attacker", attacker.String()).
		Bool("found", res.Found).
		Int("depth", res.Depth).
		Int("max_depth", maxDepth).
		Int64("nodes", res.Nodes).
		Bool("exhaustive", res.Exhaustive).
		Dur("took", res.TimeUsed).
		Msg("vcf-done")
	return res, nil
}

// iterate 迭代加深：攻方的胜线长度总是奇数，从 1 层开始每次加 2。
// 浅层结果写进置换表，深层借此排序。
func (s *searcher) iterate(att gomoku.Stone, maxDepth int, fn func(gomoku.Stone, int) (bool, []Step)) (bool, []Step) {
	if hasFive(s.board, att) {
		return true, []Step{}
	}
	for d := 1; d <= maxDepth; d += 2 {
		found, line := fn(att, d)
		if found {
			return true, line
		}
		if s.aborted {
			break
		}
	}
	return false, nil
}

// vcf 攻方行棋，remaining 为剩余层数（含攻守双方）。
func (s *searcher) vcf(att gomoku.Stone, remaining int) (bool, []Step) {
	s.nodes++
	if s.timeUp() {
		return false, nil
	}
	if hasFive(s.board, att) {
		return true, nil
	}
	if wins := winningCells(s.board, att); len(wins) > 0 {
		if remaining < 1 {
			return false, nil
		}
		return true, []Step{{Coord: wins[0], Player: att, Kind: KindWin, Threat: ThreatFive}}
	}
	// 冲四 + 挡 + 至少一步成五
	if remaining < 3 {
		return false, nil
	}

	def := att.Opponent()
	defWins := winningCells(s.board, def)
	if len(defWins) >= 2 {
		return false, nil // 对方已有两个成五点，挡不过来
	}

	key := s.key(att, modeVCF)
	pr := s.tt.Probe(key, remaining, -scoreInf, scoreInf)
	if pr.ScoreOK && pr.Score == scoreNoWin {
		return false, nil
	}
	ttMove := noMove
	if pr.MoveOK {
		ttMove = pr.Move
	}

	for _, cand := range s.fourMoves(att, defWins, ttMove) {
		s.play(cand.c, att)
		found, line := s.afterFour(att, cand, remaining)
		s.undo(cand.c, att)
		if found {
			s.tt.Store(key, remaining, scoreWin, BoundExact, cand.c)
			first := Step{Coord: cand.c, Player: att, Kind: KindFour, Threat: cand.threat}
			return true, append([]Step{first}, line...)
		}
		if s.aborted {
			return false, nil
		}
	}
	s.tt.Store(key, remaining, scoreNoWin, BoundExact, noMove)
	return false, nil
}

// afterFour 攻方刚冲四：活四直接赢，否则对方只能挡唯一的成五点。
func (s *searcher) afterFour(att gomoku.Stone, cand candidate, remaining int) (bool, []Step) {
	def := att.Opponent()
	if len(cand.wins) >= 2 {
		return true, []Step{
			{Coord: cand.wins[0], Player: def, Kind: KindDefend},
			{Coord: cand.wins[1], Player: att, Kind: KindWin, Threat: ThreatFive},
		}
	}
	block := cand.wins[0]
	s.play(block, def)
	found, line := s.vcf(att, remaining-2)
	s.undo(block, def)
	if !found {
		return false, nil
	}
	return true, append([]Step{{Coord: block, Player: def, Kind: KindDefend}}, line...)
}
