package engine

import (
	"time"

	"github.com/rs/zerolog/log"

	"gomoku/internal/gomoku"
)

// DefenseResult 对方 VCT 的防守分析。
// Exhaustive=false 时搜索被时限或 Stop 截断：CanBlock 只说明已验证到的防守点，
// 不能当作"挡不住"的结论。
type DefenseResult struct {
	OpponentHasVCT bool           `json:"opponent_has_vct"`
	DefensiveMoves []gomoku.Coord `json:"defensive_moves"`
	CanBlock       bool           `json:"can_block"`
	Exhaustive     bool           `json:"exhaustive"`
	Threat         SearchResult   `json:"threat"`
}

// SearchVCTDefense 检查对方是否有 VCT，若有则找出能化解它的落点。
// 每个候选点都落子后重新跑一次对方的 VCT 验证。
func (e *Engine) SearchVCTDefense(b *gomoku.Board, defender gomoku.Stone, maxDepth int, deadline time.Time) (DefenseResult, error) {
	if err := validateSearch(b, defender, maxDepth); err != nil {
		return DefenseResult{}, err
	}
	defer e.resetStop()
	maxDepth = e.clampDepth(maxDepth, e.cfg.VCTDepth)
	att := defender.Opponent()

	threat := e.searchVCT(b, att, maxDepth, deadline)
	res := DefenseResult{Threat: threat, Exhaustive: threat.Exhaustive}
	if !threat.Found {
		res.CanBlock = true
		return res, nil
	}
	res.OpponentHasVCT = true

	// 已经成五或活四：没有防守点
	if len(threat.Sequence) == 0 || len(winningCells(b, att)) >= 2 {
		return res, nil
	}

	e.checkDefenses(e.newSearcher(b, deadline), defender, maxDepth, &res)
	log.Debug().
		Str("defender", defender.String()).
		Int("threat_depth", threat.Depth).
		Int("defenses", len(res.DefensiveMoves)).
		Bool("exhaustive", res.Exhaustive).
		Msg("vct-defense-done")
	return res, nil
}

// checkDefenses 逐个候选点落子并重跑对方 VCT，化解的点记入 res。
// 中途超时则停下，res.Exhaustive 置 false。
func (e *Engine) checkDefenses(s *searcher, defender gomoku.Stone, maxDepth int, res *DefenseResult) {
	att := defender.Opponent()
	for _, c := range defenseCandidates(s.board, att, res.Threat.Sequence[0]) {
		s.play(c, defender)
		found, _ := s.iterate(att, maxDepth, s.vct)
		s.undo(c, defender)
		if s.aborted {
			break
		}
		if !found {
			res.DefensiveMoves = append(res.DefensiveMoves, c)
		}
	}
	s.finish()
	res.CanBlock = len(res.DefensiveMoves) > 0
	res.Exhaustive = res.Exhaustive && !s.aborted
}

// defenseCandidates 候选防守点：对方第一手本身，以及这一手所成威胁的空点。
// 对方已有一个成五点时只能挡那里。
func defenseCandidates(b *gomoku.Board, att gomoku.Stone, first Step) []gomoku.Coord {
	if wins := winningCells(b, att); len(wins) == 1 {
		return wins
	}
	out := []gomoku.Coord{first.Coord}
	for _, tp := range threatsThrough(b, first.Coord, att) {
		if tp.Type.isFourClass() || tp.Type.isForcingThree() {
			out = append(out, tp.Empties...)
		}
	}
	sortCoords(out)
	out = dedupCoords(out)
	keep := out[:0]
	for _, c := range out {
		if b.IsEmpty(c) {
			keep = append(keep, c)
		}
	}
	return keep
}
