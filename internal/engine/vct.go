package engine

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"gomoku/internal/gomoku"
)

// SearchVCT 寻找连续威胁胜（Victory by Continuous Threats）：冲四与活三混合。
// 先在整个深度内试 VCF，找到即返回且 IsVCF 为 true。
func (e *Engine) SearchVCT(b *gomoku.Board, attacker gomoku.Stone, maxDepth int, deadline time.Time) (SearchResult, error) {
	if err := validateSearch(b, attacker, maxDepth); err != nil {
		return SearchResult{}, err
	}
	defer e.resetStop()
	res := e.searchVCT(b, attacker, e.clampDepth(maxDepth, e.cfg.VCTDepth), deadline)
	log.Debug().
		Str("attacker", attacker.String()).
		Bool("found", res.Found).
		Bool("vcf", res.IsVCF).
		Int("depth", res.Depth).
		Int("max_depth", res.MaxDepth).
		Int64("nodes", res.Nodes).
		Bool("exhaustive", res.Exhaustive).
		Dur("took", res.TimeUsed).
		Msg("vct-done")
	return res, nil
}

func (e *Engine) searchVCT(b *gomoku.Board, attacker gomoku.Stone, maxDepth int, deadline time.Time) SearchResult {
	start := time.Now()
	e.tt.NewSearch()

	s := e.newSearcher(b, deadline)
	// 整个深度内先搜完 VCF，只有纯冲四赢不了才考虑活三
	found, line := s.iterate(attacker, maxDepth, s.vcf)
	isVCF := found
	if !found && !s.aborted {
		found, line = s.iterate(attacker, maxDepth, s.vct)
		isVCF = found && onlyFours(line)
	}
	s.finish()

	return SearchResult{
		Found:      found,
		Sequence:   line,
		Depth:      len(line),
		IsVCF:      isVCF,
		MaxDepth:   maxDepth,
		Exhaustive: !s.aborted,
		Nodes:      s.nodes,
		TimeUsed:   time.Since(start),
	}
}

func onlyFours(line []Step) bool {
	for _, st := range line {
		if st.Kind == KindThree {
			return false
		}
	}
	return true
}

func (s *searcher) vct(att gomoku.Stone, remaining int) (bool, []Step) {
	if found, line := s.vcf(att, remaining); found || s.aborted {
		return found, line
	}
	// 活三 + 应 + 冲四 + 挡 + 成五
	if remaining < 5 {
		return false, nil
	}
	def := att.Opponent()
	if len(winningCells(s.board, def)) > 0 {
		return false, nil // 对方有四，攻方只能走 VCF，上面已经试过
	}

	s.nodes++
	key := s.key(att, modeVCT)
	pr := s.tt.Probe(key, remaining, -scoreInf, scoreInf)
	if pr.ScoreOK && pr.Score == scoreNoWin {
		return false, nil
	}
	ttMove := noMove
	if pr.MoveOK {
		ttMove = pr.Move
	}

	// 先冲四争先，再接活三
	for _, cand := range s.fourMoves(att, nil, ttMove) {
		s.play(cand.c, att)
		block := cand.wins[0]
		s.play(block, def)
		found, line := s.vct(att, remaining-2)
		s.undo(block, def)
		s.undo(cand.c, att)
		if found {
			s.tt.Store(key, remaining, scoreWin, BoundExact, cand.c)
			return true, append([]Step{
				{Coord: cand.c, Player: att, Kind: KindFour, Threat: cand.threat},
				{Coord: block, Player: def, Kind: KindDefend},
			}, line...)
		}
		if s.aborted {
			return false, nil
		}
	}

	for _, cand := range s.threeMoves(att, ttMove) {
		s.play(cand.c, att)
		found, line := s.afterThree(att, cand, remaining)
		s.undo(cand.c, att)
		if found {
			s.tt.Store(key, remaining, scoreWin, BoundExact, cand.c)
			first := Step{Coord: cand.c, Player: att, Kind: KindThree, Threat: cand.threat}
			return true, append([]Step{first}, line...)
		}
		if s.aborted {
			return false, nil
		}
	}
	s.tt.Store(key, remaining, scoreNoWin, BoundExact, noMove)
	return false, nil
}

// afterThree 与节点：防守方的每个应手攻方都必须赢。
// 返回的胜线沿最顽强（后续最长）的那个应手展开。
func (s *searcher) afterThree(att gomoku.Stone, cand candidate, remaining int) (bool, []Step) {
	def := att.Opponent()
	var (
		worst     []Step
		worstMove gomoku.Coord
		seen      bool
	)
	for _, d := range s.orderDefenses(att, cand, remaining-2) {
		s.play(d, def)
		found, line := s.vct(att, remaining-2)
		s.undo(d, def)
		if !found {
			return false, nil // 这个应手化解了，或者超时
		}
		if !seen || len(line) > len(worst) {
			worst, worstMove, seen = line, d, true
		}
	}
	if !seen {
		return false, nil
	}
	return true, append([]Step{{Coord: worstMove, Player: def, Kind: KindDefend}}, worst...)
}

// orderDefenses 防守点排序：置换表里已知能化解的排最前，
// 其次是同时堵住更多条三的点。
func (s *searcher) orderDefenses(att gomoku.Stone, cand candidate, childDepth int) []gomoku.Coord {
	def := att.Opponent()
	type scored struct {
		c       gomoku.Coord
		refutes bool
		hits    int
	}
	list := make([]scored, 0, len(cand.defs))
	for _, d := range cand.defs {
		sc := scored{c: d}
		h := s.z.Toggle(s.hash, d, def)
		if att == gomoku.White {
			h = s.z.ToggleSide(h)
		}
		if pr := s.tt.Probe(h^modeVCT, childDepth, -scoreInf, scoreInf); pr.ScoreOK && pr.Score == scoreNoWin {
			sc.refutes = true
		}
		for _, tp := range cand.threes {
			for _, e := range tp.Empties {
				if e == d {
					sc.hits++
					break
				}
			}
		}
		list = append(list, sc)
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.refutes != b.refutes {
			return a.refutes
		}
		if a.hits != b.hits {
			return a.hits > b.hits
		}
		return a.c.Less(b.c)
	})
	out := make([]gomoku.Coord, len(list))
	for i, sc := range list {
		out[i] = sc.c
	}
	return out
}
